package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/inkmark/inkmark/internal/pkg/errors"
	"github.com/inkmark/inkmark/internal/pkg/jwt"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	user, token, err := env.auth.Register(context.Background(), "  Jane@Example.com ", "Jane", "hunter2-long")
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", user.Email)
	require.NotEmpty(t, token)

	claims, err := jwt.ParseToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)

	_, _, err = env.auth.Register(context.Background(), "jane@example.com", "Jane Again", "another-pass")
	require.ErrorIs(t, err, appErr.ErrConflict)

	_, _, err = env.auth.Register(context.Background(), "", "noemail", "pass")
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, loginToken, err := env.auth.Login(context.Background(), "JANE@example.com", "hunter2-long")
	require.NoError(t, err)
	require.NotEmpty(t, loginToken)

	_, _, err = env.auth.Login(context.Background(), "jane@example.com", "wrong")
	require.ErrorIs(t, err, appErr.ErrUnauthorized)
	_, _, err = env.auth.Login(context.Background(), "nobody@example.com", "whatever")
	require.ErrorIs(t, err, appErr.ErrUnauthorized)
}
