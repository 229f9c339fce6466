package password_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkmark/inkmark/internal/pkg/password"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := password.Hash("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	require.NoError(t, password.Compare(hash, "s3cret"))
	require.Error(t, password.Compare(hash, "wrong"))
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := password.Hash("")
	require.Error(t, err)
}
