package repo_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkmark/inkmark/internal/model"
	appErr "github.com/inkmark/inkmark/internal/pkg/errors"
	"github.com/inkmark/inkmark/internal/pkg/timeutil"
	"github.com/inkmark/inkmark/internal/repo"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := repo.Open(":memory:")
	require.NoError(t, err)
	// A second pooled connection would see a different empty database.
	db.SetMaxOpenConns(1)
	require.NoError(t, repo.ApplyMigrations(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDocumentRepoCRUD(t *testing.T) {
	db := openTestDB(t)
	docs := repo.NewDocumentRepo(db)
	now := timeutil.NowUnix()

	doc := &model.Document{ID: "doc-1", UserID: "user-1", Filename: "a.pdf", StorageKey: "key-1", Ctime: now, Mtime: now}
	require.NoError(t, docs.Create(context.Background(), doc))
	require.ErrorIs(t, docs.Create(context.Background(), doc), appErr.ErrConflict)

	fetched, err := docs.GetByID(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Equal(t, "a.pdf", fetched.Filename)
	require.Equal(t, "key-1", fetched.StorageKey)

	_, err = docs.GetByID(context.Background(), "doc-2")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	mine, err := docs.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	other, err := docs.ListByUser(context.Background(), "user-2")
	require.NoError(t, err)
	require.Empty(t, other)

	require.NoError(t, docs.UpdateShareToken(context.Background(), "doc-1", "tok", now+3600, now))
	fetched, err = docs.GetByID(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Equal(t, "tok", fetched.ShareToken)
	require.Equal(t, now+3600, fetched.ShareTokenExpires)
	require.ErrorIs(t, docs.UpdateShareToken(context.Background(), "doc-missing", "tok", 0, now), appErr.ErrNotFound)

	require.NoError(t, docs.Delete(context.Background(), "doc-1"))
	require.ErrorIs(t, docs.Delete(context.Background(), "doc-1"), appErr.ErrNotFound)
}

func TestGrantRepoUniqueness(t *testing.T) {
	db := openTestDB(t)
	grants := repo.NewGrantRepo(db)
	now := timeutil.NowUnix()

	grant := &model.DocumentGrant{ID: "g-1", DocumentID: "doc-1", UserID: "user-2", Ctime: now}
	require.NoError(t, grants.Create(context.Background(), grant))

	dup := &model.DocumentGrant{ID: "g-2", DocumentID: "doc-1", UserID: "user-2", Ctime: now}
	require.ErrorIs(t, grants.Create(context.Background(), dup), appErr.ErrConflict)

	exists, err := grants.Exists(context.Background(), "doc-1", "user-2")
	require.NoError(t, err)
	require.True(t, exists)
	exists, err = grants.Exists(context.Background(), "doc-1", "user-3")
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, grants.DeleteByDocument(context.Background(), "doc-1"))
	exists, err = grants.Exists(context.Background(), "doc-1", "user-2")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestSignatureRepoUpdateAndOrdering(t *testing.T) {
	db := openTestDB(t)
	sigs := repo.NewSignatureRepo(db)
	now := timeutil.NowUnix()

	base := model.Signature{
		DocumentID: "doc-1", Page: 1, X: 1, Y: 2,
		Text: "t", Font: "Arial", FontSize: 24, Color: "#000000",
		Status: model.SignatureStatusPending, Ctime: now, Mtime: now,
	}
	first, second := base, base
	first.ID = "sig-1"
	second.ID = "sig-2"
	require.NoError(t, sigs.Create(context.Background(), &first))
	require.NoError(t, sigs.Create(context.Background(), &second))

	// Insertion order is stable even with identical timestamps.
	items, err := sigs.ListByDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "sig-1", items[0].ID)
	require.Equal(t, "sig-2", items[1].ID)

	require.NoError(t, sigs.Update(context.Background(), "sig-1", map[string]interface{}{"x": 9.5, "text": "patched"}))
	got, err := sigs.GetByID(context.Background(), "sig-1")
	require.NoError(t, err)
	require.Equal(t, 9.5, got.X)
	require.Equal(t, "patched", got.Text)
	require.Equal(t, 2.0, got.Y)

	require.ErrorIs(t, sigs.Update(context.Background(), "sig-x", map[string]interface{}{"x": 1.0}), appErr.ErrNotFound)
	require.ErrorIs(t, sigs.Delete(context.Background(), "sig-x"), appErr.ErrNotFound)

	require.NoError(t, sigs.DeleteByDocument(context.Background(), "doc-1"))
	remaining, err := sigs.ListByDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestUserRepoEmailUnique(t *testing.T) {
	db := openTestDB(t)
	users := repo.NewUserRepo(db)
	now := timeutil.NowUnix()

	user := &model.User{ID: "u-1", Email: "a@example.com", PasswordHash: "x", Ctime: now, Mtime: now}
	require.NoError(t, users.Create(context.Background(), user))
	dup := &model.User{ID: "u-2", Email: "a@example.com", PasswordHash: "x", Ctime: now, Mtime: now}
	require.ErrorIs(t, users.Create(context.Background(), dup), appErr.ErrConflict)

	got, err := users.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.Equal(t, "u-1", got.ID)
	_, err = users.GetByEmail(context.Background(), "b@example.com")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestAuditRepoListPagination(t *testing.T) {
	db := openTestDB(t)
	events := repo.NewAuditRepo(db)

	for i := 0; i < 5; i++ {
		require.NoError(t, events.Create(context.Background(), &model.AuditEvent{
			ID:         string(rune('a' + i)),
			DocumentID: "doc-1",
			Action:     model.AuditActionViewed,
			Ctime:      int64(1000 + i),
		}))
	}

	page, err := events.ListByDocument(context.Background(), "doc-1", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	rest, err := events.ListByDocument(context.Background(), "doc-1", 10, 2)
	require.NoError(t, err)
	require.Len(t, rest, 3)
}
