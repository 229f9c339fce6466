package filestore_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkmark/inkmark/internal/config"
	"github.com/inkmark/inkmark/internal/filestore"
)

func newLocalStore(t *testing.T) filestore.Store {
	t.Helper()
	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)
	return store
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	payload := []byte("%PDF-1.4 fake")
	require.NoError(t, store.Save(ctx, "doc.pdf", bytes.NewReader(payload), int64(len(payload))))

	rc, err := store.Open(ctx, "doc.pdf")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, payload, got)

	require.NoError(t, store.Delete(ctx, "doc.pdf"))
	_, err = store.Open(ctx, "doc.pdf")
	require.Error(t, err)

	// Deleting what is already gone is not an error.
	require.NoError(t, store.Delete(ctx, "doc.pdf"))
}

func TestLocalStoreRejectsPathKeys(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "../escape.pdf", "a/b.pdf", `a\b.pdf`} {
		require.Error(t, store.Save(ctx, key, bytes.NewReader(nil), 0), "key %q", key)
		_, err := store.Open(ctx, key)
		require.Error(t, err, "key %q", key)
	}
}

func TestNewUnknownType(t *testing.T) {
	_, err := filestore.New(config.FileStoreConfig{Type: "carrier-pigeon"})
	require.Error(t, err)

	_, err = filestore.New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{}})
	require.Error(t, err)
}
