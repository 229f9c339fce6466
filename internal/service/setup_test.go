package service_test

import (
	"bytes"
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkmark/inkmark/internal/config"
	"github.com/inkmark/inkmark/internal/filestore"
	"github.com/inkmark/inkmark/internal/model"
	"github.com/inkmark/inkmark/internal/pkg/timeutil"
	"github.com/inkmark/inkmark/internal/repo"
	"github.com/inkmark/inkmark/internal/service"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	db     *sql.DB
	users  *repo.UserRepo
	docs   *repo.DocumentRepo
	grants *repo.GrantRepo
	sigs   *repo.SignatureRepo
	events *repo.AuditRepo
	store  filestore.Store
	sender *stubSender

	audit      *service.AuditService
	auth       *service.AuthService
	documents  *service.DocumentService
	signatures *service.SignatureService
	shares     *service.ShareService
	export     *service.ExportService
}

// stubSender records outgoing mail instead of talking SMTP.
type stubSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *stubSender) Send(to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repo.Open(":memory:")
	require.NoError(t, err)
	// A second pooled connection would see a different empty database.
	db.SetMaxOpenConns(1)
	require.NoError(t, repo.ApplyMigrations(db))
	t.Cleanup(func() { _ = db.Close() })

	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)

	env := &testEnv{
		db:     db,
		users:  repo.NewUserRepo(db),
		docs:   repo.NewDocumentRepo(db),
		grants: repo.NewGrantRepo(db),
		sigs:   repo.NewSignatureRepo(db),
		events: repo.NewAuditRepo(db),
		store:  store,
		sender: &stubSender{},
	}
	env.audit = service.NewAuditService(env.events, env.docs)
	env.auth = service.NewAuthService(env.users, testSecret, time.Hour)
	env.documents = service.NewDocumentService(env.docs, env.sigs, env.grants, store, env.audit)
	env.signatures = service.NewSignatureService(env.sigs, env.docs, env.grants, env.audit)
	env.shares = service.NewShareService(env.docs, env.grants, env.users, env.audit, env.sender, testSecret, time.Hour, "http://localhost:8080")
	env.export = service.NewExportService(env.docs, env.sigs, env.grants, store, env.audit)
	return env
}

func (e *testEnv) createUser(t *testing.T, id, email string) *model.User {
	t.Helper()
	now := timeutil.NowUnix()
	user := &model.User{ID: id, Email: email, Name: id, PasswordHash: "x", Ctime: now, Mtime: now}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) uploadDoc(t *testing.T, ownerID string) *model.Document {
	t.Helper()
	doc, err := e.documents.Upload(context.Background(), service.UserActor(ownerID), "contract.pdf", bytes.NewReader(pdfFixture(t, 2)), 0)
	require.NoError(t, err)
	return doc
}

func (e *testEnv) placeMark(t *testing.T, actor service.Actor, docID string) *model.Signature {
	t.Helper()
	sig, err := e.signatures.Create(context.Background(), actor, service.CreateSignatureInput{
		DocumentID: docID,
		Page:       1,
		X:          100,
		Y:          150,
	})
	require.NoError(t, err)
	return sig
}
