package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/inkmark/inkmark/internal/filestore"
	"github.com/inkmark/inkmark/internal/model"
	appErr "github.com/inkmark/inkmark/internal/pkg/errors"
	"github.com/inkmark/inkmark/internal/pkg/timeutil"
	"github.com/inkmark/inkmark/internal/repo"
)

type DocumentService struct {
	docs   *repo.DocumentRepo
	sigs   *repo.SignatureRepo
	grants *repo.GrantRepo
	store  filestore.Store
	audit  *AuditService
}

func NewDocumentService(docs *repo.DocumentRepo, sigs *repo.SignatureRepo, grants *repo.GrantRepo, store filestore.Store, audit *AuditService) *DocumentService {
	return &DocumentService{docs: docs, sigs: sigs, grants: grants, store: store, audit: audit}
}

// DocumentDetail is what a viewer gets back: the document plus every mark
// currently placed on it, in insertion order.
type DocumentDetail struct {
	Document   *model.Document   `json:"document"`
	Signatures []model.Signature `json:"signatures"`
}

func (s *DocumentService) Upload(ctx context.Context, actor Actor, filename string, r io.Reader, size int64) (*model.Document, error) {
	if actor.UserID == "" {
		return nil, appErr.ErrForbidden
	}
	filename = strings.TrimSpace(filename)
	if filename == "" || !strings.EqualFold(strings.TrimLeft(filenameExt(filename), "."), "pdf") {
		return nil, appErr.ErrInvalid
	}
	key := newID() + ".pdf"
	if err := s.store.Save(ctx, key, r, size); err != nil {
		return nil, fmt.Errorf("%w: save blob: %v", appErr.ErrDependency, err)
	}
	now := timeutil.NowUnix()
	doc := &model.Document{
		ID:         newID(),
		UserID:     actor.UserID,
		Filename:   filename,
		StorageKey: key,
		Ctime:      now,
		Mtime:      now,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		// Best effort: do not leave an orphaned blob behind.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logutil.GetLogger(ctx).Warn("orphaned blob cleanup failed", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	s.audit.Record(ctx, doc.ID, actor, model.AuditActionUploaded)
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, userID string) ([]model.Document, error) {
	return s.docs.ListByUser(ctx, userID)
}

func (s *DocumentService) ListSharedWithMe(ctx context.Context, userID string) ([]model.Document, error) {
	return s.grants.ListDocumentsSharedWith(ctx, userID)
}

// Get returns the document and its signatures to any actor with read
// access: the owner, a grantee, or a valid capability holder.
func (s *DocumentService) Get(ctx context.Context, actor Actor, docID string) (*DocumentDetail, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, actor, doc); err != nil {
		return nil, err
	}
	sigs, err := s.sigs.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, docID, actor, model.AuditActionViewed)
	return &DocumentDetail{Document: doc, Signatures: sigs}, nil
}

// OpenSource streams the original uploaded PDF.
func (s *DocumentService) OpenSource(ctx context.Context, actor Actor, docID string) (io.ReadCloser, *model.Document, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authorizeRead(ctx, actor, doc); err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open blob: %v", appErr.ErrDependency, err)
	}
	return rc, doc, nil
}

// Delete removes the document, its signatures and its blob. Signatures and
// the blob go first so a crash mid-cascade leaves a repairable record, and
// an already-missing blob is tolerated.
func (s *DocumentService) Delete(ctx context.Context, actor Actor, docID string) error {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if actor.UserID == "" || actor.UserID != doc.UserID {
		return appErr.ErrForbidden
	}
	if err := s.sigs.DeleteByDocument(ctx, docID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
		logutil.GetLogger(ctx).Warn("blob delete failed", zap.String("key", doc.StorageKey), zap.Error(err))
	}
	if err := s.grants.DeleteByDocument(ctx, docID); err != nil {
		return err
	}
	s.audit.Record(ctx, docID, actor, model.AuditActionDocumentDeleted)
	return s.docs.Delete(ctx, docID)
}

// authorizeRead distinguishes a public actor with a stale capability
// (expired) from a registered user who simply has no access (forbidden).
func (s *DocumentService) authorizeRead(ctx context.Context, actor Actor, doc *model.Document) error {
	now := timeutil.NowUnix()
	if actor.IsPublic() {
		if !capabilityValid(actor, doc, now) {
			return appErr.ErrExpired
		}
		return nil
	}
	hasGrant, err := s.grants.Exists(ctx, doc.ID, actor.UserID)
	if err != nil {
		return err
	}
	if !canReadDocument(actor, doc, hasGrant, now) {
		return appErr.ErrForbidden
	}
	return nil
}

func filenameExt(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return name[idx:]
}
