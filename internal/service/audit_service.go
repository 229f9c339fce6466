package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/inkmark/inkmark/internal/model"
	appErr "github.com/inkmark/inkmark/internal/pkg/errors"
	"github.com/inkmark/inkmark/internal/pkg/timeutil"
	"github.com/inkmark/inkmark/internal/repo"
)

type AuditService struct {
	events *repo.AuditRepo
	docs   *repo.DocumentRepo
}

func NewAuditService(events *repo.AuditRepo, docs *repo.DocumentRepo) *AuditService {
	return &AuditService{events: events, docs: docs}
}

// Record appends one trail entry. A failing recorder must never block the
// primary operation, so errors are logged and swallowed here.
func (s *AuditService) Record(ctx context.Context, docID string, actor Actor, action string) {
	event := &model.AuditEvent{
		ID:         uuid.NewString(),
		DocumentID: docID,
		UserID:     actor.UserID,
		Action:     action,
		IP:         actor.IP,
		Ctime:      timeutil.NowUnix(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		logutil.GetLogger(ctx).Warn("audit record failed",
			zap.String("document_id", docID),
			zap.String("action", action),
			zap.Error(err))
	}
}

// ListByDocument returns the trail for a document, owner only.
func (s *AuditService) ListByDocument(ctx context.Context, actor Actor, docID string, limit, offset uint) ([]model.AuditEvent, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if actor.UserID == "" || actor.UserID != doc.UserID {
		return nil, appErr.ErrForbidden
	}
	if limit == 0 || limit > 200 {
		limit = 200
	}
	return s.events.ListByDocument(ctx, docID, limit, offset)
}
