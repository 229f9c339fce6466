package service

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/inkmark/inkmark/internal/model"
	appErr "github.com/inkmark/inkmark/internal/pkg/errors"
	"github.com/inkmark/inkmark/internal/pkg/timeutil"
	"github.com/inkmark/inkmark/internal/repo"
)

const (
	defaultSignatureText = "Signature Here"
	defaultSignatureFont = "Arial"
	defaultFontSize      = 24
	defaultColor         = "#000000"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type SignatureService struct {
	sigs   *repo.SignatureRepo
	docs   *repo.DocumentRepo
	grants *repo.GrantRepo
	audit  *AuditService
}

func NewSignatureService(sigs *repo.SignatureRepo, docs *repo.DocumentRepo, grants *repo.GrantRepo, audit *AuditService) *SignatureService {
	return &SignatureService{sigs: sigs, docs: docs, grants: grants, audit: audit}
}

type CreateSignatureInput struct {
	DocumentID string
	Page       int
	X          float64
	Y          float64
	Text       string
	Font       string
	FontSize   float64
	Color      string
}

// UpdateSignatureInput is a partial patch: only non-nil fields are written,
// so a drag that carries just X and Y never clobbers text or font.
type UpdateSignatureInput struct {
	X        *float64
	Y        *float64
	Text     *string
	Font     *string
	FontSize *float64
	Color    *string
}

func (s *SignatureService) Create(ctx context.Context, actor Actor, in CreateSignatureInput) (*model.Signature, error) {
	doc, err := s.docs.GetByID(ctx, in.DocumentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAccess(ctx, actor, doc); err != nil {
		return nil, err
	}
	if in.Page < 1 || !isFinite(in.X) || !isFinite(in.Y) {
		return nil, appErr.ErrInvalid
	}
	if in.Color != "" && !colorPattern.MatchString(in.Color) {
		return nil, appErr.ErrInvalid
	}
	if in.FontSize < 0 {
		return nil, appErr.ErrInvalid
	}
	now := timeutil.NowUnix()
	sig := &model.Signature{
		ID:         newID(),
		DocumentID: in.DocumentID,
		UserID:     actor.UserID,
		Page:       in.Page,
		X:          in.X,
		Y:          in.Y,
		Text:       defaultString(in.Text, defaultSignatureText),
		Font:       defaultString(in.Font, defaultSignatureFont),
		FontSize:   defaultFloat(in.FontSize, defaultFontSize),
		Color:      defaultString(in.Color, defaultColor),
		Status:     model.SignatureStatusPending,
		Ctime:      now,
		Mtime:      now,
	}
	if err := s.sigs.Create(ctx, sig); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, doc.ID, actor, model.AuditActionSignatureCreated)
	return sig, nil
}

func (s *SignatureService) Get(ctx context.Context, actor Actor, sigID string) (*model.Signature, error) {
	sig, doc, err := s.lookup(ctx, sigID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAccess(ctx, actor, doc); err != nil {
		return nil, err
	}
	return sig, nil
}

func (s *SignatureService) ListByDocument(ctx context.Context, actor Actor, docID string) ([]model.Signature, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAccess(ctx, actor, doc); err != nil {
		return nil, err
	}
	return s.sigs.ListByDocument(ctx, docID)
}

func (s *SignatureService) Update(ctx context.Context, actor Actor, sigID string, patch UpdateSignatureInput) (*model.Signature, error) {
	sig, doc, err := s.lookup(ctx, sigID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeEdit(actor, doc, sig); err != nil {
		return nil, err
	}
	update := map[string]interface{}{}
	if patch.X != nil {
		if !isFinite(*patch.X) {
			return nil, appErr.ErrInvalid
		}
		update["x"] = *patch.X
	}
	if patch.Y != nil {
		if !isFinite(*patch.Y) {
			return nil, appErr.ErrInvalid
		}
		update["y"] = *patch.Y
	}
	if patch.Text != nil {
		update["text"] = *patch.Text
	}
	if patch.Font != nil {
		update["font"] = *patch.Font
	}
	if patch.FontSize != nil {
		if *patch.FontSize <= 0 {
			return nil, appErr.ErrInvalid
		}
		update["font_size"] = *patch.FontSize
	}
	if patch.Color != nil {
		if !colorPattern.MatchString(*patch.Color) {
			return nil, appErr.ErrInvalid
		}
		update["color"] = *patch.Color
	}
	if len(update) == 0 {
		return sig, nil
	}
	update["mtime"] = timeutil.NowUnix()
	if err := s.sigs.Update(ctx, sigID, update); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, doc.ID, actor, model.AuditActionSignatureUpdated)
	return s.sigs.GetByID(ctx, sigID)
}

// SetStatus walks the lifecycle state machine. Signed and rejected are only
// reachable from pending, and undo always goes back through pending; a
// signed mark can never flip straight to rejected or vice versa.
func (s *SignatureService) SetStatus(ctx context.Context, actor Actor, sigID, status, reason string) (*model.Signature, error) {
	sig, doc, err := s.lookup(ctx, sigID)
	if err != nil {
		return nil, err
	}
	if !canSetStatus(actor, doc) {
		return nil, appErr.ErrForbidden
	}
	if !transitionAllowed(sig.Status, status) {
		return nil, appErr.ErrInvalid
	}
	reason = strings.TrimSpace(reason)
	if status == model.SignatureStatusRejected && reason == "" {
		return nil, appErr.ErrInvalid
	}
	if status != model.SignatureStatusRejected {
		reason = ""
	}
	update := map[string]interface{}{
		"status":           status,
		"rejection_reason": reason,
		"mtime":            timeutil.NowUnix(),
	}
	if err := s.sigs.Update(ctx, sigID, update); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, doc.ID, actor, statusAuditAction(status))
	return s.sigs.GetByID(ctx, sigID)
}

func (s *SignatureService) Delete(ctx context.Context, actor Actor, sigID string) error {
	sig, doc, err := s.lookup(ctx, sigID)
	if err != nil {
		return err
	}
	if err := s.authorizeDelete(actor, doc, sig); err != nil {
		return err
	}
	if err := s.sigs.Delete(ctx, sigID); err != nil {
		return err
	}
	s.audit.Record(ctx, doc.ID, actor, model.AuditActionSignatureDeleted)
	return nil
}

func (s *SignatureService) lookup(ctx context.Context, sigID string) (*model.Signature, *model.Document, error) {
	sig, err := s.sigs.GetByID(ctx, sigID)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.docs.GetByID(ctx, sig.DocumentID)
	if err != nil {
		return nil, nil, err
	}
	return sig, doc, nil
}

// authorizeAccess gates read/list/create. Public actors with a stale
// capability get ErrExpired so the caller can distinguish "renew your link"
// from a plain denial.
func (s *SignatureService) authorizeAccess(ctx context.Context, actor Actor, doc *model.Document) error {
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

func (s *SignatureService) authorizeEdit(actor Actor, doc *model.Document, sig *model.Signature) error {
	now := timeutil.NowUnix()
	if actor.IsPublic() && !capabilityValid(actor, doc, now) {
		return appErr.ErrExpired
	}
	if !canEditSignature(actor, doc, sig, now) {
		return appErr.ErrForbidden
	}
	return nil
}

// authorizeDelete differs from authorizeEdit in that removal stays open to
// the creator after the mark leaves pending.
func (s *SignatureService) authorizeDelete(actor Actor, doc *model.Document, sig *model.Signature) error {
	now := timeutil.NowUnix()
	if actor.IsPublic() && !capabilityValid(actor, doc, now) {
		return appErr.ErrExpired
	}
	if !canDeleteSignature(actor, doc, sig, now) {
		return appErr.ErrForbidden
	}
	return nil
}

func transitionAllowed(from, to string) bool {
	switch from {
	case model.SignatureStatusPending:
		return to == model.SignatureStatusSigned || to == model.SignatureStatusRejected
	case model.SignatureStatusSigned, model.SignatureStatusRejected:
		return to == model.SignatureStatusPending
	}
	return false
}

func statusAuditAction(status string) string {
	switch status {
	case model.SignatureStatusSigned:
		return model.AuditActionStatusSigned
	case model.SignatureStatusRejected:
		return model.AuditActionStatusRejected
	default:
		return model.AuditActionStatusReverted
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func defaultFloat(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}
