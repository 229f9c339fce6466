package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/inkmark/inkmark/internal/model"
	appErr "github.com/inkmark/inkmark/internal/pkg/errors"
	"github.com/inkmark/inkmark/internal/pkg/jwt"
	"github.com/inkmark/inkmark/internal/pkg/timeutil"
	"github.com/inkmark/inkmark/internal/repo"
)

// ShareService is the access gate: it manages the grant list and the single
// active capability token per document.
type ShareService struct {
	docs    *repo.DocumentRepo
	grants  *repo.GrantRepo
	users   *repo.UserRepo
	audit   *AuditService
	sender  EmailSender
	secret  []byte
	ttl     time.Duration
	baseURL string
}

func NewShareService(docs *repo.DocumentRepo, grants *repo.GrantRepo, users *repo.UserRepo, audit *AuditService, sender EmailSender, secret []byte, ttl time.Duration, baseURL string) *ShareService {
	return &ShareService{docs: docs, grants: grants, users: users, audit: audit, sender: sender, secret: secret, ttl: ttl, baseURL: baseURL}
}

// ShareToken is the minted capability handed back to the owner.
type ShareToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	SignURL   string `json:"sign_url"`
}

// GrantByEmail adds a registered user to the document's shared-with list.
// The invitation email goes out only after the grant persisted, and its
// failure does not roll the grant back.
func (s *ShareService) GrantByEmail(ctx context.Context, actor Actor, docID, email string) (*model.DocumentGrant, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if actor.UserID == "" || actor.UserID != doc.UserID {
		return nil, appErr.ErrForbidden
	}
	target, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if target.ID == doc.UserID {
		return nil, appErr.ErrInvalid
	}
	grant := &model.DocumentGrant{
		ID:         newID(),
		DocumentID: docID,
		UserID:     target.ID,
		Ctime:      timeutil.NowUnix(),
	}
	if err := s.grants.Create(ctx, grant); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, docID, actor, model.AuditActionShared)
	s.notify(ctx, target.Email, doc.Filename, fmt.Sprintf("%s/documents/%s", s.baseURL, docID))
	return grant, nil
}

// MintToken issues a fresh signing token and stores it on the document,
// overwriting any previous one. The old token is invalid from this moment
// even if its own expiry has not passed.
func (s *ShareService) MintToken(ctx context.Context, actor Actor, docID, notifyEmail string) (*ShareToken, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if actor.UserID == "" || actor.UserID != doc.UserID {
		return nil, appErr.ErrForbidden
	}
	token, expiresAt, err := jwt.GenerateShareToken(docID, s.secret, s.ttl)
	if err != nil {
		return nil, err
	}
	if err := s.docs.UpdateShareToken(ctx, docID, token, expiresAt, timeutil.NowUnix()); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, docID, actor, model.AuditActionShared)
	signURL := fmt.Sprintf("%s/sign/%s", s.baseURL, token)
	if notifyEmail != "" {
		s.notify(ctx, notifyEmail, doc.Filename, signURL)
	}
	return &ShareToken{Token: token, ExpiresAt: expiresAt, SignURL: signURL}, nil
}

// RevokeToken clears the active token, if any.
func (s *ShareService) RevokeToken(ctx context.Context, actor Actor, docID string) error {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if actor.UserID == "" || actor.UserID != doc.UserID {
		return appErr.ErrForbidden
	}
	if err := s.docs.UpdateShareToken(ctx, docID, "", 0, timeutil.NowUnix()); err != nil {
		return err
	}
	s.audit.Record(ctx, docID, actor, model.AuditActionShareRevoked)
	return nil
}

// Resolve validates a presented signing token end to end: the JWT must
// verify, the document must exist, and the token must still be the one
// stored on the document and unexpired. Anything else is an expired
// capability; superseded tokens get no partial validity window.
func (s *ShareService) Resolve(ctx context.Context, token string) (*model.Document, Actor, error) {
	claims, err := jwt.ParseShareToken(token, s.secret)
	if err != nil {
		return nil, Actor{}, appErr.ErrExpired
	}
	doc, err := s.docs.GetByID(ctx, claims.DocumentID)
	if err != nil {
		return nil, Actor{}, err
	}
	if doc.ShareToken == "" || doc.ShareToken != token || timeutil.NowUnix() >= doc.ShareTokenExpires {
		return nil, Actor{}, appErr.ErrExpired
	}
	return doc, PublicActor(doc.ID, token), nil
}

func (s *ShareService) notify(ctx context.Context, to, filename, link string) {
	subject := fmt.Sprintf("Invitation to sign: %s", filename)
	body := fmt.Sprintf("You have been invited to sign a document. Use the following link:\n\n%s\n", link)
	go func() {
		if err := s.sender.Send(to, subject, body); err != nil {
			logutil.GetLogger(ctx).Warn("share notification failed", zap.String("to", to), zap.Error(err))
		}
	}()
}
