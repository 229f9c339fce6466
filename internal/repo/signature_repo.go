package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/inkmark/inkmark/internal/model"
	"github.com/inkmark/inkmark/internal/pkg/dbutil"
	appErr "github.com/inkmark/inkmark/internal/pkg/errors"
)

var signatureFields = []string{"id", "document_id", "user_id", "page", "x", "y", "text", "font", "font_size", "color", "status", "rejection_reason", "ctime", "mtime"}

type SignatureRepo struct {
	db *sql.DB
}

func NewSignatureRepo(db *sql.DB) *SignatureRepo {
	return &SignatureRepo{db: db}
}

func (r *SignatureRepo) Create(ctx context.Context, sig *model.Signature) error {
	data := map[string]interface{}{
		"id":               sig.ID,
		"document_id":      sig.DocumentID,
		"user_id":          sig.UserID,
		"page":             sig.Page,
		"x":                sig.X,
		"y":                sig.Y,
		"text":             sig.Text,
		"font":             sig.Font,
		"font_size":        sig.FontSize,
		"color":            sig.Color,
		"status":           sig.Status,
		"rejection_reason": sig.RejectionReason,
		"ctime":            sig.Ctime,
		"mtime":            sig.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("signatures", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *SignatureRepo) GetByID(ctx context.Context, sigID string) (*model.Signature, error) {
	where := map[string]interface{}{"id": sigID}
	sqlStr, args, err := builder.BuildSelect("signatures", where, signatureFields)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	return scanSignature(rows)
}

// ListByDocument returns signatures in insertion order. rowid breaks ties
// between marks created within the same second.
func (r *SignatureRepo) ListByDocument(ctx context.Context, docID string) ([]model.Signature, error) {
	where := map[string]interface{}{
		"document_id": docID,
		"_orderby":    "ctime asc, rowid asc",
	}
	sqlStr, args, err := builder.BuildSelect("signatures", where, signatureFields)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Signature, 0)
	for rows.Next() {
		sig, err := scanSignature(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *sig)
	}
	return items, rows.Err()
}

// Update writes only the columns present in the update map, so a drag-only
// patch never clobbers text, font or any other unspecified field.
func (r *SignatureRepo) Update(ctx context.Context, sigID string, update map[string]interface{}) error {
	if len(update) == 0 {
		return nil
	}
	where := map[string]interface{}{"id": sigID}
	sqlStr, args, err := builder.BuildUpdate("signatures", where, update)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *SignatureRepo) Delete(ctx context.Context, sigID string) error {
	where := map[string]interface{}{"id": sigID}
	sqlStr, args, err := builder.BuildDelete("signatures", where)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *SignatureRepo) DeleteByDocument(ctx context.Context, docID string) error {
	where := map[string]interface{}{"document_id": docID}
	sqlStr, args, err := builder.BuildDelete("signatures", where)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func scanSignature(rows *sql.Rows) (*model.Signature, error) {
	var sig model.Signature
	if err := rows.Scan(&sig.ID, &sig.DocumentID, &sig.UserID, &sig.Page, &sig.X, &sig.Y, &sig.Text, &sig.Font, &sig.FontSize, &sig.Color, &sig.Status, &sig.RejectionReason, &sig.Ctime, &sig.Mtime); err != nil {
		return nil, err
	}
	return &sig, nil
}
