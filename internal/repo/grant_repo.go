package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/inkmark/inkmark/internal/model"
	"github.com/inkmark/inkmark/internal/pkg/dbutil"
	appErr "github.com/inkmark/inkmark/internal/pkg/errors"
)

type GrantRepo struct {
	db *sql.DB
}

func NewGrantRepo(db *sql.DB) *GrantRepo {
	return &GrantRepo{db: db}
}

func (r *GrantRepo) Create(ctx context.Context, grant *model.DocumentGrant) error {
	data := map[string]interface{}{
		"id":          grant.ID,
		"document_id": grant.DocumentID,
		"user_id":     grant.UserID,
		"ctime":       grant.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("document_grants", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *GrantRepo) Exists(ctx context.Context, docID, userID string) (bool, error) {
	where := map[string]interface{}{
		"document_id": docID,
		"user_id":     userID,
	}
	sqlStr, args, err := builder.BuildSelect("document_grants", where, []string{"id"})
	if err != nil {
		return false, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	return rows.Next(), rows.Err()
}

func (r *GrantRepo) DeleteByDocument(ctx context.Context, docID string) error {
	where := map[string]interface{}{"document_id": docID}
	sqlStr, args, err := builder.BuildDelete("document_grants", where)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// ListDocumentsSharedWith returns documents other owners granted to userID,
// most recently shared first.
func (r *GrantRepo) ListDocumentsSharedWith(ctx context.Context, userID string) ([]model.Document, error) {
	sqlStr := `
		SELECT d.id, d.user_id, d.filename, d.storage_key, d.share_token, d.share_token_expires, d.ctime, d.mtime
		FROM document_grants g
		JOIN documents d ON d.id = g.document_id
		WHERE g.user_id = ?
		ORDER BY g.ctime DESC
	`
	rows, err := r.db.QueryContext(ctx, sqlStr, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *doc)
	}
	return items, rows.Err()
}
