package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/inkmark/inkmark/internal/model"
)

var auditFields = []string{"id", "document_id", "user_id", "action", "ip", "ctime"}

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Create(ctx context.Context, event *model.AuditEvent) error {
	data := map[string]interface{}{
		"id":          event.ID,
		"document_id": event.DocumentID,
		"user_id":     event.UserID,
		"action":      event.Action,
		"ip":          event.IP,
		"ctime":       event.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("audit_events", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *AuditRepo) ListByDocument(ctx context.Context, docID string, limit, offset uint) ([]model.AuditEvent, error) {
	where := map[string]interface{}{
		"document_id": docID,
		"_orderby":    "ctime desc, rowid desc",
		"_limit":      []uint{offset, limit},
	}
	sqlStr, args, err := builder.BuildSelect("audit_events", where, auditFields)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.AuditEvent, 0)
	for rows.Next() {
		var event model.AuditEvent
		if err := rows.Scan(&event.ID, &event.DocumentID, &event.UserID, &event.Action, &event.IP, &event.Ctime); err != nil {
			return nil, err
		}
		items = append(items, event)
	}
	return items, rows.Err()
}
