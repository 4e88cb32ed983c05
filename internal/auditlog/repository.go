package auditlog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/haitaton/hanke-service/internal/storage/postgres"
)

// Repository stores entries in the audit_log table. It joins the transaction
// carried by the context, if any.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, entries []Entry) error {
	q := postgres.Conn(ctx, r.db)
	for _, e := range entries {
		_, err := q.ExecContext(ctx, `
			INSERT INTO audit_log (id, event_time, user_id, operation, status, failure_description,
				object_type, object_id, object_before, object_after)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			e.ID.String(),
			e.EventTime,
			e.UserID,
			string(e.Operation),
			string(e.Status),
			e.FailureDescription,
			string(e.ObjectType),
			e.ObjectID,
			nullJSON(e.ObjectBefore),
			nullJSON(e.ObjectAfter),
		)
		if err != nil {
			return fmt.Errorf("insert audit log entry %s: %w", e.ID, err)
		}
	}
	return nil
}

func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
