package attachment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/haitaton/hanke-service/internal/storage/postgres"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectMetadata = `
SELECT id, application_id, file_name, content_type, size, attachment_type, created_by_user_id, created_at
FROM application_attachment`

func (r *Repository) ListByApplication(ctx context.Context, applicationID int64) ([]Metadata, error) {
	rows, err := postgres.Conn(ctx, r.db).QueryContext(ctx, selectMetadata+` WHERE application_id = $1 ORDER BY created_at`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list attachments of application %d: %w", applicationID, err)
	}
	defer rows.Close()

	out := make([]Metadata, 0, 4)
	for rows.Next() {
		m, err := scanMetadata(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *Repository) Find(ctx context.Context, applicationID int64, id uuid.UUID) (*Metadata, error) {
	row := postgres.Conn(ctx, r.db).QueryRowContext(ctx, selectMetadata+` WHERE application_id = $1 AND id = $2`, applicationID, id.String())
	m, err := scanMetadata(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	return m, err
}

func (r *Repository) Count(ctx context.Context, applicationID int64) (int, error) {
	var n int
	if err := postgres.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM application_attachment WHERE application_id = $1`, applicationID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count attachments of application %d: %w", applicationID, err)
	}
	return n, nil
}

func (r *Repository) Create(ctx context.Context, m Metadata) error {
	const q = `
INSERT INTO application_attachment (id, application_id, file_name, content_type, size, attachment_type,
                                    created_by_user_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	if _, err := postgres.Conn(ctx, r.db).ExecContext(ctx, q, m.ID.String(), m.ApplicationID, m.FileName, m.ContentType,
		m.Size, string(m.AttachmentType), m.CreatedByUserID, m.CreatedAt); err != nil {
		return fmt.Errorf("insert attachment %s: %w", m.ID, err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM application_attachment WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete attachment %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMetadata(s rowScanner) (*Metadata, error) {
	var (
		m  Metadata
		id string
	)
	if err := s.Scan(&id, &m.ApplicationID, &m.FileName, &m.ContentType, &m.Size, &m.AttachmentType,
		&m.CreatedByUserID, &m.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse attachment id %q: %w", id, err)
	}
	m.ID = parsed
	return &m, nil
}
