package geometry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/storage/postgres"
)

var ErrNotFound = errors.New("geometriat not found")

// Repository stores feature collections as jsonb in the geometriat table.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *Repository) Get(ctx context.Context, id int) (*domain.Geometries, error) {
	var (
		g         domain.Geometries
		fc        []byte
		createdBy sql.NullString
		createdAt sql.NullTime
		modBy     sql.NullString
		modAt     sql.NullTime
		version   int
	)
	err := postgres.Conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT id, version, feature_collection, created_by_user_id, created_at, modified_by_user_id, modified_at
		FROM geometriat
		WHERE id = $1
	`, id).Scan(&id, &version, &fc, &createdBy, &createdAt, &modBy, &modAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load geometriat %d: %w", id, err)
	}

	g.ID = &id
	g.Version = &version
	g.FeatureCollection = &domain.FeatureCollection{}
	if err := json.Unmarshal(fc, g.FeatureCollection); err != nil {
		return nil, fmt.Errorf("decode geometriat %d: %w", id, err)
	}
	if createdBy.Valid {
		g.CreatedBy = &createdBy.String
	}
	if createdAt.Valid {
		g.CreatedAt = &createdAt.Time
	}
	if modBy.Valid {
		g.ModifiedBy = &modBy.String
	}
	if modAt.Valid {
		g.ModifiedAt = &modAt.Time
	}
	return &g, nil
}

// Save inserts g when it has no id and otherwise replaces the stored collection and bumps its version.
func (r *Repository) Save(ctx context.Context, g *domain.Geometries, userID string) (*domain.Geometries, error) {
	if g == nil || g.FeatureCollection == nil {
		return nil, fmt.Errorf("save geometriat: %w", domain.ErrInvalidArgument)
	}
	fc, err := json.Marshal(g.FeatureCollection)
	if err != nil {
		return nil, fmt.Errorf("encode geometriat: %w", err)
	}

	now := r.now()
	q := postgres.Conn(ctx, r.db)
	saved := *g

	if g.ID == nil {
		var id, version int
		err := q.QueryRowContext(ctx, `
			INSERT INTO geometriat (version, feature_collection, created_by_user_id, created_at)
			VALUES (0, $1, $2, $3)
			RETURNING id, version
		`, string(fc), userID, now).Scan(&id, &version)
		if err != nil {
			return nil, fmt.Errorf("insert geometriat: %w", err)
		}
		saved.ID, saved.Version = &id, &version
		saved.CreatedBy, saved.CreatedAt = &userID, &now
		return &saved, nil
	}

	var version int
	err = q.QueryRowContext(ctx, `
		UPDATE geometriat
		SET version = version + 1, feature_collection = $2, modified_by_user_id = $3, modified_at = $4
		WHERE id = $1
		RETURNING version
	`, *g.ID, string(fc), userID, now).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update geometriat %d: %w", *g.ID, err)
	}
	saved.Version = &version
	saved.ModifiedBy, saved.ModifiedAt = &userID, &now
	return &saved, nil
}
