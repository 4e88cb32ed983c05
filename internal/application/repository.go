package application

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/haitaton/hanke-service/internal/allu"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/storage/postgres"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectApplication = `
SELECT a.id, a.user_id, a.application_type, a.application_data, a.alluid, a.allu_status,
       a.application_identifier, h.hanke_tunnus
FROM applications a
JOIN hanke h ON h.id = a.hanke_id`

// HankeID resolves a hanke code to the hanke's id.
func (r *Repository) HankeID(ctx context.Context, hankeTunnus string) (int, error) {
	var id int
	err := postgres.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT id FROM hanke WHERE hanke_tunnus = $1`, hankeTunnus).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &domain.HankeNotFoundError{HankeTunnus: hankeTunnus}
	}
	if err != nil {
		return 0, fmt.Errorf("find hanke %s: %w", hankeTunnus, err)
	}
	return id, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*Application, error) {
	row := postgres.Conn(ctx, r.db).QueryRowContext(ctx, selectApplication+` WHERE a.id = $1`, id)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load application %d: %w", id, err)
	}
	return app, nil
}

func (r *Repository) ListByHanke(ctx context.Context, hankeTunnus string) ([]Application, error) {
	return r.list(ctx, selectApplication+` WHERE h.hanke_tunnus = $1 ORDER BY a.id`, hankeTunnus)
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	return r.list(ctx, selectApplication+` WHERE a.user_id = $1 ORDER BY a.id`, userID)
}

func (r *Repository) list(ctx context.Context, q string, arg any) ([]Application, error) {
	rows, err := postgres.Conn(ctx, r.db).QueryContext(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	out := make([]Application, 0, 4)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, *app)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(s scanner) (*Application, error) {
	var (
		app  Application
		id   int64
		data []byte
	)
	if err := s.Scan(&id, &app.UserID, &app.ApplicationType, &data, &app.AlluID, &app.AlluStatus,
		&app.ApplicationIdentifier, &app.HankeTunnus); err != nil {
		return nil, err
	}
	app.ID = &id
	if err := json.Unmarshal(data, &app.ApplicationData); err != nil {
		return nil, fmt.Errorf("decode application_data of %d: %w", id, err)
	}
	return &app, nil
}

// Create inserts the application under the hanke and sets its id.
func (r *Repository) Create(ctx context.Context, hankeID int, app *Application) error {
	data, err := json.Marshal(app.ApplicationData)
	if err != nil {
		return fmt.Errorf("encode application_data: %w", err)
	}
	const q = `
INSERT INTO applications (user_id, application_type, application_data, alluid, allu_status,
                          application_identifier, hanke_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id;
`
	var id int64
	if err := postgres.Conn(ctx, r.db).QueryRowContext(ctx, q, app.UserID, string(app.ApplicationType), string(data),
		app.AlluID, app.AlluStatus, app.ApplicationIdentifier, hankeID).Scan(&id); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	app.ID = &id
	return nil
}

// Update writes the application data and Allu id of an existing application.
func (r *Repository) Update(ctx context.Context, app *Application) error {
	data, err := json.Marshal(app.ApplicationData)
	if err != nil {
		return fmt.Errorf("encode application_data: %w", err)
	}
	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE applications SET application_data = $1, alluid = $2 WHERE id = $3`,
		string(data), app.AlluID, *app.ID)
	if err != nil {
		return fmt.Errorf("update application %d: %w", *app.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{ID: *app.ID}
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete application %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// ListAlluIDs returns the Allu ids of every application that has been sent.
func (r *Repository) ListAlluIDs(ctx context.Context) ([]int, error) {
	rows, err := postgres.Conn(ctx, r.db).QueryContext(ctx, `SELECT alluid FROM applications WHERE alluid IS NOT NULL ORDER BY alluid`)
	if err != nil {
		return nil, fmt.Errorf("list allu ids: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// UpdateAlluStatus stores the latest status reported by Allu. It reports
// whether an application with the Allu id exists.
func (r *Repository) UpdateAlluStatus(ctx context.Context, alluID int, status allu.ApplicationStatus, identifier string) (bool, error) {
	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE applications SET allu_status = $1, application_identifier = $2 WHERE alluid = $3`,
		string(status), identifier, alluID)
	if err != nil {
		return false, fmt.Errorf("update allu status of %d: %w", alluID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository) HistoryLastUpdated(ctx context.Context) (time.Time, error) {
	var t time.Time
	if err := postgres.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT history_last_updated FROM allu_status WHERE id = 1`).Scan(&t); err != nil {
		return time.Time{}, fmt.Errorf("load allu status: %w", err)
	}
	return t, nil
}

func (r *Repository) SetHistoryLastUpdated(ctx context.Context, t time.Time) error {
	if _, err := postgres.Conn(ctx, r.db).ExecContext(ctx, `UPDATE allu_status SET history_last_updated = $1 WHERE id = 1`, t); err != nil {
		return fmt.Errorf("store allu status: %w", err)
	}
	return nil
}
