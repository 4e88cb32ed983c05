package permissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/haitaton/hanke-service/internal/storage/postgres"
)

var ErrUnknownRole = errors.New("unknown role")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SetPermission gives the user the role in the hanke, replacing a previous role.
func (r *Repository) SetPermission(ctx context.Context, hankeID int, userID string, role Role) error {
	const q = `
INSERT INTO permissions (user_id, hanke_id, role_id)
SELECT $1, $2, id FROM role WHERE role = $3
ON CONFLICT (user_id, hanke_id) DO UPDATE SET role_id = EXCLUDED.role_id;
`
	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx, q, userID, hankeID, string(role))
	if err != nil {
		return fmt.Errorf("set permission of %s in hanke %d: %w", userID, hankeID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	return nil
}

// FindRole returns the role of the user in the hanke. ok is false when the user has none.
func (r *Repository) FindRole(ctx context.Context, hankeID int, userID string) (Role, bool, error) {
	const q = `
SELECT role.role
FROM permissions
JOIN role ON role.id = permissions.role_id
WHERE permissions.hanke_id = $1 AND permissions.user_id = $2;
`
	var role string
	err := postgres.Conn(ctx, r.db).QueryRowContext(ctx, q, hankeID, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find permission of %s in hanke %d: %w", userID, hankeID, err)
	}
	return Role(role), true, nil
}

// HankeUserEmails lists the emails of the users already attached to the hanke.
func (r *Repository) HankeUserEmails(ctx context.Context, hankeID int) ([]string, error) {
	rows, err := postgres.Conn(ctx, r.db).QueryContext(ctx, `SELECT sahkoposti FROM hanke_kayttaja WHERE hanke_id = $1`, hankeID)
	if err != nil {
		return nil, fmt.Errorf("list kayttajat of hanke %d: %w", hankeID, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		out = append(out, email)
	}
	return out, rows.Err()
}

// SaveUserWithToken stores the token and the hanke user pointing at it.
func (r *Repository) SaveUserWithToken(ctx context.Context, user HankeUser, token Token) error {
	q := postgres.Conn(ctx, r.db)

	if _, err := q.ExecContext(ctx, `
INSERT INTO kayttaja_tunniste (id, tunniste, created_at, sent_at, role)
VALUES ($1, $2, $3, $4, $5);
`, token.ID.String(), token.Value, token.CreatedAt, token.SentAt, string(token.Role)); err != nil {
		return fmt.Errorf("insert kayttaja_tunniste: %w", err)
	}

	if _, err := q.ExecContext(ctx, `
INSERT INTO hanke_kayttaja (id, hanke_id, nimi, sahkoposti, permission_id, kayttaja_tunniste_id)
VALUES ($1, $2, $3, $4, $5, $6);
`, user.ID.String(), user.HankeID, user.Name, user.Email, user.PermissionID, token.ID.String()); err != nil {
		return fmt.Errorf("insert hanke_kayttaja %s: %w", user.Email, err)
	}
	return nil
}
