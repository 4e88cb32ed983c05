package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/hanke/entity"
	"github.com/haitaton/hanke-service/internal/storage/postgres"
)

// HankeRepository loads and stores the hanke entity graph.
type HankeRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewHankeRepository creates a new hanke repository
func NewHankeRepository(db *sql.DB) *HankeRepository {
	return &HankeRepository{db: db, now: time.Now}
}

const hankeColumns = `
id, hanke_tunnus, on_ykt_hanke, nimi, kuvaus, vaihe, suunnittelu_vaihe, version,
created_by_user_id, created_at, modified_by_user_id, modified_at, status,
perustaja_nimi, perustaja_email, generated, tyomaa_katuosoite, tyomaa_tyyppi`

// NextHankeTunnus reserves a new hanke code from the hanketunnus sequence.
func (r *HankeRepository) NextHankeTunnus(ctx context.Context) (string, error) {
	var seq int64
	if err := postgres.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT nextval('hanketunnus_seq')`).Scan(&seq); err != nil {
		return "", fmt.Errorf("next hanketunnus: %w", err)
	}
	return domain.FormatHankeTunnus(r.now().Year(), seq), nil
}

// FindByTunnus returns the hanke with its contacts, areas and score, or a HankeNotFoundError.
func (r *HankeRepository) FindByTunnus(ctx context.Context, hankeTunnus string) (*entity.Hanke, error) {
	q := `SELECT ` + hankeColumns + ` FROM hanke WHERE hanke_tunnus = $1`
	h, err := r.scanHanke(postgres.Conn(ctx, r.db).QueryRowContext(ctx, q, hankeTunnus))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.HankeNotFoundError{HankeTunnus: hankeTunnus}
	}
	if err != nil {
		return nil, fmt.Errorf("load hanke %s: %w", hankeTunnus, err)
	}
	if err := r.loadChildren(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// ListByStatus returns every hanke in the given status, newest first.
func (r *HankeRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*entity.Hanke, error) {
	q := `SELECT ` + hankeColumns + ` FROM hanke WHERE status = $1 ORDER BY id DESC`
	return r.list(ctx, q, string(status))
}

// ListByUser returns the hankkeet the user created or last modified.
func (r *HankeRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Hanke, error) {
	q := `SELECT ` + hankeColumns + ` FROM hanke WHERE created_by_user_id = $1 OR modified_by_user_id = $1 ORDER BY id DESC`
	return r.list(ctx, q, userID)
}

func (r *HankeRepository) list(ctx context.Context, q string, arg any) ([]*entity.Hanke, error) {
	rows, err := postgres.Conn(ctx, r.db).QueryContext(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("list hankkeet: %w", err)
	}

	out := make([]*entity.Hanke, 0, 16)
	for rows.Next() {
		h, err := r.scanHanke(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan hanke: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, h := range out {
		if err := r.loadChildren(ctx, h); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *HankeRepository) scanHanke(s scanner) (*entity.Hanke, error) {
	var (
		h         entity.Hanke
		id        int
		version   int
		founderNm *string
		founderEm *string
		types     []byte
	)
	err := s.Scan(
		&id, &h.HankeTunnus, &h.OnYKTHanke, &h.Name, &h.Description, &h.Stage, &h.PlanningStage, &version,
		&h.CreatedBy, &h.CreatedAt, &h.ModifiedBy, &h.ModifiedAt, &h.Status,
		&founderNm, &founderEm, &h.Generated, &h.WorksiteStreetAddress, &types,
	)
	if err != nil {
		return nil, err
	}
	h.ID = &id
	h.Version = &version
	if founderEm != nil {
		h.Founder = &domain.Founder{Name: founderNm, Email: *founderEm}
	}
	if len(types) > 0 {
		if err := json.Unmarshal(types, &h.WorksiteTypes); err != nil {
			return nil, fmt.Errorf("decode tyomaa_tyyppi: %w", err)
		}
	}
	return &h, nil
}

func (r *HankeRepository) loadChildren(ctx context.Context, h *entity.Hanke) error {
	q := postgres.Conn(ctx, r.db)

	contacts, err := loadContacts(ctx, q, *h.ID)
	if err != nil {
		return err
	}
	h.Contacts = contacts

	areas, err := loadAreas(ctx, q, *h.ID)
	if err != nil {
		return err
	}
	h.Areas = areas

	score, err := loadScore(ctx, q, *h.ID)
	if err != nil {
		return err
	}
	h.Score = score

	h.MarkPersisted()
	return nil
}

func loadContacts(ctx context.Context, q postgres.Querier, hankeID int) ([]*entity.Contact, error) {
	const query = `
SELECT id, contact_type, COALESCE(nimi, ''), COALESCE(email, ''), COALESCE(puhelinnumero, ''),
       organisaatio_id, COALESCE(organisaatio_nimi, ''), COALESCE(osasto, ''), COALESCE(rooli, ''),
       tyyppi, yhteyshenkilot, data_locked, data_lock_info,
       created_by_user_id, created_at, modified_by_user_id, modified_at
FROM hanke_yhteystieto
WHERE hanke_id = $1
ORDER BY id;
`
	rows, err := q.QueryContext(ctx, query, hankeID)
	if err != nil {
		return nil, fmt.Errorf("load yhteystiedot of hanke %d: %w", hankeID, err)
	}
	defer rows.Close()

	out := make([]*entity.Contact, 0, 8)
	for rows.Next() {
		var (
			c    entity.Contact
			id   int
			subs []byte
		)
		if err := rows.Scan(
			&id, &c.Role, &c.Name, &c.Email, &c.Phone,
			&c.OrganisationID, &c.OrganisationName, &c.Department, &c.Title,
			&c.Type, &subs, &c.DataLocked, &c.DataLockInfo,
			&c.CreatedBy, &c.CreatedAt, &c.ModifiedBy, &c.ModifiedAt,
		); err != nil {
			return nil, fmt.Errorf("scan yhteystieto: %w", err)
		}
		c.ID = &id
		hid := hankeID
		c.HankeID = &hid
		if len(subs) > 0 {
			if err := json.Unmarshal(subs, &c.SubContacts); err != nil {
				return nil, fmt.Errorf("decode yhteyshenkilot of yhteystieto %d: %w", id, err)
			}
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func loadAreas(ctx context.Context, q postgres.Querier, hankeID int) ([]*entity.Area, error) {
	const query = `
SELECT id, haitta_alku_pvm, haitta_loppu_pvm, geometriat, kaista_haitta, kaista_pituus_haitta,
       melu_haitta, poly_haitta, tarina_haitta, nimi
FROM hankealue
WHERE hanke_id = $1
ORDER BY id;
`
	rows, err := q.QueryContext(ctx, query, hankeID)
	if err != nil {
		return nil, fmt.Errorf("load alueet of hanke %d: %w", hankeID, err)
	}
	defer rows.Close()

	out := make([]*entity.Area, 0, 4)
	for rows.Next() {
		var (
			a  entity.Area
			id int
		)
		if err := rows.Scan(
			&id, &a.NuisanceStart, &a.NuisanceEnd, &a.GeometryID, &a.LaneNuisance, &a.LaneLengthNuisance,
			&a.NoiseNuisance, &a.DustNuisance, &a.VibrationNuisance, &a.Name,
		); err != nil {
			return nil, fmt.Errorf("scan hankealue: %w", err)
		}
		a.ID = &id
		hid := hankeID
		a.HankeID = &hid
		out = append(out, &a)
	}
	return out, rows.Err()
}

func loadScore(ctx context.Context, q postgres.Querier, hankeID int) (*entity.Score, error) {
	var (
		s  entity.Score
		id int
	)
	err := q.QueryRowContext(ctx, `
SELECT id, perus, pyoraily, joukkoliikenne
FROM tormaystarkastelutulos
WHERE hanke_id = $1
ORDER BY id
LIMIT 1;
`, hankeID).Scan(&id, &s.Base, &s.Cycling, &s.PublicTransport)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load tormaystarkastelutulos of hanke %d: %w", hankeID, err)
	}
	s.ID = &id
	return &s, nil
}

// Save writes the hanke row and synchronises its children: detached contacts and
// areas are deleted, new ones inserted and the rest updated. Generated ids are
// set on the entity.
func (r *HankeRepository) Save(ctx context.Context, h *entity.Hanke) error {
	q := postgres.Conn(ctx, r.db)

	if err := saveHankeRow(ctx, q, h); err != nil {
		return err
	}
	hankeID := *h.ID

	for _, c := range h.RemovedContacts() {
		if _, err := q.ExecContext(ctx, `DELETE FROM hanke_yhteystieto WHERE id = $1`, *c.ID); err != nil {
			return fmt.Errorf("delete yhteystieto %d: %w", *c.ID, err)
		}
	}
	for _, c := range h.Contacts {
		c.HankeID = &hankeID
		if err := saveContact(ctx, q, c); err != nil {
			return err
		}
	}

	for _, id := range h.RemovedAreaIDs() {
		if _, err := q.ExecContext(ctx, `DELETE FROM hankealue WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete hankealue %d: %w", id, err)
		}
	}
	for _, a := range h.Areas {
		a.HankeID = &hankeID
		if err := saveArea(ctx, q, a); err != nil {
			return err
		}
	}

	if err := saveScore(ctx, q, hankeID, h.Score); err != nil {
		return err
	}

	h.MarkPersisted()
	return nil
}

func saveHankeRow(ctx context.Context, q postgres.Querier, h *entity.Hanke) error {
	types, err := json.Marshal(nonNilTypes(h.WorksiteTypes))
	if err != nil {
		return fmt.Errorf("encode tyomaa_tyyppi: %w", err)
	}
	var founderName *string
	var founderEmail *string
	if h.Founder != nil {
		founderName = h.Founder.Name
		founderEmail = &h.Founder.Email
	}
	version := 0
	if h.Version != nil {
		version = *h.Version
	}

	args := []any{
		h.HankeTunnus, h.OnYKTHanke, h.Name, h.Description, h.Stage, h.PlanningStage, version,
		h.CreatedBy, h.CreatedAt, h.ModifiedBy, h.ModifiedAt, string(h.Status),
		founderName, founderEmail, h.Generated, h.WorksiteStreetAddress, string(types),
	}

	if h.ID == nil {
		const query = `
INSERT INTO hanke (hanke_tunnus, on_ykt_hanke, nimi, kuvaus, vaihe, suunnittelu_vaihe, version,
                   created_by_user_id, created_at, modified_by_user_id, modified_at, status,
                   perustaja_nimi, perustaja_email, generated, tyomaa_katuosoite, tyomaa_tyyppi)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING id;
`
		var id int
		if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("hanke %s already exists: %w", h.HankeTunnus, domain.ErrConflict)
			}
			return fmt.Errorf("insert hanke %s: %w", h.HankeTunnus, err)
		}
		h.ID = &id
		return nil
	}

	const query = `
UPDATE hanke
SET hanke_tunnus = $1, on_ykt_hanke = $2, nimi = $3, kuvaus = $4, vaihe = $5, suunnittelu_vaihe = $6,
    version = $7, created_by_user_id = $8, created_at = $9, modified_by_user_id = $10, modified_at = $11,
    status = $12, perustaja_nimi = $13, perustaja_email = $14, generated = $15,
    tyomaa_katuosoite = $16, tyomaa_tyyppi = $17
WHERE id = $18;
`
	res, err := q.ExecContext(ctx, query, append(args, *h.ID)...)
	if err != nil {
		return fmt.Errorf("update hanke %s: %w", h.HankeTunnus, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &domain.HankeNotFoundError{HankeTunnus: h.HankeTunnus}
	}
	return nil
}

func saveContact(ctx context.Context, q postgres.Querier, c *entity.Contact) error {
	subs, err := json.Marshal(nonNilSubContacts(c.SubContacts))
	if err != nil {
		return fmt.Errorf("encode yhteyshenkilot: %w", err)
	}
	args := []any{
		*c.HankeID, string(c.Role), c.Name, c.Email, c.Phone, c.OrganisationID, c.OrganisationName,
		c.Department, c.Title, c.Type, string(subs), c.DataLocked, c.DataLockInfo,
		c.CreatedBy, c.CreatedAt, c.ModifiedBy, c.ModifiedAt,
	}

	if c.ID == nil {
		const query = `
INSERT INTO hanke_yhteystieto (hanke_id, contact_type, nimi, email, puhelinnumero, organisaatio_id,
                               organisaatio_nimi, osasto, rooli, tyyppi, yhteyshenkilot, data_locked,
                               data_lock_info, created_by_user_id, created_at, modified_by_user_id, modified_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING id;
`
		var id int
		if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return fmt.Errorf("insert yhteystieto: %w", err)
		}
		c.ID = &id
		return nil
	}

	const query = `
UPDATE hanke_yhteystieto
SET hanke_id = $1, contact_type = $2, nimi = $3, email = $4, puhelinnumero = $5, organisaatio_id = $6,
    organisaatio_nimi = $7, osasto = $8, rooli = $9, tyyppi = $10, yhteyshenkilot = $11, data_locked = $12,
    data_lock_info = $13, created_by_user_id = $14, created_at = $15, modified_by_user_id = $16, modified_at = $17
WHERE id = $18;
`
	if _, err := q.ExecContext(ctx, query, append(args, *c.ID)...); err != nil {
		return fmt.Errorf("update yhteystieto %d: %w", *c.ID, err)
	}
	return nil
}

func saveArea(ctx context.Context, q postgres.Querier, a *entity.Area) error {
	args := []any{
		*a.HankeID, dateOnly(a.NuisanceStart), dateOnly(a.NuisanceEnd), a.GeometryID, a.LaneNuisance,
		a.LaneLengthNuisance, a.NoiseNuisance, a.DustNuisance, a.VibrationNuisance, a.Name,
	}

	if a.ID == nil {
		const query = `
INSERT INTO hankealue (hanke_id, haitta_alku_pvm, haitta_loppu_pvm, geometriat, kaista_haitta,
                       kaista_pituus_haitta, melu_haitta, poly_haitta, tarina_haitta, nimi)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id;
`
		var id int
		if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return fmt.Errorf("insert hankealue: %w", err)
		}
		a.ID = &id
		return nil
	}

	const query = `
UPDATE hankealue
SET hanke_id = $1, haitta_alku_pvm = $2, haitta_loppu_pvm = $3, geometriat = $4, kaista_haitta = $5,
    kaista_pituus_haitta = $6, melu_haitta = $7, poly_haitta = $8, tarina_haitta = $9, nimi = $10
WHERE id = $11;
`
	if _, err := q.ExecContext(ctx, query, append(args, *a.ID)...); err != nil {
		return fmt.Errorf("update hankealue %d: %w", *a.ID, err)
	}
	return nil
}

func saveScore(ctx context.Context, q postgres.Querier, hankeID int, s *entity.Score) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM tormaystarkastelutulos WHERE hanke_id = $1`, hankeID); err != nil {
		return fmt.Errorf("clear tormaystarkastelutulos of hanke %d: %w", hankeID, err)
	}
	if s == nil {
		return nil
	}
	var id int
	err := q.QueryRowContext(ctx, `
INSERT INTO tormaystarkastelutulos (hanke_id, perus, pyoraily, joukkoliikenne)
VALUES ($1, $2, $3, $4)
RETURNING id;
`, hankeID, s.Base, s.Cycling, s.PublicTransport).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert tormaystarkastelutulos of hanke %d: %w", hankeID, err)
	}
	s.ID = &id
	return nil
}

// Delete removes the hanke; contacts, areas and scores cascade.
func (r *HankeRepository) Delete(ctx context.Context, hankeID int) error {
	res, err := postgres.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM hanke WHERE id = $1`, hankeID)
	if err != nil {
		return fmt.Errorf("delete hanke %d: %w", hankeID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("hanke %d: %w", hankeID, domain.ErrNotFound)
	}
	return nil
}

// dateOnly drops the time of day; nuisance periods are stored as dates.
func dateOnly(t *time.Time) any {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func nonNilTypes(v []domain.WorksiteType) []domain.WorksiteType {
	if v == nil {
		return []domain.WorksiteType{}
	}
	return v
}

func nonNilSubContacts(v []domain.SubContact) []domain.SubContact {
	if v == nil {
		return []domain.SubContact{}
	}
	return v
}
