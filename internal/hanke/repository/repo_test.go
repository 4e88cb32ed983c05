package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/haitaton/hanke-service/internal/hanke/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hankeRowColumns = []string{
	"id", "hanke_tunnus", "on_ykt_hanke", "nimi", "kuvaus", "vaihe", "suunnittelu_vaihe", "version",
	"created_by_user_id", "created_at", "modified_by_user_id", "modified_at", "status",
	"perustaja_nimi", "perustaja_email", "generated", "tyomaa_katuosoite", "tyomaa_tyyppi",
}

var contactColumns = []string{
	"id", "contact_type", "nimi", "email", "puhelinnumero", "organisaatio_id", "organisaatio_nimi",
	"osasto", "rooli", "tyyppi", "yhteyshenkilot", "data_locked", "data_lock_info",
	"created_by_user_id", "created_at", "modified_by_user_id", "modified_at",
}

var areaColumns = []string{
	"id", "haitta_alku_pvm", "haitta_loppu_pvm", "geometriat", "kaista_haitta", "kaista_pituus_haitta",
	"melu_haitta", "poly_haitta", "tarina_haitta", "nimi",
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestHankeRepository_FindByTunnus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewHankeRepository(db)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM hanke WHERE hanke_tunnus = $1`)).
		WithArgs("HAI24-1").
		WillReturnRows(sqlmock.NewRows(hankeRowColumns).AddRow(
			1, "HAI24-1", true, "Mannerheimintie", nil, "SUUNNITTELU", nil, 2,
			"user-1", created, nil, nil, "PUBLIC",
			"Pertti", "pertti@example.test", false, "Mannerheimintie 1", []byte(`["VESI","SAHKO"]`),
		))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM hanke_yhteystieto`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(contactColumns).AddRow(
			10, "OMISTAJA", "Omistaja Oy", "info@omistaja.test", "0401234567", nil, "", "", "",
			"YRITYS", []byte(`[{"etunimi":"Olli","sukunimi":"O","email":"olli@omistaja.test","puhelinnumero":""}]`), true, "lukittu",
			"user-1", created, nil, nil,
		))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM hankealue`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(areaColumns).AddRow(
			20, start, nil, 30, "KAISTAHAITTA", nil, nil, nil, nil, "Alue 1",
		))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM tormaystarkastelutulos`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "perus", "pyoraily", "joukkoliikenne"}).AddRow(40, 1.5, 2.0, 3.5))

	h, err := repo.FindByTunnus(context.Background(), "HAI24-1")
	require.NoError(t, err)

	assert.Equal(t, 1, *h.ID)
	assert.Equal(t, domain.StatusPublic, h.Status)
	require.NotNil(t, h.Stage)
	assert.Equal(t, domain.StagePlanning, *h.Stage)
	assert.Nil(t, h.PlanningStage)
	assert.Equal(t, []domain.WorksiteType{domain.WorksiteTypeWater, domain.WorksiteTypeElectric}, h.WorksiteTypes)
	require.NotNil(t, h.Founder)
	assert.Equal(t, "pertti@example.test", h.Founder.Email)

	require.Len(t, h.Contacts, 1)
	c := h.Contacts[0]
	assert.Equal(t, domain.RoleOwner, c.Role)
	assert.True(t, c.DataLocked)
	assert.Equal(t, 1, *c.HankeID)
	require.Len(t, c.SubContacts, 1)
	assert.Equal(t, "Olli", c.SubContacts[0].FirstName)

	require.Len(t, h.Areas, 1)
	assert.Equal(t, 30, *h.Areas[0].GeometryID)
	assert.Nil(t, h.Areas[0].NuisanceEnd)

	require.NotNil(t, h.Score)
	assert.Equal(t, float32(3.5), h.Score.PublicTransport)
	assert.Empty(t, h.RemovedAreaIDs())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHankeRepository_FindByTunnus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM hanke WHERE hanke_tunnus = $1`)).
		WithArgs("HAI24-404").
		WillReturnRows(sqlmock.NewRows(hankeRowColumns))

	_, err = NewHankeRepository(db).FindByTunnus(context.Background(), "HAI24-404")

	var nf *domain.HankeNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "HAI24-404", nf.HankeTunnus)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHankeRepository_Save_New(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewHankeRepository(db)
	start := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)

	h := &entity.Hanke{
		HankeTunnus: "HAI24-2",
		Name:        strPtr("Uusi hanke"),
		Status:      domain.StatusDraft,
		CreatedBy:   strPtr("user-1"),
		Founder:     &domain.Founder{Email: "perustaja@example.test"},
		Areas:       []*entity.Area{{NuisanceStart: &start, GeometryID: intPtr(3)}},
		Score:       &entity.Score{Base: 1, Cycling: 2, PublicTransport: 3},
	}
	h.AddContact(&entity.Contact{Role: domain.RoleOwner, Name: "Omistaja"})

	mock.ExpectQuery(`INSERT INTO hanke \(`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO hanke_yhteystieto`).
		WithArgs(7, "OMISTAJA", "Omistaja", "", "", nil, "", "", "", nil, "[]", false, nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(70))
	mock.ExpectQuery(`INSERT INTO hankealue`).
		WithArgs(7, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), nil, 3, nil, nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(71))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tormaystarkastelutulos WHERE hanke_id = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO tormaystarkastelutulos`).
		WithArgs(7, float32(1), float32(2), float32(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(72))

	require.NoError(t, repo.Save(context.Background(), h))

	assert.Equal(t, 7, *h.ID)
	assert.Equal(t, 70, *h.Contacts[0].ID)
	assert.Equal(t, 7, *h.Contacts[0].HankeID)
	assert.Equal(t, 71, *h.Areas[0].ID)
	assert.Equal(t, 72, *h.Score.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHankeRepository_Save_RemovesDetachedChildren(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewHankeRepository(db)

	kept := &entity.Contact{ID: intPtr(10), Role: domain.RoleOwner, Name: "Kept"}
	dropped := &entity.Contact{ID: intPtr(11), Role: domain.RoleOther, Name: "Dropped"}
	h := &entity.Hanke{
		ID:          intPtr(5),
		HankeTunnus: "HAI24-5",
		Version:     intPtr(1),
		Status:      domain.StatusDraft,
		Contacts:    []*entity.Contact{kept, dropped},
		Areas:       []*entity.Area{{ID: intPtr(20)}, {ID: intPtr(21)}},
	}
	h.MarkPersisted()
	h.RemoveContact(dropped)
	h.Areas = h.Areas[:1]

	mock.ExpectExec(`UPDATE hanke\s+SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM hanke_yhteystieto WHERE id = $1`)).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE hanke_yhteystieto`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM hankealue WHERE id = $1`)).
		WithArgs(21).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE hankealue`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tormaystarkastelutulos WHERE hanke_id = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Save(context.Background(), h))
	assert.Empty(t, h.RemovedContacts())
	assert.Empty(t, h.RemovedAreaIDs())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHankeRepository_Save_UpdateMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE hanke\s+SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewHankeRepository(db).Save(context.Background(), &entity.Hanke{ID: intPtr(9), HankeTunnus: "HAI24-9"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHankeRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewHankeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM hanke WHERE id = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 3))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM hanke WHERE id = $1`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4), domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHankeRepository_NextHankeTunnus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewHankeRepository(db)
	repo.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT nextval('hanketunnus_seq')`)).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(42)))

	tunnus, err := repo.NextHankeTunnus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HAI24-42", tunnus)
}
