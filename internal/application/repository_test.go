package application

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/haitaton/hanke-service/internal/allu"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var applicationColumns = []string{
	"id", "user_id", "application_type", "application_data", "alluid", "allu_status",
	"application_identifier", "hanke_tunnus",
}

func TestRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	data, err := json.Marshal(completeCableReport())
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE a.id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(applicationColumns).
			AddRow(int64(5), "user-1", "CABLE_REPORT", data, 77, "PENDING", "JS2400001", "HAI24-1"))

	app, err := repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), *app.ID)
	assert.Equal(t, 77, *app.AlluID)
	assert.Equal(t, allu.StatusPending, *app.AlluStatus)
	assert.Equal(t, "HAI24-1", app.HankeTunnus)
	assert.Equal(t, "Kaivuutyö Mannerheimintie", app.ApplicationData.Name)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE a.id = $1`)).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	_, err = repo.FindByID(context.Background(), 6)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	user := "user-1"
	app := &Application{UserID: &user, ApplicationType: TypeCableReport, ApplicationData: completeCableReport()}

	mock.ExpectQuery(`INSERT INTO applications`).
		WithArgs("user-1", "CABLE_REPORT", sqlmock.AnyArg(), nil, nil, nil, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	require.NoError(t, NewRepository(db).Create(context.Background(), 3, app))
	assert.Equal(t, int64(12), *app.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_HankeID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM hanke WHERE hanke_tunnus = $1`)).
		WithArgs("HAI24-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	id, err := repo.HankeID(context.Background(), "HAI24-1")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM hanke WHERE hanke_tunnus = $1`)).
		WithArgs("HAI24-2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repo.HankeID(context.Background(), "HAI24-2")
	var nf *domain.HankeNotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestRepository_UpdateAlluStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE applications SET allu_status = $1, application_identifier = $2 WHERE alluid = $3`)).
		WithArgs("DECISION", "JS1", 21).
		WillReturnResult(sqlmock.NewResult(0, 1))
	found, err := repo.UpdateAlluStatus(context.Background(), 21, allu.StatusDecision, "JS1")
	require.NoError(t, err)
	assert.True(t, found)

	mock.ExpectExec(`UPDATE applications SET allu_status`).
		WithArgs("DECISION", "JS1", 22).
		WillReturnResult(sqlmock.NewResult(0, 0))
	found, err = repo.UpdateAlluStatus(context.Background(), 22, allu.StatusDecision, "JS1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepository_HistoryLastUpdated(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ts := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT history_last_updated FROM allu_status`).
		WillReturnRows(sqlmock.NewRows([]string{"history_last_updated"}).AddRow(ts))
	got, err := repo.HistoryLastUpdated(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ts, got)

	mock.ExpectExec(`UPDATE allu_status SET history_last_updated`).
		WithArgs(ts.Add(time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetHistoryLastUpdated(context.Background(), ts.Add(time.Hour)))
	require.NoError(t, mock.ExpectationsWereMet())
}
