package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/haitaton/hanke-service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	files, err := migrationFiles(migrationFS)
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "migrations/0001_hanke.up.sql", files[0])
	assert.IsIncreasing(t, files)
}

func TestApplyMigrations(t *testing.T) {
	files, err := migrationFiles(migrationFS)
	require.NoError(t, err)

	t.Run("skips recorded migrations", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
		for range files {
			mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM schema_migrations")).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		}

		require.NoError(t, ApplyMigrations(context.Background(), db))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies missing migration in its own transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM schema_migrations")).
			WithArgs("0001_hanke.up.sql").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec("CREATE SEQUENCE IF NOT EXISTS hanketunnus_seq").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations(version)")).
			WithArgs("0001_hanke.up.sql").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		for range files[1:] {
			mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM schema_migrations")).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		}

		require.NoError(t, ApplyMigrations(context.Background(), db))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "db", Port: 5432, User: "haitaton", Password: "secret", Name: "haitaton"}
	assert.Equal(t, "host=db port=5432 user=haitaton password=secret dbname=haitaton sslmode=disable", DSN(cfg))

	cfg.SSLMode = "require"
	assert.Contains(t, DSN(cfg), "sslmode=require")
}
