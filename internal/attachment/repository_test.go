package attachment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/haitaton/hanke-service/internal/hanke/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var metadataColumns = []string{
	"id", "application_id", "file_name", "content_type", "size", "attachment_type", "created_by_user_id", "created_at",
}

func TestRepository_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE application_id = $1 AND id = $2`)).
		WithArgs(int64(3), id.String()).
		WillReturnRows(sqlmock.NewRows(metadataColumns).
			AddRow(id.String(), int64(3), "kartta.pdf", "application/pdf", int64(8), "VALTAKIRJA", "user-1", created))

	m, err := NewRepository(db).Find(context.Background(), 3, id)
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, TypePowerOfAttorney, m.AttachmentType)
	assert.Equal(t, created, m.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Find_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM application_attachment`).WillReturnRows(sqlmock.NewRows(metadataColumns))

	_, err = NewRepository(db).Find(context.Background(), 3, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_CreateAndCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	m := Metadata{
		ID: uuid.New(), ApplicationID: 3, FileName: "a.txt", ContentType: "text/plain", Size: 1,
		AttachmentType: TypeOther, CreatedByUserID: "user-1", CreatedAt: time.Now().UTC(),
	}
	mock.ExpectExec(`INSERT INTO application_attachment`).
		WithArgs(m.ID.String(), int64(3), "a.txt", "text/plain", int64(1), "MUU", "user-1", m.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	require.NoError(t, repo.Create(context.Background(), m))
	n, err := repo.Count(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM application_attachment`).WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewRepository(db).Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
