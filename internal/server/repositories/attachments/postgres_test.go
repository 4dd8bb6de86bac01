package attachments

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ = `(?s)^INSERT\s+INTO\s+attachments\s*\(task_id,\s*uploader_id,\s*file_name,\s*content_type,\s*storage_key\)`
	getQ    = `(?s)^SELECT\s+id,\s*task_id,.*FROM\s+attachments\s+WHERE\s+id\s*=\s*\$1$`
	listQ   = `(?s)^SELECT\s+id,\s*task_id,.*FROM\s+attachments\s+WHERE\s+task_id\s*=\s*\$1\s+ORDER\s+BY`
	markQ   = `^UPDATE\s+attachments\s+SET\s+uploaded\s*=\s*true\s+WHERE\s+id\s*=\s*\$1$`
)

var cols = []string{"id", "task_id", "uploader_id", "file_name", "content_type", "storage_key", "uploaded", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).
		WithArgs(int64(1), int64(2), "brief.pdf", "application/pdf", "tasks/1/key").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), time.Now()))

	got, err := repo.Create(context.Background(), &models.Attachment{
		TaskID: 1, UploaderID: 2, FileName: "brief.pdf", ContentType: "application/pdf", StorageKey: "tasks/1/key",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(getQ).WithArgs(int64(3)).WillReturnRows(sqlmock.NewRows(cols).
		AddRow(int64(3), int64(1), int64(2), "brief.pdf", "application/pdf", "k", true, time.Now()))

	got, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, got.Uploaded)
	assert.Equal(t, "k", got.StorageKey)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(getQ).WithArgs(int64(3)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByTask(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows(cols).
		AddRow(int64(3), int64(1), int64(2), "a.txt", "text/plain", "k1", false, time.Now()))

	got, err := repo.ListByTask(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Uploaded)
}

func TestMarkUploaded(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(markQ).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkUploaded(context.Background(), 3))

	mock.ExpectExec(markQ).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkUploaded(context.Background(), 4), common.ErrorNotFound)
}
