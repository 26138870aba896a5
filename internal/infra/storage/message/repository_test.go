package message

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func messageRows(id uuid.UUID, status string, response interface{}, read bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(messageColumns).
		AddRow(id.String(), "Jean Dupont", "jean@example.com", "Bonjour", status, response, read, now, now)
}

func TestRepository_List_FiltersAndSort(t *testing.T) {
	repo, mock := newMockRepo(t)
	unread := false
	replied := false

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, email, message, status, admin_response, read, created_at, updated_at FROM contact_messages WHERE read = $1 AND status = $2 AND (full_name ILIKE $3 OR email ILIKE $4 OR message ILIKE $5) ORDER BY full_name DESC, id ASC")).
		WithArgs(false, "pending", `%50\%%`, `%50\%%`, `%50\%%`).
		WillReturnRows(messageRows(uuid.New(), "pending", nil, false))

	messages, err := repo.List(context.Background(), domain.MessagesFilter{
		Read:       &unread,
		Replied:    &replied,
		Search:     " 50% ",
		SortBy:     domain.SortByName,
		Descending: true,
	})

	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Nil(t, messages[0].AdminResponse)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_DefaultSortByDate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM contact_messages ORDER BY created_at ASC, id ASC")).
		WillReturnRows(sqlmock.NewRows(messageColumns))

	messages, err := repo.List(context.Background(), domain.MessagesFilter{})

	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestRepository_SaveReply(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE contact_messages SET admin_response = $1, read = $2, status = $3, updated_at = NOW() WHERE id = $4 RETURNING")).
		WithArgs("Merci", true, "replied", id).
		WillReturnRows(messageRows(id, "replied", "Merci", true))

	msg, err := repo.SaveReply(context.Background(), id, "Merci")

	require.NoError(t, err)
	assert.True(t, msg.IsReplied())
	require.NotNil(t, msg.AdminResponse)
	assert.Equal(t, "Merci", *msg.AdminResponse)
}

func TestRepository_MarkRead_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("UPDATE contact_messages SET read").WillReturnError(sql.ErrNoRows)

	_, err := repo.MarkRead(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM contact_messages").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), uuid.New()), ErrMessageNotFound)
}
