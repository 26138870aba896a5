package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	profileRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/profile"
	"github.com/bellefontaine/circuit-booking/pkg/logger"
)

var profileColumns = []string{"id", "email", "first_name", "last_name", "role", "created_at", "updated_at"}

func newService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewService(profileRepo.NewRepository(db), logger.NewNop()), mock
}

func TestGetProfile(t *testing.T) {
	svc, mock := newService(t)
	id := uuid.New()
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM profiles").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(profileColumns).
			AddRow(id.String(), "ana@example.com", "Ana", "Rider", "user", now, now))

	resp, err := svc.GetProfile(context.Background(), domain.Identity{UserID: id, Role: domain.RoleUser})

	require.NoError(t, err)
	assert.Equal(t, "Ana Rider", resp.FullName)
	assert.False(t, resp.IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile_Errors(t *testing.T) {
	svc, mock := newService(t)

	_, err := svc.GetProfile(context.Background(), domain.Anonymous())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	mock.ExpectQuery("FROM profiles").WillReturnError(sql.ErrNoRows)
	_, err = svc.GetProfile(context.Background(), domain.Identity{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mock.ExpectQuery("FROM profiles").WillReturnError(errors.New("connection reset"))
	_, err = svc.GetProfile(context.Background(), domain.Identity{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestRoleOf(t *testing.T) {
	svc, mock := newService(t)
	adminID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("FROM profiles").
		WithArgs(adminID).
		WillReturnRows(sqlmock.NewRows(profileColumns).
			AddRow(adminID.String(), "admin@example.com", "Paul", "Martin", "admin", now, now))
	mock.ExpectQuery("FROM profiles").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FROM profiles").WillReturnError(errors.New("connection reset"))

	role, err := svc.RoleOf(context.Background(), adminID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	role, err = svc.RoleOf(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, role)

	_, err = svc.RoleOf(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrStorage)
}
