package profile

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT id, email, first_name, last_name, role, created_at, updated_at FROM profiles WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_name", "role", "created_at", "updated_at"}).
			AddRow(id.String(), "admin@example.com", "Paul", "Martin", "admin", now, now))
	mock.ExpectQuery("FROM profiles").WillReturnError(sql.ErrNoRows)

	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
	assert.Equal(t, domain.RoleAdmin, p.Role)

	_, err = repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
