package booking

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
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

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID, slotID, bookingID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings (user_id,slot_id,circuit_number,number_of_pilots,payment_status) VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at, updated_at")).
		WithArgs(userID, slotID, 1, 4, "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(bookingID.String(), now, now))

	b, _ := domain.NewBooking(userID, slotID, domain.CircuitMotocross, 4)
	created, err := repo.Create(context.Background(), b)

	require.NoError(t, err)
	assert.Equal(t, bookingID, created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ConstraintErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "duplicate user and slot", err: &pq.Error{Code: "23505", Constraint: "bookings_user_slot_key"}, want: ErrDuplicateBooking},
		{name: "slot deleted", err: &pq.Error{Code: "23503"}, want: ErrReferenceNotFound},
		{name: "other", err: sql.ErrConnDone, want: ErrExecQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectQuery("INSERT INTO bookings").WillReturnError(tt.err)

			b, _ := domain.NewBooking(uuid.New(), uuid.New(), domain.CircuitSupercross, 1)
			_, err := repo.Create(context.Background(), b)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRepository_ExistsForUserAndSlot(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID, slotID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM bookings WHERE slot_id = $1 AND user_id = $2 LIMIT 1")).
		WithArgs(slotID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM bookings").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsForUserAndSlot(context.Background(), userID, slotID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForUserAndSlot(context.Background(), userID, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_ReservedBySlot(t *testing.T) {
	repo, mock := newMockRepo(t)
	slotID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT circuit_number, COALESCE(SUM(number_of_pilots), 0) FROM bookings WHERE slot_id = $1 GROUP BY circuit_number")).
		WithArgs(slotID).
		WillReturnRows(sqlmock.NewRows([]string{"circuit_number", "sum"}).AddRow(1, 7))

	reserved, err := repo.ReservedBySlot(context.Background(), slotID)

	require.NoError(t, err)
	assert.Equal(t, 7, reserved[domain.CircuitMotocross])
	assert.Equal(t, 0, reserved[domain.CircuitSupercross])
}

func TestRepository_ListBySlot_WithPilots(t *testing.T) {
	repo, mock := newMockRepo(t)
	slotID, userID := uuid.New(), uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(append(bookingColumns, "email", "first_name", "last_name")).
		AddRow(uuid.New().String(), userID.String(), slotID.String(), 2, 3, "paid", now, now, "pilot@example.com", "Marc", "Leroy")

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b JOIN profiles p ON p.id = b.user_id WHERE b.slot_id = $1")).
		WithArgs(slotID).
		WillReturnRows(rows)

	bookings, err := repo.ListBySlot(context.Background(), slotID)

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, domain.CircuitSupercross, bookings[0].Circuit)
	assert.Equal(t, domain.PaymentPaid, bookings[0].PaymentStatus)
	require.NotNil(t, bookings[0].Pilot)
	assert.Equal(t, "pilot@example.com", bookings[0].Pilot.Email)
	assert.Equal(t, userID, bookings[0].Pilot.ID)
}

func TestRepository_ListByCircuit(t *testing.T) {
	repo, mock := newMockRepo(t)
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	rows := sqlmock.NewRows(append(append(bookingColumns, "date"), "email", "first_name", "last_name")).
		AddRow(uuid.New().String(), uuid.New().String(), uuid.New().String(), 1, 2, "pending", now, now,
			time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), "a@example.com", "Ana", "Roux")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.circuit_number = $1 AND s.date >= $2 ORDER BY s.date ASC, b.created_at ASC")).
		WithArgs(1, "2025-06-01").
		WillReturnRows(rows)

	bookings, err := repo.ListByCircuit(context.Background(), domain.CircuitBookingsFilter{Circuit: domain.CircuitMotocross, From: &from})

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.NotNil(t, bookings[0].SlotDate)
	assert.Equal(t, "2025-06-03", bookings[0].SlotDate.Format(domain.DateFormat))
	assert.Equal(t, "Ana Roux", bookings[0].Pilot.FullName())
}

func TestRepository_DeleteReturning(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1 RETURNING")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(id.String(), uuid.New().String(), uuid.New().String(), 1, 5, "pending", now, now))
	mock.ExpectQuery("DELETE FROM bookings").
		WillReturnError(sql.ErrNoRows)

	deleted, err := repo.DeleteReturning(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 5, deleted.NumberOfPilots)

	_, err = repo.DeleteReturning(context.Background(), id)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_UpdatePaymentStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET payment_status = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs("paid", id).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(id.String(), uuid.New().String(), uuid.New().String(), 1, 5, "paid", now, now))

	updated, err := repo.UpdatePaymentStatus(context.Background(), id, domain.PaymentPaid)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
}
