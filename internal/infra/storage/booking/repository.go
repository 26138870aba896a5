package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/pkg/dbmetrics"
	"github.com/bellefontaine/circuit-booking/pkg/pgerr"
	"github.com/bellefontaine/circuit-booking/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"user_id",
	"slot_id",
	"circuit_number",
	"number_of_pilots",
	"payment_status",
	"created_at",
	"updated_at",
}

var pilotColumns = []string{"p.email", "p.first_name", "p.last_name"}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование.
// Если в контексте передана активная транзакция, использует её: списание мест
// и вставка бронирования должны выполняться в одной транзакции.
// Второе бронирование того же пользователя на слот отклоняется ограничением
// UNIQUE(user_id, slot_id) и возвращает ErrDuplicateBooking.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"slot_id",
			"circuit_number",
			"number_of_pilots",
			"payment_status",
		).
		Values(
			booking.UserID,
			booking.SlotID,
			int(booking.Circuit),
			booking.NumberOfPilots,
			string(booking.PaymentStatus),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		switch {
		case pgerr.IsUniqueViolation(err):
			return nil, ErrDuplicateBooking
		case pgerr.IsForeignKeyViolation(err):
			return nil, ErrReferenceNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ExistsForUserAndSlot проверяет, есть ли у пользователя бронирование на слот (на любой трассе)
func (r *Repository) ExistsForUserAndSlot(ctx context.Context, userID, slotID uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"user_id": userID, "slot_id": slotID}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsForUserAndSlot - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForUserAndSlot - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// ListBySlot получает бронирования слота вместе с контактами пилотов.
// Используется для рассылки уведомлений при удалении слота.
func (r *Repository) ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(psqlbuilder.Prefixed("b", bookingColumns...), pilotColumns...)
	query, args, err := psqlbuilder.Select(columns...).
		From("bookings b").
		Join("profiles p ON p.id = b.user_id").
		Where(squirrel.Eq{"b.slot_id": slotID}).
		OrderBy("b.created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlot - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		pilot := domain.Profile{}
		if err := rows.Scan(append(bookingDest(&b), &pilot.Email, &pilot.FirstName, &pilot.LastName)...); err != nil {
			return nil, fmt.Errorf("%w: ListBySlot - scan row: %v", ErrScanRow, err)
		}
		pilot.ID = b.UserID
		b.Pilot = &pilot
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBySlot - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// ListByUser получает бронирования пользователя с датами слотов, сначала ближайшие в будущем
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(psqlbuilder.Prefixed("b", bookingColumns...), "s.date")
	query, args, err := psqlbuilder.Select(columns...).
		From("bookings b").
		Join("slots s ON s.id = b.slot_id").
		Where(squirrel.Eq{"b.user_id": userID}).
		OrderBy("s.date DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		var slotDate time.Time
		if err := rows.Scan(append(bookingDest(&b), &slotDate)...); err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %v", ErrScanRow, err)
		}
		d := domain.DayOf(slotDate)
		b.SlotDate = &d
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// ListByCircuit получает бронирования трассы для панели администратора
// с датой слота и контактами пилота, по возрастанию даты
func (r *Repository) ListByCircuit(ctx context.Context, filter domain.CircuitBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(psqlbuilder.Prefixed("b", bookingColumns...), "s.date")
	columns = append(columns, pilotColumns...)

	builder := psqlbuilder.Select(columns...).
		From("bookings b").
		Join("slots s ON s.id = b.slot_id").
		Join("profiles p ON p.id = b.user_id").
		Where(squirrel.Eq{"b.circuit_number": int(filter.Circuit)}).
		OrderBy("s.date ASC", "b.created_at ASC")

	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"s.date": filter.From.Format(domain.DateFormat)})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"s.date": filter.To.Format(domain.DateFormat)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCircuit - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCircuit - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		var slotDate time.Time
		pilot := domain.Profile{}
		dest := append(bookingDest(&b), &slotDate, &pilot.Email, &pilot.FirstName, &pilot.LastName)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: ListByCircuit - scan row: %v", ErrScanRow, err)
		}
		d := domain.DayOf(slotDate)
		b.SlotDate = &d
		pilot.ID = b.UserID
		b.Pilot = &pilot
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByCircuit - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// ReservedBySlot суммирует number_of_pilots по трассам слота.
// Используется для сверки хранимого счетчика available при изменении вместимости.
func (r *Repository) ReservedBySlot(ctx context.Context, slotID uuid.UUID) (map[domain.Circuit]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("circuit_number", "COALESCE(SUM(number_of_pilots), 0)").
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID}).
		GroupBy("circuit_number").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ReservedBySlot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReservedBySlot - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reserved := map[domain.Circuit]int{
		domain.CircuitMotocross:  0,
		domain.CircuitSupercross: 0,
	}
	for rows.Next() {
		var circuit, sum int
		if err := rows.Scan(&circuit, &sum); err != nil {
			return nil, fmt.Errorf("%w: ReservedBySlot - scan row: %v", ErrScanRow, err)
		}
		reserved[domain.Circuit(circuit)] = sum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReservedBySlot - rows error: %v", ErrScanRow, err)
	}

	return reserved, nil
}

// UpdatePaymentStatus обновляет статус оплаты, места не затрагиваются
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + psqlbuilder.ColumnList(bookingColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// DeleteReturning удаляет бронирование и возвращает удаленную строку.
// Из двух параллельных отмен строку получит только одна, вторая получит ErrBookingNotFound,
// поэтому места возвращаются ровно один раз.
func (r *Repository) DeleteReturning(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + psqlbuilder.ColumnList(bookingColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: DeleteReturning - build delete query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteReturning - execute delete: %v", ErrExecQuery, err)
	}

	return booking, nil
}

func bookingDest(b *domain.Booking) []interface{} {
	return []interface{}{
		&b.ID,
		&b.UserID,
		&b.SlotID,
		&b.Circuit,
		&b.NumberOfPilots,
		&b.PaymentStatus,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(bookingDest(&b)...); err != nil {
		return nil, err
	}
	return &b, nil
}
