package slot

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

var slotColumns = []string{
	"id",
	"date",
	"circuit_1_capacity",
	"circuit_2_capacity",
	"circuit_1_available",
	"circuit_2_available",
	"created_at",
	"updated_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий для работы со слотами.
// Все изменения счетчиков available выполняются одним условным UPDATE,
// без чтения и записи в два запроса.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает слот. Занятая дата возвращает ErrDateTaken (UNIQUE(date)).
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"date",
			"circuit_1_capacity",
			"circuit_2_capacity",
			"circuit_1_available",
			"circuit_2_available",
		).
		Values(
			slot.Date.Format(domain.DateFormat),
			slot.Circuit1Capacity,
			slot.Circuit2Capacity,
			slot.Circuit1Available,
			slot.Circuit2Available,
		).
		Suffix("RETURNING " + psqlbuilder.ColumnList(slotColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDateTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id}, false)
}

// GetByIDForUpdate получает слот по ID и блокирует строку до конца транзакции.
// Вне транзакции работает как GetByID.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	return r.getOne(ctx, "GetByIDForUpdate", squirrel.Eq{"id": id}, dbmetrics.IsInTransaction(ctx))
}

// GetByDate получает слот на календарную дату
func (r *Repository) GetByDate(ctx context.Context, date time.Time) (*domain.Slot, error) {
	return r.getOne(ctx, "GetByDate", squirrel.Eq{"date": date.Format(domain.DateFormat)}, false)
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer, forUpdate bool) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(where)

	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan slot: %v", ErrScanRow, op, err)
	}

	return slot, nil
}

// List возвращает слоты по возрастанию даты
func (r *Repository) List(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(slotColumns...).
		From("slots").
		OrderBy("date ASC")

	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"date": filter.From.Format(domain.DateFormat)})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"date": filter.To.Format(domain.DateFormat)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// DecrementAvailable списывает n мест на трассе одним условным UPDATE
// (available >= n). Если условие не выполнено или слота нет, возвращает
// ErrNotEnoughSeats: вызывающий перечитывает слот, чтобы различить случаи.
func (r *Repository) DecrementAvailable(ctx context.Context, id uuid.UUID, circuit domain.Circuit, n int) (*domain.Slot, error) {
	column, err := availableColumn(circuit)
	if err != nil {
		return nil, err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set(column, squirrel.Expr(column+" - ?", n)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{column: n}).
		Suffix("RETURNING " + psqlbuilder.ColumnList(slotColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: DecrementAvailable - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotEnoughSeats
	}
	if err != nil {
		return nil, fmt.Errorf("%w: DecrementAvailable - execute update: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// IncrementAvailable возвращает n мест на трассу, не превышая вместимость
func (r *Repository) IncrementAvailable(ctx context.Context, id uuid.UUID, circuit domain.Circuit, n int) (*domain.Slot, error) {
	column, err := availableColumn(circuit)
	if err != nil {
		return nil, err
	}
	capacity := capacityColumn(circuit)

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set(column, squirrel.Expr(fmt.Sprintf("LEAST(%s + ?, %s)", column, capacity), n)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + psqlbuilder.ColumnList(slotColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: IncrementAvailable - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: IncrementAvailable - execute update: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// SaveCapacity записывает пересчитанные вместимость и доступность.
// Вызывается только внутри транзакции после GetByIDForUpdate: строка
// заблокирована, поэтому параллельные списания ждут ее завершения.
func (r *Repository) SaveCapacity(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("circuit_1_capacity", slot.Circuit1Capacity).
		Set("circuit_2_capacity", slot.Circuit2Capacity).
		Set("circuit_1_available", slot.Circuit1Available).
		Set("circuit_2_available", slot.Circuit2Available).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slot.ID}).
		Suffix("RETURNING " + psqlbuilder.ColumnList(slotColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SaveCapacity - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: SaveCapacity - execute update: %v", ErrExecQuery, err)
	}

	return updated, nil
}

// UpdateDate переносит слот на другую дату, бронирования и вместимость не меняются
func (r *Repository) UpdateDate(ctx context.Context, id uuid.UUID, date time.Time) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("date", date.Format(domain.DateFormat)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + psqlbuilder.ColumnList(slotColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateDate - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDateTaken
		}
		return nil, fmt.Errorf("%w: UpdateDate - execute update: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// Delete удаляет слот, бронирования удаляются каскадно (ON DELETE CASCADE)
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var slot domain.Slot
	err := row.Scan(
		&slot.ID,
		&slot.Date,
		&slot.Circuit1Capacity,
		&slot.Circuit2Capacity,
		&slot.Circuit1Available,
		&slot.Circuit2Available,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	slot.Date = domain.DayOf(slot.Date)
	return &slot, nil
}

func availableColumn(c domain.Circuit) (string, error) {
	switch c {
	case domain.CircuitMotocross:
		return "circuit_1_available", nil
	case domain.CircuitSupercross:
		return "circuit_2_available", nil
	default:
		return "", fmt.Errorf("%w: %d", ErrInvalidCircuit, c)
	}
}

func capacityColumn(c domain.Circuit) string {
	if c == domain.CircuitSupercross {
		return "circuit_2_capacity"
	}
	return "circuit_1_capacity"
}
