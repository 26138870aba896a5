package message

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/pkg/dbmetrics"
	"github.com/bellefontaine/circuit-booking/pkg/psqlbuilder"
)

var messageColumns = []string{
	"id",
	"full_name",
	"email",
	"message",
	"status",
	"admin_response",
	"read",
	"created_at",
	"updated_at",
}

var sortColumns = map[domain.MessageSortField]string{
	domain.SortByDate:   "created_at",
	domain.SortByName:   "full_name",
	domain.SortByStatus: "status",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий обращений из формы обратной связи
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория обращений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет обращение
func (r *Repository) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("contact_messages").
		Columns("full_name", "email", "message", "status").
		Values(msg.FullName, msg.Email, msg.Message, string(msg.Status)).
		Suffix("RETURNING " + psqlbuilder.ColumnList(messageColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanMessage(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// GetByID получает обращение по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(messageColumns...).
		From("contact_messages").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	msg, err := scanMessage(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan message: %v", ErrScanRow, err)
	}

	return msg, nil
}

// List получает обращения с фильтрацией и сортировкой.
// Replied=true отбирает отвеченные, Replied=false - ожидающие ответа.
func (r *Repository) List(ctx context.Context, filter domain.MessagesFilter) ([]*domain.ContactMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(messageColumns...).
		From("contact_messages")

	if filter.Read != nil {
		builder = builder.Where(squirrel.Eq{"read": *filter.Read})
	}
	if filter.Replied != nil {
		status := domain.MessagePending
		if *filter.Replied {
			status = domain.MessageReplied
		}
		builder = builder.Where(squirrel.Eq{"status": string(status)})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"full_name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"message": pattern},
		})
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns[domain.SortByDate]
	}
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}
	builder = builder.OrderBy(column+" "+direction, "id ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	messages := make([]*domain.ContactMessage, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return messages, nil
}

// MarkRead помечает обращение прочитанным
func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error) {
	return r.update(ctx, "MarkRead", id, map[string]interface{}{"read": true})
}

// SaveReply сохраняет ответ администратора и переводит обращение в статус replied
func (r *Repository) SaveReply(ctx context.Context, id uuid.UUID, reply string) (*domain.ContactMessage, error) {
	return r.update(ctx, "SaveReply", id, map[string]interface{}{
		"admin_response": reply,
		"status":         string(domain.MessageReplied),
		"read":           true,
	})
}

func (r *Repository) update(ctx context.Context, op string, id uuid.UUID, values map[string]interface{}) (*domain.ContactMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("contact_messages").
		SetMap(values).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + psqlbuilder.ColumnList(messageColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	msg, err := scanMessage(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	return msg, nil
}

// Delete удаляет обращение
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("contact_messages").
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
		return ErrMessageNotFound
	}

	return nil
}

func scanMessage(row rowScanner) (*domain.ContactMessage, error) {
	var msg domain.ContactMessage
	var adminResponse sql.NullString

	err := row.Scan(
		&msg.ID,
		&msg.FullName,
		&msg.Email,
		&msg.Message,
		&msg.Status,
		&adminResponse,
		&msg.Read,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if adminResponse.Valid {
		msg.AdminResponse = &adminResponse.String
	}

	return &msg, nil
}
