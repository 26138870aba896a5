// Package pgerr распознает ошибки PostgreSQL, возвращаемые lib/pq
package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL
const (
	UniqueViolation     = pq.ErrorCode("23505")
	ForeignKeyViolation = pq.ErrorCode("23503")
	CheckViolation      = pq.ErrorCode("23514")
)

// Code возвращает код ошибки PostgreSQL или пустую строку
func Code(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// Constraint возвращает имя нарушенного ограничения или пустую строку
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

// IsUniqueViolation true для нарушения UNIQUE
func IsUniqueViolation(err error) bool {
	return Code(err) == UniqueViolation
}

// IsForeignKeyViolation true для нарушения внешнего ключа
func IsForeignKeyViolation(err error) bool {
	return Code(err) == ForeignKeyViolation
}

// IsCheckViolation true для нарушения CHECK
func IsCheckViolation(err error) bool {
	return Code(err) == CheckViolation
}
