package message

import "errors"

var (
	// ErrMessageNotFound возвращается, когда обращение не найдено
	ErrMessageNotFound = errors.New("message.repository: message not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("message.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("message.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("message.repository: failed to scan row")
)
