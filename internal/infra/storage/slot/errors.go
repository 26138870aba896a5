package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrDateTaken возвращается, когда на эту дату уже есть слот
	ErrDateTaken = errors.New("slot.repository: slot already exists for date")

	// ErrNotEnoughSeats возвращается, когда условное списание мест не затронуло ни одной строки
	ErrNotEnoughSeats = errors.New("slot.repository: not enough available seats")

	// ErrInvalidCircuit возвращается для номера трассы вне {1, 2}
	ErrInvalidCircuit = errors.New("slot.repository: invalid circuit")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
