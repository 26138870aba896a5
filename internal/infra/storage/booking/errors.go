package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrDuplicateBooking возвращается, когда у пользователя уже есть бронирование на слот (UNIQUE(user_id, slot_id))
	ErrDuplicateBooking = errors.New("booking.repository: user already has a booking for this slot")

	// ErrReferenceNotFound возвращается, когда слот или профиль из бронирования не существует
	ErrReferenceNotFound = errors.New("booking.repository: referenced slot or profile does not exist")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
