package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrProfessionalConflict возвращается, когда интервал профессионала
	// уже занят другим активным бронированием (нарушение exclusion constraint)
	ErrProfessionalConflict = errors.New("booking.repository: professional interval conflict")

	// ErrUserConflict возвращается, когда у пользователя уже есть активное
	// бронирование, пересекающееся с интервалом
	ErrUserConflict = errors.New("booking.repository: user interval conflict")

	// ErrStatusConflict возвращается, когда CAS-обновление статуса не прошло
	// (статус уже изменён конкурентным запросом)
	ErrStatusConflict = errors.New("booking.repository: status conflict")

	// ErrTokenCollision возвращается при коллизии confirmation_token
	ErrTokenCollision = errors.New("booking.repository: confirmation token collision")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
