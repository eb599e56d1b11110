package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	// (в т.ч. когда токен выписан другим тенантом)
	ErrBookingNotFound = errors.New("booking not found")

	// ErrCustomerNotFound возвращается, когда тенант не найден по slug
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrAccessDenied возвращается, когда у вызывающего нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyConfirmed возвращается при подтверждении уже подтверждённого бронирования
	ErrAlreadyConfirmed = errors.New("booking is already confirmed")

	// ErrAlreadyCancelled возвращается при подтверждении или повторной
	// отмене отменённого бронирования
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
