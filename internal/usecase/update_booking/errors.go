package update_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено в рамках тенанта
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrForbidden возвращается, когда у вызывающего нет прав на изменение
	ErrForbidden = errors.New("update_booking: access denied")

	// ErrBookingCancelled возвращается при попытке изменить отменённое бронирование
	ErrBookingCancelled = errors.New("update_booking: booking is cancelled")

	// ErrInvalidStatusTransition возвращается при недопустимом переходе статуса
	// (в т.ч. возврат в pending - он невозможен ни из какого состояния)
	ErrInvalidStatusTransition = errors.New("update_booking: invalid status transition")

	// ErrInvalidProfessionalReference возвращается, когда профессионал не принадлежит тенанту запроса
	ErrInvalidProfessionalReference = errors.New("update_booking: invalid professional reference")

	// ErrProfessionalNotAssigned возвращается, когда профессионал не назначен на филиал бронирования
	ErrProfessionalNotAssigned = errors.New("update_booking: professional is not assigned to this branch")

	// ErrScheduledInPast возвращается, когда новое время не в будущем
	ErrScheduledInPast = errors.New("update_booking: scheduled time is in the past")

	// ErrInvalidSlotBoundary возвращается, когда новое время не попадает на границу сетки слотов
	ErrInvalidSlotBoundary = errors.New("update_booking: scheduled time is not on a slot boundary")

	// ErrBranchClosed возвращается, когда филиал закрыт в новый день
	ErrBranchClosed = errors.New("update_booking: branch is closed on this date")

	// ErrOutsideOperatingHours возвращается, когда новый интервал не помещается
	// в рабочие часы филиала или профессионала
	ErrOutsideOperatingHours = errors.New("update_booking: slot is outside operating hours")

	// ErrProfessionalUnavailable возвращается, когда новый интервал профессионала занят
	ErrProfessionalUnavailable = errors.New("update_booking: professional is not available at this time")

	// ErrUserAlreadyBooked возвращается, когда новый интервал пересекается
	// с другим активным бронированием пользователя
	ErrUserAlreadyBooked = errors.New("update_booking: user already has a booking at this time")

	// ErrInvalidTimezone возвращается при некорректной таймзоне филиала
	ErrInvalidTimezone = errors.New("update_booking: invalid branch timezone")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
