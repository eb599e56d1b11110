package create_booking

import "errors"

var (
	// ErrCustomerNotFound возвращается, когда тенант не найден
	ErrCustomerNotFound = errors.New("create_booking: customer not found")

	// ErrInvalidBranchReference возвращается, когда филиал не принадлежит
	// тенанту запроса или не существует
	// Намеренно ошибка валидации, а не not-found: не раскрываем
	// существование чужих сущностей
	ErrInvalidBranchReference = errors.New("create_booking: invalid branch reference")

	// ErrInvalidServiceReference возвращается, когда услуга не принадлежит тенанту запроса
	ErrInvalidServiceReference = errors.New("create_booking: invalid service reference")

	// ErrInvalidProfessionalReference возвращается, когда профессионал не принадлежит тенанту запроса
	ErrInvalidProfessionalReference = errors.New("create_booking: invalid professional reference")

	// ErrServiceNotAvailableAtBranch возвращается, когда услуга не предоставляется на филиале
	ErrServiceNotAvailableAtBranch = errors.New("create_booking: service is not available at this branch")

	// ErrProfessionalNotAssigned возвращается, когда профессионал не назначен на филиал
	ErrProfessionalNotAssigned = errors.New("create_booking: professional is not assigned to this branch")

	// ErrScheduledInPast возвращается, когда время бронирования не в будущем
	ErrScheduledInPast = errors.New("create_booking: scheduled time is in the past")

	// ErrInvalidSlotBoundary возвращается, когда время не попадает на границу сетки слотов
	ErrInvalidSlotBoundary = errors.New("create_booking: scheduled time is not on a slot boundary")

	// ErrBranchClosed возвращается, когда филиал закрыт в указанный день
	ErrBranchClosed = errors.New("create_booking: branch is closed on this date")

	// ErrOutsideOperatingHours возвращается, когда интервал бронирования
	// не помещается в рабочие часы (филиала или профессионала) либо
	// пересекает перерыв профессионала
	ErrOutsideOperatingHours = errors.New("create_booking: slot is outside operating hours")

	// ErrProfessionalUnavailable возвращается, когда интервал профессионала
	// занят конкурирующим бронированием (или ни один профессионал не доступен
	// при автоподборе)
	ErrProfessionalUnavailable = errors.New("create_booking: professional is not available at this time")

	// ErrUserAlreadyBooked возвращается, когда у пользователя уже есть
	// активное бронирование, пересекающееся с запрошенным интервалом
	ErrUserAlreadyBooked = errors.New("create_booking: user already has a booking at this time")

	// ErrInvalidTimezone возвращается при некорректной таймзоне филиала
	ErrInvalidTimezone = errors.New("create_booking: invalid branch timezone")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
