package check_availability

import "errors"

var (
	// ErrBranchNotFound возвращается, когда филиал не найден у тенанта
	ErrBranchNotFound = errors.New("check_availability: branch not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена у тенанта
	ErrServiceNotFound = errors.New("check_availability: service not found")

	// ErrProfessionalNotFound возвращается, когда профессионал не найден у тенанта
	ErrProfessionalNotFound = errors.New("check_availability: professional not found")

	// ErrServiceNotAvailableAtBranch возвращается, когда услуга не предоставляется на филиале
	ErrServiceNotAvailableAtBranch = errors.New("check_availability: service is not available at this branch")

	// ErrProfessionalNotAssigned возвращается, когда профессионал не назначен на филиал
	ErrProfessionalNotAssigned = errors.New("check_availability: professional is not assigned to this branch")

	// ErrInvalidTimezone возвращается при некорректной таймзоне филиала
	ErrInvalidTimezone = errors.New("check_availability: invalid branch timezone")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_availability: internal error")
)
