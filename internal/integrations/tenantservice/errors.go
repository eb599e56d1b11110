package tenantservice

import "errors"

var (
	// ErrCustomerNotFound возвращается, когда тенант не найден
	ErrCustomerNotFound = errors.New("tenantservice: customer not found")

	// ErrBranchNotFound возвращается, когда филиал не найден
	ErrBranchNotFound = errors.New("tenantservice: branch not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("tenantservice: service not found")

	// ErrProfessionalNotFound возвращается, когда профессионал не найден
	ErrProfessionalNotFound = errors.New("tenantservice: professional not found")

	// ErrInvalidResponse возвращается при некорректном ответе TenantService
	ErrInvalidResponse = errors.New("tenantservice: invalid response")

	// ErrInternal возвращается при ошибках выполнения запроса
	ErrInternal = errors.New("tenantservice: internal error")
)
