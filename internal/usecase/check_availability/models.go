package check_availability

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на проверку доступности слотов
type Request struct {
	CustomerID     int64     // ID тенанта (из контекста запроса)
	BranchID       int64     // ID филиала
	ServiceID      int64     // ID услуги (задаёт длительность)
	ProfessionalID *int64    // Фильтр по профессионалу (опционально)
	UserID         *int64    // ID пользователя, если известен - его занятые интервалы тоже учитываются
	Date           time.Time // Дата, на которую запрашиваются слоты (без времени)
}

// Response модель ответа с сеткой слотов
type Response struct {
	Date           time.Time     // Дата, на которую запрашивались слоты
	BranchID       int64         // ID филиала
	ServiceID      int64         // ID услуги
	ProfessionalID *int64        // Фильтр по профессионалу, если был задан
	Slots          []domain.Slot // Сетка слотов; пустая, если филиал закрыт
}
