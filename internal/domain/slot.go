package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// Slot слот-кандидат в сетке доступности на конкретную дату
type Slot struct {
	Time      types.TimeString // Локальное время начала в таймзоне филиала
	Available bool
}
