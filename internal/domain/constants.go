package domain

// Slot generation constants
const (
	// SlotStepMinutes шаг сетки слотов - минимальная единица времени,
	// которой оперирует система
	SlotStepMinutes = 15
)

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 часов
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD

	// DefaultTimezone используется, когда у филиала не настроена таймзона
	DefaultTimezone = "UTC"
)

// ActiveStatuses список статусов, при которых бронирование занимает свой интервал
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// AllStatuses список всех допустимых статусов бронирования
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
}

// IsValidStatus проверяет, что строка является допустимым статусом
func IsValidStatus(s string) bool {
	for _, status := range AllStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}
