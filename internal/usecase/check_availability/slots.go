package check_availability

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// generateBranchGrid генерирует сетку кандидатов от открытия до закрытия
// филиала с фиксированным шагом domain.SlotStepMinutes
// Остаются только слоты, чья ПОЛНАЯ длительность услуги помещается до закрытия:
// слот за 10 минут до закрытия для 30-минутной услуги в сетку не попадает
func generateBranchGrid(window *domain.OperatingWindow, durationMinutes int) ([]types.TimeString, error) {
	if window.IsClosed {
		return []types.TimeString{}, nil
	}

	grid := make([]types.TimeString, 0)
	current := window.StartTime

	for current.IsBefore(window.EndTime) {
		slotEnd, err := current.AddMinutes(durationMinutes)
		if err != nil {
			// Конец слота вышел за пределы суток - дальше слотов нет
			break
		}
		if slotEnd.IsAfter(window.EndTime) {
			break
		}

		grid = append(grid, current)

		current, err = current.AddMinutes(domain.SlotStepMinutes)
		if err != nil {
			break
		}
	}

	return grid, nil
}

// slotFitsWindow проверяет, что слот [start, start+duration) целиком лежит
// в рабочем окне и не пересекает перерыв
// Граница перерыва не считается пересечением: слот, начинающийся ровно
// в конец перерыва, допустим (полуоткрытые интервалы)
func slotFitsWindow(window *domain.OperatingWindow, start types.TimeString, durationMinutes int) bool {
	if window == nil || window.IsClosed {
		return false
	}

	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}

	return window.Contains(start, end)
}

// hasOverlap проверяет, пересекается ли интервал [start, end) хотя бы
// с одним активным бронированием
// Пересечение полуоткрытых интервалов: existing.start < end && start < existing.end
func hasOverlap(bookings []*domain.Booking, start, end time.Time) bool {
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// groupByProfessional раскладывает бронирования по профессионалам
func groupByProfessional(bookings []*domain.Booking) map[int64][]*domain.Booking {
	grouped := make(map[int64][]*domain.Booking)
	for _, b := range bookings {
		grouped[b.ProfessionalID] = append(grouped[b.ProfessionalID], b)
	}
	return grouped
}

// serviceDuration длительность услуги как time.Duration
func serviceDuration(minutes int) time.Duration {
	return time.Duration(minutes) * time.Minute
}

// absoluteTime переводит локальное время дня в абсолютный момент
// относительно начала дня в таймзоне филиала
func absoluteTime(dayStart time.Time, local types.TimeString) (time.Time, error) {
	minutes, err := local.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	return dayStart.Add(time.Duration(minutes) * time.Minute), nil
}

// resolveLocation загружает таймзону филиала, пустая строка - UTC
func resolveLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		timezone = domain.DefaultTimezone
	}
	return time.LoadLocation(timezone)
}

// localDayBounds возвращает начало и конец календарного дня date
// в таймзоне филиала
func localDayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return dayStart, dayStart.AddDate(0, 0, 1)
}
