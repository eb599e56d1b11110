package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// OperatingWindow represents the operating hours of an entity for one day of week
// Для профессионалов дополнительно может содержать один перерыв
type OperatingWindow struct {
	DayOfWeek time.Weekday
	IsClosed  bool
	StartTime types.TimeString
	EndTime   types.TimeString

	// Перерыв (только у профессионалов), опционален
	BreakStart *types.TimeString
	BreakEnd   *types.TimeString
}

// ClosedWindow возвращает окно "закрыто" для дня
// Отсутствие окна в расписании трактуется так же (fail closed)
func ClosedWindow(day time.Weekday) OperatingWindow {
	return OperatingWindow{DayOfWeek: day, IsClosed: true}
}

// HasBreak returns true if the window carries a break interval
func (w *OperatingWindow) HasBreak() bool {
	return w.BreakStart != nil && w.BreakEnd != nil
}

// Contains reports whether [start, end) fits entirely inside the window's
// working hours, excluding the break interval (half-open semantics:
// слот, начинающийся ровно в BreakEnd, допустим)
func (w *OperatingWindow) Contains(start, end types.TimeString) bool {
	if w.IsClosed {
		return false
	}
	if start.IsBefore(w.StartTime) || end.IsAfter(w.EndTime) {
		return false
	}
	if w.HasBreak() {
		// Пересечение полуоткрытых интервалов [start, end) и [BreakStart, BreakEnd)
		if start.IsBefore(*w.BreakEnd) && w.BreakStart.IsBefore(end) {
			return false
		}
	}
	return true
}
