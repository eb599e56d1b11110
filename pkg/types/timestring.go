package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// TimeString локальное время дня в формате "HH:MM" (без даты и таймзоны)
// Используется для рабочих часов, перерывов и времени начала слотов
type TimeString string

const (
	timeStringFormat = "15:04"
	minutesInDay     = 24 * 60
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOutOfRange возвращается, когда результат операции выходит за пределы суток
	ErrTimeOutOfRange = errors.New("time is out of day range")
)

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeStringFormat))
}

// NewTimeStringFromString парсит строку "HH:MM" в TimeString
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут с начала суток
// Граничное значение 24:00 допустимо как конец дня
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > minutesInDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate проверяет, что строка имеет формат "HH:MM"
// "24:00" допускается как граница конца дня
func (t TimeString) Validate() error {
	if t == "24:00" {
		return nil
	}
	// time.Parse("15:04", ...) принимает "9:00" - формат требует
	// строго пять символов с ведущим нулём
	if len(t) != 5 {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	if _, err := time.Parse(timeStringFormat, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// IsZero возвращает true, если значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Minutes возвращает количество минут с начала суток
func (t TimeString) Minutes() (int, error) {
	if t == "24:00" {
		return minutesInDay, nil
	}
	parsed, err := time.Parse(timeStringFormat, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// IsBefore возвращает true, если t строго раньше other
// Невалидные значения считаются равными (сравнение не паникует)
func (t TimeString) IsBefore(other TimeString) bool {
	a, err1 := t.Minutes()
	b, err2 := other.Minutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, err1 := t.Minutes()
	b, err2 := other.Minutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return a > b
}

// AddMinutes возвращает время через minutes минут
// Возвращает ошибку, если результат выходит за пределы суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(current + minutes)
}

// String возвращает строковое представление "HH:MM"
func (t TimeString) String() string {
	return string(t)
}

// Value реализует driver.Valuer для записи в БД
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Поддерживает строки, []byte и time.Time (колонки типа TIME)
func (t *TimeString) Scan(value interface{}) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		ts, err := NewTimeStringFromString(trimSeconds(v))
		if err != nil {
			return err
		}
		*t = ts
		return nil
	case []byte:
		ts, err := NewTimeStringFromString(trimSeconds(string(v)))
		if err != nil {
			return err
		}
		*t = ts
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, value)
	}
}

// trimSeconds отбрасывает секунды из строк вида "10:00:00"
func trimSeconds(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}
