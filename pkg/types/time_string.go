package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MinutesPerDay количество минут в сутках
	MinutesPerDay = 24 * 60
)

var (
	// ErrInvalidTimeFormat возвращается, когда строка не соответствует формату HH:MM или HH.MM
	ErrInvalidTimeFormat = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, когда результат арифметики выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflow")
)

// TimeString время суток в каноническом формате "HH:MM"
type TimeString string

// NewTimeString создаёт TimeString из часов и минут time.Time
func NewTimeString(t time.Time) TimeString {
	return FromMinutes(t.Hour()*60 + t.Minute())
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH.MM" и приводит её к виду "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	minutes, err := ParseMinutes(s)
	if err != nil {
		return "", err
	}
	if minutes == MinutesPerDay {
		return "24:00", nil
	}
	return FromMinutes(minutes), nil
}

// FromMinutes форматирует смещение в минутах от полуночи как "HH:MM".
// Часы берутся по модулю 24, поэтому смещения после полуночи следующего дня
// отображаются как время следующих суток.
func FromMinutes(minutes int) TimeString {
	if minutes < 0 {
		minutes = minutes%MinutesPerDay + MinutesPerDay
	}
	h := (minutes / 60) % 24
	m := minutes % 60
	return TimeString(fmt.Sprintf("%02d:%02d", h, m))
}

// ParseMinutes переводит "HH:MM" или "HH.MM" в минуты от полуночи.
// Часы 0-23 (одна или две цифры), минуты 0-59 (ровно две цифры).
// "24:00" допускается как конец суток.
func ParseMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	sep := strings.IndexAny(s, ":.")
	if sep <= 0 || sep > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	hourPart, minutePart := s[:sep], s[sep+1:]
	if len(minutePart) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	hours, err := parseDigits(hourPart)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	minutes, err := parseDigits(minutePart)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	if minutes > 59 {
		return 0, fmt.Errorf("%w: minutes out of range in %q", ErrInvalidTimeFormat, s)
	}
	if hours == 24 && minutes == 0 {
		return MinutesPerDay, nil
	}
	if hours > 23 {
		return 0, fmt.Errorf("%w: hours out of range in %q", ErrInvalidTimeFormat, s)
	}

	return hours*60 + minutes, nil
}

// parseDigits принимает только десятичные цифры, без знака и пробелов
func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidTimeFormat
		}
	}
	return strconv.Atoi(s)
}

// Minutes возвращает количество минут от полуночи
func (t TimeString) Minutes() (int, error) {
	return ParseMinutes(string(t))
}

// AddMinutes прибавляет минуты, результат должен остаться в пределах суток (до 24:00 включительно)
func (t TimeString) AddMinutes(delta int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}
	result := current + delta
	if result < 0 || result > MinutesPerDay {
		return "", fmt.Errorf("%w: %s%+d min", ErrTimeOverflow, t, delta)
	}
	if result == MinutesPerDay {
		return "24:00", nil
	}
	return FromMinutes(result), nil
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a > b
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат времени
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// String реализует fmt.Stringer
func (t TimeString) String() string {
	return string(t)
}

// On возвращает момент времени t на дату date в часовом поясе даты
func (t TimeString) On(date time.Time) (time.Time, error) {
	minutes, err := t.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, minutes, 0, 0, date.Location()), nil
}

// Scan реализует sql.Scanner: принимает TEXT и TIME колонки
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		*t = TimeString(v)
		return nil
	case []byte:
		*t = TimeString(v)
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("types: cannot scan %T into TimeString", src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
