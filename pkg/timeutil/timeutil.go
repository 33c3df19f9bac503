package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// Утилиты календарного времени для агенды: преобразование между
// гражданской датой в таймзоне профессионала и абсолютными моментами (UTC).

const (
	// DateLayout — формат календарной даты в API (YYYY-MM-DD).
	DateLayout = "2006-01-02"
	// TimeOfDayLayout — формат времени суток в правилах доступности (HH:MM).
	TimeOfDayLayout = "15:04"
)

var (
	ErrInvalidDate     = errors.New("неверный формат даты")
	ErrInvalidTimezone = errors.New("неизвестная таймзона")
	ErrInvalidTime     = errors.New("неверный формат времени")
)

// weekday переводит time.Weekday (воскресенье=0) в принятую в агенде
// нумерацию: понедельник=0 ... воскресенье=6. Единственное место перевода.
var weekdayFromGo = map[time.Weekday]int{
	time.Monday:    0,
	time.Tuesday:   1,
	time.Wednesday: 2,
	time.Thursday:  3,
	time.Friday:    4,
	time.Saturday:  5,
	time.Sunday:    6,
}

// LoadLocation загружает IANA-таймзону, оборачивая ошибку в ErrInvalidTimezone.
func LoadLocation(tz string) (*time.Location, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, tz)
	}
	return loc, nil
}

// ParseDate разбирает календарную дату формата YYYY-MM-DD.
func ParseDate(dateStr string) (time.Time, error) {
	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, dateStr)
	}
	return date, nil
}

// DayBounds возвращает границы [start, end) местных суток даты dateStr в
// таймзоне tz как абсолютные моменты. В дни перевода часов сутки могут
// длиться 23 или 25 часов — границы считаются через местную полночь,
// а не через прибавление фиксированных 24 часов.
func DayBounds(dateStr, tz string) (time.Time, time.Time, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	date, err := ParseDate(dateStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc)

	return start.UTC(), end.UTC(), nil
}

// DayOfWeek возвращает местный день недели момента t в таймзоне tz
// (понедельник=0 ... воскресенье=6).
func DayOfWeek(t time.Time, tz string) (int, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return 0, err
	}
	return weekdayFromGo[t.In(loc).Weekday()], nil
}

// WeekdayOfDate возвращает день недели календарной даты в таймзоне tz.
// Берется местный полдень, а не полночь: в дни перевода часов полночь
// может не существовать или существовать дважды.
func WeekdayOfDate(dateStr, tz string) (int, error) {
	start, _, err := DayBounds(dateStr, tz)
	if err != nil {
		return 0, err
	}
	return DayOfWeek(start.Add(12*time.Hour), tz)
}

// MinutesOfDay разбирает время суток HH:MM в минуты от полуночи.
func MinutesOfDay(timeStr string) (int, error) {
	t, err := time.Parse(TimeOfDayLayout, timeStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidTime, timeStr)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AddMinutes прибавляет минуты к абсолютному моменту.
func AddMinutes(t time.Time, minutes int) time.Time {
	return t.Add(time.Duration(minutes) * time.Minute)
}

// Overlaps проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и
// [bStart, bEnd). Слот, заканчивающийся ровно в начале блокировки,
// пересечением не считается.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
