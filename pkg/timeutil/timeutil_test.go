package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBounds(t *testing.T) {
	start, end, err := DayBounds("2026-03-02", "America/Mexico_City")
	require.NoError(t, err)

	// Мехико — UTC-6 круглый год (перевод часов отменен с 2022).
	assert.Equal(t, time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestDayBoundsSpringForward(t *testing.T) {
	// 2026-03-08 в Нью-Йорке: час 02:00-03:00 пропущен, сутки длятся 23 часа.
	start, end, err := DayBounds("2026-03-08", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, 23*time.Hour, end.Sub(start))
}

func TestDayBoundsFallBack(t *testing.T) {
	// 2026-11-01 в Нью-Йорке: час 01:00-02:00 повторяется, сутки длятся 25 часов.
	start, end, err := DayBounds("2026-11-01", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, 25*time.Hour, end.Sub(start))
}

func TestDayBoundsInvalidTimezone(t *testing.T) {
	_, _, err := DayBounds("2026-03-02", "Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestDayBoundsInvalidDate(t *testing.T) {
	_, _, err := DayBounds("02.03.2026", "America/Mexico_City")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestWeekdayOfDate(t *testing.T) {
	cases := []struct {
		date     string
		expected int
	}{
		{"2026-03-02", 0}, // понедельник
		{"2026-03-03", 1},
		{"2026-03-07", 5}, // суббота
		{"2026-03-08", 6}, // воскресенье
	}

	for _, tc := range cases {
		weekday, err := WeekdayOfDate(tc.date, "America/Mexico_City")
		require.NoError(t, err)
		assert.Equal(t, tc.expected, weekday, "дата %s", tc.date)
	}
}

func TestWeekdayOfDateOnDSTTransition(t *testing.T) {
	// День перевода часов: полдень однозначен, полночь — нет.
	weekday, err := WeekdayOfDate("2026-03-08", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, 6, weekday) // воскресенье
}

func TestMinutesOfDay(t *testing.T) {
	minutes, err := MinutesOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, minutes)

	_, err = MinutesOfDay("9am")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	at := func(m int) time.Time { return base.Add(time.Duration(m) * time.Minute) }

	// Полуоткрытые интервалы: соприкосновение концами — не пересечение.
	assert.False(t, Overlaps(at(0), at(30), at(30), at(60)))
	assert.False(t, Overlaps(at(30), at(60), at(0), at(30)))

	assert.True(t, Overlaps(at(0), at(30), at(15), at(45)))  // начало внутри
	assert.True(t, Overlaps(at(15), at(45), at(0), at(30)))  // конец внутри
	assert.True(t, Overlaps(at(0), at(60), at(15), at(30)))  // содержит
	assert.True(t, Overlaps(at(15), at(30), at(0), at(60)))  // содержится
}
