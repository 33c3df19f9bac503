package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/pkg/timeutil"
)

func newSlotFixture(professional *domain.Professional) (*SlotServiceImpl, *stubAvailabilityRepo, *stubAppointmentRepo) {
	availabilityRepo := &stubAvailabilityRepo{}
	appointmentRepo := newStubAppointmentRepo()
	professionalRepo := newStubProfessionalRepo(professional)
	slots := NewSlotService(availabilityRepo, appointmentRepo, professionalRepo, zap.NewNop())
	return slots, availabilityRepo, appointmentRepo
}

func mexicoProfessional() *domain.Professional {
	return &domain.Professional{
		ID:       1,
		UserID:   10,
		Name:     "Dra. García",
		Slug:     "dra-garcia-abc123",
		Timezone: "America/Mexico_City",
		IsActive: true,
	}
}

func addRule(repo *stubAvailabilityRepo, professionalID int64, weekday int, start, end string, duration int) {
	_, _ = repo.CreateRule(context.Background(), professionalID, domain.CreateAvailabilityRuleDTO{
		Weekday:         weekday,
		StartTime:       start,
		EndTime:         end,
		SlotDurationMin: duration,
	})
}

// localTime — абсолютный момент местного времени даты в таймзоне tz.
func localTime(t *testing.T, date, clock, tz string) time.Time {
	t.Helper()
	loc, err := timeutil.LoadLocation(tz)
	require.NoError(t, err)
	parsed, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	require.NoError(t, err)
	return parsed
}

func TestResolveExpandsRule(t *testing.T) {
	slots, availabilityRepo, _ := newSlotFixture(mexicoProfessional())

	// 2027-03-01 — понедельник (weekday=0).
	addRule(availabilityRepo, 1, 0, "09:00", "12:00", 60)

	free, err := slots.Resolve(context.Background(), 1, "2027-03-01")
	require.NoError(t, err)
	require.Len(t, free, 3)

	assert.True(t, free[0].Start.Equal(localTime(t, "2027-03-01", "09:00", "America/Mexico_City")))
	assert.True(t, free[1].Start.Equal(localTime(t, "2027-03-01", "10:00", "America/Mexico_City")))
	assert.True(t, free[2].Start.Equal(localTime(t, "2027-03-01", "11:00", "America/Mexico_City")))
	assert.Equal(t, time.Hour, free[0].End.Sub(free[0].Start))
}

func TestResolveLastSlotMustFitWindow(t *testing.T) {
	slots, availabilityRepo, _ := newSlotFixture(mexicoProfessional())

	// В окно 09:00-10:30 часовой слот помещается только один раз.
	addRule(availabilityRepo, 1, 0, "09:00", "10:30", 60)

	free, err := slots.Resolve(context.Background(), 1, "2027-03-01")
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.True(t, free[0].Start.Equal(localTime(t, "2027-03-01", "09:00", "America/Mexico_City")))
}

func TestResolveNoRulesForWeekday(t *testing.T) {
	slots, availabilityRepo, _ := newSlotFixture(mexicoProfessional())

	// Правило только на вторник, запрошен понедельник.
	addRule(availabilityRepo, 1, 1, "09:00", "12:00", 60)

	free, err := slots.Resolve(context.Background(), 1, "2027-03-01")
	require.NoError(t, err)
	assert.NotNil(t, free)
	assert.Empty(t, free)
}

func TestResolveBlackoutHalfOpenBoundaries(t *testing.T) {
	slots, availabilityRepo, _ := newSlotFixture(mexicoProfessional())
	addRule(availabilityRepo, 1, 0, "09:00", "12:00", 60)

	// Блокировка 10:00-11:00 гасит только средний слот: слот, кончающийся
	// ровно в 10:00, и слот, начинающийся ровно в 11:00, остаются.
	_, err := availabilityRepo.CreateBlackout(context.Background(), 1, domain.CreateBlackoutDTO{
		StartAt: localTime(t, "2027-03-01", "10:00", "America/Mexico_City"),
		EndAt:   localTime(t, "2027-03-01", "11:00", "America/Mexico_City"),
	})
	require.NoError(t, err)

	free, err := slots.Resolve(context.Background(), 1, "2027-03-01")
	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.True(t, free[0].Start.Equal(localTime(t, "2027-03-01", "09:00", "America/Mexico_City")))
	assert.True(t, free[1].Start.Equal(localTime(t, "2027-03-01", "11:00", "America/Mexico_City")))
}

func TestResolveOccupiedAppointmentExcluded(t *testing.T) {
	slots, availabilityRepo, appointmentRepo := newSlotFixture(mexicoProfessional())
	addRule(availabilityRepo, 1, 0, "09:00", "12:00", 60)

	_, err := appointmentRepo.Create(context.Background(), 5, domain.CreateAppointmentDTO{
		ProfessionalID: 1,
		StartAt:        localTime(t, "2027-03-01", "09:00", "America/Mexico_City"),
		EndAt:          localTime(t, "2027-03-01", "10:00", "America/Mexico_City"),
	})
	require.NoError(t, err)

	free, err := slots.Resolve(context.Background(), 1, "2027-03-01")
	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.True(t, free[0].Start.Equal(localTime(t, "2027-03-01", "10:00", "America/Mexico_City")))
}

func TestResolveCancelledAppointmentFreesSlot(t *testing.T) {
	slots, availabilityRepo, appointmentRepo := newSlotFixture(mexicoProfessional())
	addRule(availabilityRepo, 1, 0, "09:00", "11:00", 60)

	appointment, err := appointmentRepo.Create(context.Background(), 5, domain.CreateAppointmentDTO{
		ProfessionalID: 1,
		StartAt:        localTime(t, "2027-03-01", "09:00", "America/Mexico_City"),
		EndAt:          localTime(t, "2027-03-01", "10:00", "America/Mexico_City"),
	})
	require.NoError(t, err)
	require.NoError(t, appointmentRepo.UpdateStatus(context.Background(), appointment.ID, domain.AppointmentStatusCancelled))

	free, err := slots.Resolve(context.Background(), 1, "2027-03-01")
	require.NoError(t, err)
	assert.Len(t, free, 2)
}

func TestResolveDeduplicatesOverlappingRules(t *testing.T) {
	slots, availabilityRepo, _ := newSlotFixture(mexicoProfessional())

	// Пересекающиеся окна дают общего кандидата 10:00-11:00 — он
	// схлопывается в один слот.
	addRule(availabilityRepo, 1, 0, "09:00", "11:00", 60)
	addRule(availabilityRepo, 1, 0, "10:00", "12:00", 60)

	free, err := slots.Resolve(context.Background(), 1, "2027-03-01")
	require.NoError(t, err)
	require.Len(t, free, 3)
	assert.True(t, free[0].Start.Equal(localTime(t, "2027-03-01", "09:00", "America/Mexico_City")))
	assert.True(t, free[1].Start.Equal(localTime(t, "2027-03-01", "10:00", "America/Mexico_City")))
	assert.True(t, free[2].Start.Equal(localTime(t, "2027-03-01", "11:00", "America/Mexico_City")))
}

func TestResolveSortedAscending(t *testing.T) {
	slots, availabilityRepo, _ := newSlotFixture(mexicoProfessional())

	// Правила отдаются не по порядку — результат все равно по возрастанию.
	addRule(availabilityRepo, 1, 0, "15:00", "17:00", 60)
	addRule(availabilityRepo, 1, 0, "09:00", "11:00", 60)

	free, err := slots.Resolve(context.Background(), 1, "2027-03-01")
	require.NoError(t, err)
	require.Len(t, free, 4)
	for i := 1; i < len(free); i++ {
		assert.True(t, free[i-1].Start.Before(free[i].Start))
	}
}

func TestResolveSpringForwardDay(t *testing.T) {
	professional := mexicoProfessional()
	professional.Timezone = "America/New_York"
	slots, availabilityRepo, _ := newSlotFixture(professional)

	// 2027-03-14 — воскресенье перевода часов в Нью-Йорке, сутки 23 часа.
	// Смещения считаются от местной полуночи фактическим временем, поэтому
	// кандидатов ровно два и они не пересекаются.
	addRule(availabilityRepo, 1, 6, "09:00", "11:00", 60)

	free, err := slots.Resolve(context.Background(), 1, "2027-03-14")
	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.True(t, free[1].Start.Equal(free[0].End))

	dayStart, _, err := timeutil.DayBounds("2027-03-14", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour, free[0].Start.Sub(dayStart))
}

func TestResolveIdempotent(t *testing.T) {
	slots, availabilityRepo, _ := newSlotFixture(mexicoProfessional())
	addRule(availabilityRepo, 1, 0, "09:00", "12:00", 30)

	first, err := slots.Resolve(context.Background(), 1, "2027-03-01")
	require.NoError(t, err)
	second, err := slots.Resolve(context.Background(), 1, "2027-03-01")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveRange(t *testing.T) {
	slots, availabilityRepo, _ := newSlotFixture(mexicoProfessional())

	// Правило только на понедельник: в диапазоне пн-ср заполнен один день,
	// остальные присутствуют с пустыми списками.
	addRule(availabilityRepo, 1, 0, "09:00", "11:00", 60)

	byDate, err := slots.ResolveRange(context.Background(), 1, "2027-03-01", "2027-03-03")
	require.NoError(t, err)
	require.Len(t, byDate, 3)

	assert.Len(t, byDate["2027-03-01"], 2)
	assert.Empty(t, byDate["2027-03-02"])
	assert.Empty(t, byDate["2027-03-03"])
}

func TestResolveRangeInvalid(t *testing.T) {
	slots, _, _ := newSlotFixture(mexicoProfessional())

	// Конец раньше начала.
	_, err := slots.ResolveRange(context.Background(), 1, "2027-03-03", "2027-03-01")
	assert.ErrorIs(t, err, timeutil.ErrInvalidDate)

	// Диапазон шире месяца.
	_, err = slots.ResolveRange(context.Background(), 1, "2027-03-01", "2027-05-01")
	assert.ErrorIs(t, err, timeutil.ErrInvalidDate)
}

func TestResolveUnknownProfessional(t *testing.T) {
	slots, _, _ := newSlotFixture(mexicoProfessional())

	_, err := slots.Resolve(context.Background(), 99, "2027-03-01")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveInvalidDate(t *testing.T) {
	slots, _, _ := newSlotFixture(mexicoProfessional())

	_, err := slots.Resolve(context.Background(), 1, "01.03.2027")
	assert.ErrorIs(t, err, timeutil.ErrInvalidDate)
}
