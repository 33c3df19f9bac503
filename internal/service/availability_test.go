package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/domain"
	"agenda/pkg/timeutil"
)

func newAvailabilityFixture() (*AvailabilityServiceImpl, *stubAvailabilityRepo) {
	availabilityRepo := &stubAvailabilityRepo{}
	professionalRepo := newStubProfessionalRepo(mexicoProfessional())
	bookingCfg := config.BookingConfig{
		DefaultTimezone: "America/Mexico_City",
		MinSlotMinutes:  5,
		MaxSlotMinutes:  240,
	}
	service := NewAvailabilityService(availabilityRepo, professionalRepo, bookingCfg, zap.NewNop())
	return service, availabilityRepo
}

func TestCreateRule(t *testing.T) {
	service, _ := newAvailabilityFixture()

	id, err := service.CreateRule(context.Background(), 1, domain.CreateAvailabilityRuleDTO{
		Weekday:         0,
		StartTime:       "09:00",
		EndTime:         "13:00",
		SlotDurationMin: 30,
	})
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestCreateRuleValidation(t *testing.T) {
	service, _ := newAvailabilityFixture()

	tests := []struct {
		name string
		dto  domain.CreateAvailabilityRuleDTO
	}{
		{
			name: "начало позже окончания",
			dto:  domain.CreateAvailabilityRuleDTO{Weekday: 0, StartTime: "13:00", EndTime: "09:00", SlotDurationMin: 30},
		},
		{
			name: "начало равно окончанию",
			dto:  domain.CreateAvailabilityRuleDTO{Weekday: 0, StartTime: "09:00", EndTime: "09:00", SlotDurationMin: 30},
		},
		{
			name: "слот не помещается в окно",
			dto:  domain.CreateAvailabilityRuleDTO{Weekday: 0, StartTime: "09:00", EndTime: "09:30", SlotDurationMin: 60},
		},
		{
			name: "слишком короткий слот",
			dto:  domain.CreateAvailabilityRuleDTO{Weekday: 0, StartTime: "09:00", EndTime: "13:00", SlotDurationMin: 1},
		},
		{
			name: "слишком длинный слот",
			dto:  domain.CreateAvailabilityRuleDTO{Weekday: 0, StartTime: "08:00", EndTime: "20:00", SlotDurationMin: 300},
		},
		{
			name: "день недели вне диапазона",
			dto:  domain.CreateAvailabilityRuleDTO{Weekday: 7, StartTime: "09:00", EndTime: "13:00", SlotDurationMin: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateRule(context.Background(), 1, tt.dto)
			assert.Error(t, err)
		})
	}
}

func TestCreateRuleInvalidTimeFormat(t *testing.T) {
	service, _ := newAvailabilityFixture()

	_, err := service.CreateRule(context.Background(), 1, domain.CreateAvailabilityRuleDTO{
		Weekday:         0,
		StartTime:       "9am",
		EndTime:         "13:00",
		SlotDurationMin: 30,
	})
	assert.ErrorIs(t, err, timeutil.ErrInvalidTime)
}

func TestUpdateRuleRevalidatesMergedWindow(t *testing.T) {
	service, _ := newAvailabilityFixture()

	id, err := service.CreateRule(context.Background(), 1, domain.CreateAvailabilityRuleDTO{
		Weekday:         0,
		StartTime:       "09:00",
		EndTime:         "10:00",
		SlotDurationMin: 30,
	})
	require.NoError(t, err)

	// Новая длительность не помещается в прежнее окно 09:00-10:00.
	duration := 90
	err = service.UpdateRule(context.Background(), 1, id, domain.UpdateAvailabilityRuleDTO{
		SlotDurationMin: &duration,
	})
	assert.Error(t, err)

	// Вместе с расширением окна — проходит.
	endTime := "12:00"
	err = service.UpdateRule(context.Background(), 1, id, domain.UpdateAvailabilityRuleDTO{
		EndTime:         &endTime,
		SlotDurationMin: &duration,
	})
	assert.NoError(t, err)
}

func TestUpdateRuleForeignProfessional(t *testing.T) {
	service, _ := newAvailabilityFixture()

	id, err := service.CreateRule(context.Background(), 1, domain.CreateAvailabilityRuleDTO{
		Weekday:         0,
		StartTime:       "09:00",
		EndTime:         "13:00",
		SlotDurationMin: 30,
	})
	require.NoError(t, err)

	endTime := "14:00"
	err = service.UpdateRule(context.Background(), 2, id, domain.UpdateAvailabilityRuleDTO{EndTime: &endTime})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestDeleteRuleForeignProfessional(t *testing.T) {
	service, _ := newAvailabilityFixture()

	id, err := service.CreateRule(context.Background(), 1, domain.CreateAvailabilityRuleDTO{
		Weekday:         0,
		StartTime:       "09:00",
		EndTime:         "13:00",
		SlotDurationMin: 30,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, service.DeleteRule(context.Background(), 2, id), domain.ErrAccessDenied)
	assert.NoError(t, service.DeleteRule(context.Background(), 1, id))
}

func TestCreateBlackoutInvertedInterval(t *testing.T) {
	service, _ := newAvailabilityFixture()

	start := time.Date(2027, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := service.CreateBlackout(context.Background(), 1, domain.CreateBlackoutDTO{
		StartAt: start,
		EndAt:   start.Add(-time.Hour),
	})
	assert.Error(t, err)
}

func TestCreateBlackoutWithoutReason(t *testing.T) {
	service, repo := newAvailabilityFixture()

	// Причина необязательна: блокировка без нее создается и читается.
	start := time.Date(2027, 3, 1, 10, 0, 0, 0, time.UTC)
	id, err := service.CreateBlackout(context.Background(), 1, domain.CreateBlackoutDTO{
		StartAt: start,
		EndAt:   start.Add(time.Hour),
		Reason:  nil,
	})
	require.NoError(t, err)

	blackout, err := repo.GetBlackoutByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, blackout.Reason)
}

func TestDeleteBlackoutForeignProfessional(t *testing.T) {
	service, _ := newAvailabilityFixture()

	start := time.Date(2027, 3, 1, 10, 0, 0, 0, time.UTC)
	id, err := service.CreateBlackout(context.Background(), 1, domain.CreateBlackoutDTO{
		StartAt: start,
		EndAt:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, service.DeleteBlackout(context.Background(), 2, id), domain.ErrAccessDenied)
}
