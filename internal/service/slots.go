package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/timeutil"
)

type SlotServiceImpl struct {
	availabilityRepo repository.AvailabilityRepository
	appointmentRepo  repository.AppointmentRepository
	professionalRepo repository.ProfessionalRepository
	logger           *zap.Logger
}

func NewSlotService(
	availabilityRepo repository.AvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
	professionalRepo repository.ProfessionalRepository,
	logger *zap.Logger,
) *SlotServiceImpl {
	return &SlotServiceImpl{
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		professionalRepo: professionalRepo,
		logger:           logger,
	}
}

// Resolve считает свободные слоты профессионала на местную дату.
//
// Сутки берутся в таймзоне профессионала, кандидаты - это смещения в минутах
// от местной полуночи. В дни перевода часов смещения остаются фактическим
// прошедшим временем, так что дубликатов и пересечений между кандидатами не
// бывает. Занятость проверяется полуоткрытыми интервалами [start, end):
// блокировка, начинающаяся ровно в конце слота, его не гасит.
func (s *SlotServiceImpl) Resolve(ctx context.Context, professionalID int64, date string) ([]domain.Slot, error) {
	professional, err := s.professionalRepo.GetByID(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения профессионала: %w", err)
	}

	dayStart, dayEnd, err := timeutil.DayBounds(date, professional.Timezone)
	if err != nil {
		return nil, err
	}

	weekday, err := timeutil.WeekdayOfDate(date, professional.Timezone)
	if err != nil {
		return nil, err
	}

	rules, err := s.availabilityRepo.ListRulesByWeekday(ctx, professionalID, weekday)
	if err != nil {
		s.logger.Error("ошибка получения правил доступности", zap.Int64("professionalId", professionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения правил доступности: %w", err)
	}

	if len(rules) == 0 {
		return []domain.Slot{}, nil
	}

	busy, err := s.collectBusy(ctx, professionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	slots := expandRules(rules, dayStart, busy)

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	return slots, nil
}

// maxRangeDays ограничивает размер диапазона календарного вида.
const maxRangeDays = 31

// ResolveRange считает слоты на каждый день диапазона [from, to]
// включительно и возвращает их по датам.
func (s *SlotServiceImpl) ResolveRange(ctx context.Context, professionalID int64, from, to string) (map[string][]domain.Slot, error) {
	start, err := timeutil.ParseDate(from)
	if err != nil {
		return nil, err
	}

	end, err := timeutil.ParseDate(to)
	if err != nil {
		return nil, err
	}

	if end.Before(start) {
		return nil, fmt.Errorf("%w: конец диапазона раньше начала", timeutil.ErrInvalidDate)
	}

	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: диапазон больше %d дней", timeutil.ErrInvalidDate, maxRangeDays)
	}

	result := make(map[string][]domain.Slot)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(timeutil.DateLayout)
		slots, err := s.Resolve(ctx, professionalID, date)
		if err != nil {
			return nil, err
		}
		result[date] = slots
	}

	return result, nil
}

// collectBusy собирает занятые интервалы дня: блокировки и неотмененные
// записи, пересекающие [dayStart, dayEnd).
func (s *SlotServiceImpl) collectBusy(ctx context.Context, professionalID int64, dayStart, dayEnd time.Time) ([]domain.Interval, error) {
	blackouts, err := s.availabilityRepo.ListBlackoutsInRange(ctx, professionalID, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("ошибка получения блокировок", zap.Int64("professionalId", professionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения блокировок: %w", err)
	}

	occupied, err := s.appointmentRepo.ListOccupied(ctx, professionalID, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("ошибка получения занятых интервалов", zap.Int64("professionalId", professionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения занятых интервалов: %w", err)
	}

	busy := make([]domain.Interval, 0, len(blackouts)+len(occupied))
	for _, b := range blackouts {
		busy = append(busy, domain.Interval{Start: b.StartAt, End: b.EndAt})
	}
	busy = append(busy, occupied...)

	return busy, nil
}

// expandRules разворачивает правила в кандидатов и отбрасывает занятых.
// Последний слот обязан целиком уместиться до конца окна. Совпадающие
// кандидаты из пересекающихся правил схлопываются в один.
func expandRules(rules []domain.AvailabilityRule, dayStart time.Time, busy []domain.Interval) []domain.Slot {
	seen := make(map[domain.Slot]bool)
	slots := make([]domain.Slot, 0)

	for _, rule := range rules {
		startMin, err := timeutil.MinutesOfDay(rule.StartTime)
		if err != nil {
			continue
		}
		endMin, err := timeutil.MinutesOfDay(rule.EndTime)
		if err != nil {
			continue
		}
		if rule.SlotDurationMin <= 0 {
			continue
		}

		for m := startMin; m+rule.SlotDurationMin <= endMin; m += rule.SlotDurationMin {
			slot := domain.Slot{
				Start: timeutil.AddMinutes(dayStart, m),
				End:   timeutil.AddMinutes(dayStart, m+rule.SlotDurationMin),
			}

			if seen[slot] {
				continue
			}

			if overlapsAny(slot.Start, slot.End, busy) {
				continue
			}

			seen[slot] = true
			slots = append(slots, slot)
		}
	}

	return slots
}

func overlapsAny(start, end time.Time, busy []domain.Interval) bool {
	for _, iv := range busy {
		if timeutil.Overlaps(start, end, iv.Start, iv.End) {
			return true
		}
	}
	return false
}
