package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/timeutil"
)

type AvailabilityServiceImpl struct {
	repo             repository.AvailabilityRepository
	professionalRepo repository.ProfessionalRepository
	bookingCfg       config.BookingConfig
	logger           *zap.Logger
}

func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	professionalRepo repository.ProfessionalRepository,
	bookingCfg config.BookingConfig,
	logger *zap.Logger,
) *AvailabilityServiceImpl {
	return &AvailabilityServiceImpl{
		repo:             repo,
		professionalRepo: professionalRepo,
		bookingCfg:       bookingCfg,
		logger:           logger,
	}
}

// validateRuleWindow проверяет окно правила: корректные HH:MM, начало раньше
// конца и хотя бы один слот целиком умещается в окно.
func (s *AvailabilityServiceImpl) validateRuleWindow(startTime, endTime string, slotDurationMin int) error {
	startMin, err := timeutil.MinutesOfDay(startTime)
	if err != nil {
		return err
	}

	endMin, err := timeutil.MinutesOfDay(endTime)
	if err != nil {
		return err
	}

	if startMin >= endMin {
		return errors.New("время начала должно быть раньше времени окончания")
	}

	if slotDurationMin < s.bookingCfg.MinSlotMinutes || slotDurationMin > s.bookingCfg.MaxSlotMinutes {
		return fmt.Errorf("длительность слота должна быть от %d до %d минут",
			s.bookingCfg.MinSlotMinutes, s.bookingCfg.MaxSlotMinutes)
	}

	if startMin+slotDurationMin > endMin {
		return errors.New("в окно доступности не помещается ни один слот")
	}

	return nil
}

func (s *AvailabilityServiceImpl) CreateRule(ctx context.Context, professionalID int64, dto domain.CreateAvailabilityRuleDTO) (int64, error) {
	if _, err := s.professionalRepo.GetByID(ctx, professionalID); err != nil {
		return 0, fmt.Errorf("ошибка получения профессионала: %w", err)
	}

	if dto.Weekday < domain.WeekdayMin || dto.Weekday > domain.WeekdayMax {
		return 0, errors.New("день недели должен быть от 0 (понедельник) до 6 (воскресенье)")
	}

	if err := s.validateRuleWindow(dto.StartTime, dto.EndTime, dto.SlotDurationMin); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateRule(ctx, professionalID, dto)
	if err != nil {
		s.logger.Error("ошибка создания правила доступности", zap.Error(err))
		return 0, fmt.Errorf("ошибка создания правила доступности: %w", err)
	}

	return id, nil
}

func (s *AvailabilityServiceImpl) UpdateRule(ctx context.Context, professionalID, ruleID int64, dto domain.UpdateAvailabilityRuleDTO) error {
	rule, err := s.repo.GetRuleByID(ctx, ruleID)
	if err != nil {
		return fmt.Errorf("ошибка получения правила: %w", err)
	}

	if rule.ProfessionalID != professionalID {
		return fmt.Errorf("%w: правило принадлежит другому профессионалу", domain.ErrAccessDenied)
	}

	startTime := rule.StartTime
	if dto.StartTime != nil {
		startTime = *dto.StartTime
	}
	endTime := rule.EndTime
	if dto.EndTime != nil {
		endTime = *dto.EndTime
	}
	slotDuration := rule.SlotDurationMin
	if dto.SlotDurationMin != nil {
		slotDuration = *dto.SlotDurationMin
	}

	if dto.Weekday != nil && (*dto.Weekday < domain.WeekdayMin || *dto.Weekday > domain.WeekdayMax) {
		return errors.New("день недели должен быть от 0 (понедельник) до 6 (воскресенье)")
	}

	if err := s.validateRuleWindow(startTime, endTime, slotDuration); err != nil {
		return err
	}

	if err := s.repo.UpdateRule(ctx, ruleID, dto); err != nil {
		s.logger.Error("ошибка обновления правила", zap.Int64("id", ruleID), zap.Error(err))
		return fmt.Errorf("ошибка обновления правила: %w", err)
	}

	return nil
}

func (s *AvailabilityServiceImpl) DeleteRule(ctx context.Context, professionalID, ruleID int64) error {
	rule, err := s.repo.GetRuleByID(ctx, ruleID)
	if err != nil {
		return fmt.Errorf("ошибка получения правила: %w", err)
	}

	if rule.ProfessionalID != professionalID {
		return fmt.Errorf("%w: правило принадлежит другому профессионалу", domain.ErrAccessDenied)
	}

	if err := s.repo.DeleteRule(ctx, ruleID); err != nil {
		s.logger.Error("ошибка удаления правила", zap.Int64("id", ruleID), zap.Error(err))
		return fmt.Errorf("ошибка удаления правила: %w", err)
	}

	return nil
}

func (s *AvailabilityServiceImpl) ListRules(ctx context.Context, professionalID int64) ([]domain.AvailabilityRule, error) {
	rules, err := s.repo.ListRules(ctx, professionalID)
	if err != nil {
		s.logger.Error("ошибка получения правил", zap.Int64("professionalId", professionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения правил: %w", err)
	}
	return rules, nil
}

func (s *AvailabilityServiceImpl) CreateBlackout(ctx context.Context, professionalID int64, dto domain.CreateBlackoutDTO) (int64, error) {
	if _, err := s.professionalRepo.GetByID(ctx, professionalID); err != nil {
		return 0, fmt.Errorf("ошибка получения профессионала: %w", err)
	}

	if !dto.StartAt.Before(dto.EndAt) {
		return 0, errors.New("начало блокировки должно быть раньше окончания")
	}

	id, err := s.repo.CreateBlackout(ctx, professionalID, dto)
	if err != nil {
		s.logger.Error("ошибка создания блокировки", zap.Error(err))
		return 0, fmt.Errorf("ошибка создания блокировки: %w", err)
	}

	return id, nil
}

func (s *AvailabilityServiceImpl) DeleteBlackout(ctx context.Context, professionalID, blackoutID int64) error {
	blackout, err := s.repo.GetBlackoutByID(ctx, blackoutID)
	if err != nil {
		return fmt.Errorf("ошибка получения блокировки: %w", err)
	}

	if blackout.ProfessionalID != professionalID {
		return fmt.Errorf("%w: блокировка принадлежит другому профессионалу", domain.ErrAccessDenied)
	}

	if err := s.repo.DeleteBlackout(ctx, blackoutID); err != nil {
		s.logger.Error("ошибка удаления блокировки", zap.Int64("id", blackoutID), zap.Error(err))
		return fmt.Errorf("ошибка удаления блокировки: %w", err)
	}

	return nil
}

func (s *AvailabilityServiceImpl) ListBlackouts(ctx context.Context, professionalID int64) ([]domain.BlackoutPeriod, error) {
	blackouts, err := s.repo.ListBlackouts(ctx, professionalID)
	if err != nil {
		s.logger.Error("ошибка получения блокировок", zap.Int64("professionalId", professionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения блокировок: %w", err)
	}
	return blackouts, nil
}
