package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/timeutil"
)

type SubscriptionServiceImpl struct {
	repo             repository.SubscriptionRepository
	professionalRepo repository.ProfessionalRepository
	eventRepo        repository.EventRepository
	notificationRepo repository.NotificationRepository
	logger           *zap.Logger
}

func NewSubscriptionService(
	repo repository.SubscriptionRepository,
	professionalRepo repository.ProfessionalRepository,
	eventRepo repository.EventRepository,
	notificationRepo repository.NotificationRepository,
	logger *zap.Logger,
) *SubscriptionServiceImpl {
	return &SubscriptionServiceImpl{
		repo:             repo,
		professionalRepo: professionalRepo,
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

func (s *SubscriptionServiceImpl) Activate(ctx context.Context, dto domain.ActivateSubscriptionDTO) (int64, error) {
	professional, err := s.professionalRepo.GetByID(ctx, dto.ProfessionalID)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения профессионала: %w", err)
	}

	start, err := timeutil.ParseDate(dto.StartDate)
	if err != nil {
		return 0, err
	}

	end, err := timeutil.ParseDate(dto.EndDate)
	if err != nil {
		return 0, err
	}

	if !start.Before(end) {
		return 0, errors.New("начало подписки должно быть раньше окончания")
	}

	id, err := s.repo.Create(ctx, dto.ProfessionalID, start, end)
	if err != nil {
		s.logger.Error("ошибка активации подписки", zap.Error(err))
		return 0, fmt.Errorf("ошибка активации подписки: %w", err)
	}

	if err := s.eventRepo.Create(ctx, domain.EventSubscriptionActivated, dto.ProfessionalID, &id); err != nil {
		s.logger.Warn("не удалось записать событие активации подписки", zap.Error(err))
	}

	content := fmt.Sprintf("Подписка активна до %s. Чат с пациентами открыт.", dto.EndDate)
	if err := s.notificationRepo.Create(ctx, professional.UserID, domain.NotificationSubscriptionActive, content); err != nil {
		s.logger.Warn("не удалось создать уведомление о подписке", zap.Error(err))
	}

	return id, nil
}

func (s *SubscriptionServiceImpl) HasActive(ctx context.Context, professionalID int64) (bool, error) {
	active, err := s.repo.HasActive(ctx, professionalID, time.Now())
	if err != nil {
		return false, fmt.Errorf("ошибка проверки подписки: %w", err)
	}
	return active, nil
}

func (s *SubscriptionServiceImpl) ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Subscription, error) {
	subscriptions, err := s.repo.ListByProfessional(ctx, professionalID)
	if err != nil {
		s.logger.Error("ошибка получения подписок", zap.Int64("professionalId", professionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения подписок: %w", err)
	}
	return subscriptions, nil
}

type MetricsServiceImpl struct {
	eventRepo        repository.EventRepository
	subscriptionRepo repository.SubscriptionRepository
	logger           *zap.Logger
}

func NewMetricsService(eventRepo repository.EventRepository, subscriptionRepo repository.SubscriptionRepository, logger *zap.Logger) *MetricsServiceImpl {
	return &MetricsServiceImpl{
		eventRepo:        eventRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (s *MetricsServiceImpl) Summary(ctx context.Context, professionalID int64) (*domain.MetricsSummary, error) {
	counts, err := s.eventRepo.CountByProfessional(ctx, professionalID)
	if err != nil {
		s.logger.Error("ошибка подсчета событий", zap.Int64("professionalId", professionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка подсчета событий: %w", err)
	}

	active, err := s.subscriptionRepo.HasActive(ctx, professionalID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки подписки: %w", err)
	}

	return &domain.MetricsSummary{
		AppointmentsForm:      counts[domain.EventAppointmentCreatedForm],
		AppointmentsChat:      counts[domain.EventAppointmentCreatedChat],
		AppointmentsCancelled: counts[domain.EventAppointmentCancelled],
		SubscriptionsActive:   counts[domain.EventSubscriptionActivated],
		HasActiveSubscription: active,
	}, nil
}
