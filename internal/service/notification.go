package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
)

type NotificationServiceImpl struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, logger *zap.Logger) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *NotificationServiceImpl) List(ctx context.Context, userID int64, onlyUnread bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	notifications, err := s.repo.ListByUser(ctx, userID, onlyUnread, limit)
	if err != nil {
		s.logger.Error("ошибка получения уведомлений", zap.Int64("userId", userID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения уведомлений: %w", err)
	}
	return notifications, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id, userID int64) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("ошибка пометки уведомления: %w", err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		s.logger.Error("ошибка пометки уведомлений", zap.Int64("userId", userID), zap.Error(err))
		return fmt.Errorf("ошибка пометки уведомлений: %w", err)
	}
	return nil
}
