package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/validator"
)

type PatientServiceImpl struct {
	repo     repository.PatientRepository
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewPatientService(repo repository.PatientRepository, userRepo repository.UserRepository, logger *zap.Logger) *PatientServiceImpl {
	return &PatientServiceImpl{
		repo:     repo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *PatientServiceImpl) Create(ctx context.Context, userID int64, dto domain.CreatePatientDTO) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	if user.Role != domain.UserRolePatient {
		return 0, fmt.Errorf("%w: роль пользователя не patient", domain.ErrAccessDenied)
	}

	if existing, err := s.repo.GetByUserID(ctx, userID); err == nil && existing != nil {
		return 0, errors.New("профиль пациента уже существует")
	}

	if dto.Phone != "" {
		if !validator.ValidatePhone(dto.Phone) {
			return 0, errors.New("неверный формат телефона")
		}
		dto.Phone = validator.FormatPhone(dto.Phone)
	}

	id, err := s.repo.Create(ctx, userID, dto)
	if err != nil {
		s.logger.Error("ошибка создания пациента", zap.Error(err))
		return 0, fmt.Errorf("ошибка создания пациента: %w", err)
	}

	return id, nil
}

func (s *PatientServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	patient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пациента: %w", err)
	}
	return patient, nil
}

func (s *PatientServiceImpl) GetByUserID(ctx context.Context, userID int64) (*domain.Patient, error) {
	patient, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пациента: %w", err)
	}
	return patient, nil
}

func (s *PatientServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdatePatientDTO) error {
	if dto.Phone != nil {
		if !validator.ValidatePhone(*dto.Phone) {
			return errors.New("неверный формат телефона")
		}
		formatted := validator.FormatPhone(*dto.Phone)
		dto.Phone = &formatted
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.logger.Error("ошибка обновления пациента", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка обновления пациента: %w", err)
	}
	return nil
}
