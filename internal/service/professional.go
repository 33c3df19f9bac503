package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/internal/storage"
	"agenda/pkg/timeutil"
	"agenda/pkg/validator"
)

type ProfessionalServiceImpl struct {
	repo        repository.ProfessionalRepository
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
	bookingCfg  config.BookingConfig
	logger      *zap.Logger
}

func NewProfessionalService(
	repo repository.ProfessionalRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
	bookingCfg config.BookingConfig,
	logger *zap.Logger,
) *ProfessionalServiceImpl {
	return &ProfessionalServiceImpl{
		repo:        repo,
		userRepo:    userRepo,
		fileStorage: fileStorage,
		bookingCfg:  bookingCfg,
		logger:      logger,
	}
}

// generateSlug строит публичную ссылку записи: нормализованное имя плюс
// короткий случайный суффикс, чтобы тезки не конфликтовали.
func generateSlug(name string) string {
	base := validator.Slugify(name)
	if base == "" {
		base = "profesional"
	}

	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return base + "-" + suffix
}

func (s *ProfessionalServiceImpl) Create(ctx context.Context, userID int64, dto domain.CreateProfessionalDTO) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("ошибка получения пользователя", zap.Int64("userId", userID), zap.Error(err))
		return 0, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	if user.Role != domain.UserRoleProfessional {
		return 0, fmt.Errorf("%w: роль пользователя не professional", domain.ErrAccessDenied)
	}

	if existing, err := s.repo.GetByUserID(ctx, userID); err == nil && existing != nil {
		return 0, errors.New("профиль профессионала уже существует")
	}

	timezone := dto.Timezone
	if timezone == "" {
		timezone = s.bookingCfg.DefaultTimezone
	}
	if _, err := timeutil.LoadLocation(timezone); err != nil {
		return 0, err
	}

	slug := generateSlug(dto.Name)

	id, err := s.repo.Create(ctx, userID, dto.Name, dto.Specialty, slug, timezone)
	if err != nil {
		s.logger.Error("ошибка создания профессионала", zap.Error(err))
		return 0, fmt.Errorf("ошибка создания профессионала: %w", err)
	}

	return id, nil
}

func (s *ProfessionalServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	professional, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения профессионала", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения профессионала: %w", err)
	}
	return professional, nil
}

func (s *ProfessionalServiceImpl) GetByUserID(ctx context.Context, userID int64) (*domain.Professional, error) {
	professional, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения профессионала: %w", err)
	}
	return professional, nil
}

func (s *ProfessionalServiceImpl) GetBySlug(ctx context.Context, slug string) (*domain.Professional, error) {
	professional, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения профессионала: %w", err)
	}

	if !professional.IsActive {
		return nil, domain.ErrNotFound
	}

	return professional, nil
}

func (s *ProfessionalServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateProfessionalDTO) error {
	if dto.Timezone != nil {
		if _, err := timeutil.LoadLocation(*dto.Timezone); err != nil {
			return err
		}
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.logger.Error("ошибка обновления профессионала", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка обновления профессионала: %w", err)
	}
	return nil
}

func (s *ProfessionalServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления профессионала", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка удаления профессионала: %w", err)
	}
	return nil
}

func (s *ProfessionalServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.Professional, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	professionals, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка профессионалов", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения списка профессионалов: %w", err)
	}
	return professionals, nil
}

func (s *ProfessionalServiceImpl) UploadProfilePhoto(ctx context.Context, professionalID int64, photo []byte, filename string) error {
	professional, err := s.repo.GetByID(ctx, professionalID)
	if err != nil {
		return fmt.Errorf("ошибка получения профессионала: %w", err)
	}

	url, err := s.fileStorage.UploadFile(ctx, photo, filename)
	if err != nil {
		s.logger.Error("ошибка загрузки фото", zap.Int64("id", professionalID), zap.Error(err))
		return fmt.Errorf("ошибка загрузки фото: %w", err)
	}

	if professional.ProfilePhotoURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, professional.ProfilePhotoURL); err != nil {
			s.logger.Warn("не удалось удалить старое фото", zap.Error(err))
		}
	}

	if err := s.repo.UpdateProfilePhoto(ctx, professionalID, url); err != nil {
		s.logger.Error("ошибка сохранения URL фото", zap.Int64("id", professionalID), zap.Error(err))
		return fmt.Errorf("ошибка сохранения URL фото: %w", err)
	}

	return nil
}

func (s *ProfessionalServiceImpl) DeleteProfilePhoto(ctx context.Context, professionalID int64) error {
	professional, err := s.repo.GetByID(ctx, professionalID)
	if err != nil {
		return fmt.Errorf("ошибка получения профессионала: %w", err)
	}

	if professional.ProfilePhotoURL == "" {
		return nil
	}

	if err := s.fileStorage.DeleteFile(ctx, professional.ProfilePhotoURL); err != nil {
		s.logger.Warn("не удалось удалить фото из хранилища", zap.Error(err))
	}

	if err := s.repo.UpdateProfilePhoto(ctx, professionalID, ""); err != nil {
		return fmt.Errorf("ошибка очистки URL фото: %w", err)
	}

	return nil
}
