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

type AppointmentServiceImpl struct {
	repo             repository.AppointmentRepository
	professionalRepo repository.ProfessionalRepository
	patientRepo      repository.PatientRepository
	notificationRepo repository.NotificationRepository
	eventRepo        repository.EventRepository
	slots            SlotService
	logger           *zap.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	professionalRepo repository.ProfessionalRepository,
	patientRepo repository.PatientRepository,
	notificationRepo repository.NotificationRepository,
	eventRepo repository.EventRepository,
	slots SlotService,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:             repo,
		professionalRepo: professionalRepo,
		patientRepo:      patientRepo,
		notificationRepo: notificationRepo,
		eventRepo:        eventRepo,
		slots:            slots,
		logger:           logger,
	}
}

// Create бронирует слот. Запрошенный интервал должен совпасть с одним из
// свободных слотов на дату; финальный арбитр двойного бронирования -
// exclusion-ограничение в БД, так что проверка здесь лишь дает понятную
// ошибку до вставки.
func (s *AppointmentServiceImpl) Create(ctx context.Context, patientID int64, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	professional, err := s.professionalRepo.GetByID(ctx, dto.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения профессионала: %w", err)
	}

	if !professional.IsActive {
		return nil, domain.ErrNotFound
	}

	patient, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пациента: %w", err)
	}

	if !dto.StartAt.Before(dto.EndAt) {
		return nil, errors.New("начало записи должно быть раньше окончания")
	}

	if dto.StartAt.Before(time.Now()) {
		return nil, errors.New("нельзя записаться в прошлое")
	}

	loc, err := timeutil.LoadLocation(professional.Timezone)
	if err != nil {
		return nil, err
	}

	date := dto.StartAt.In(loc).Format(timeutil.DateLayout)
	free, err := s.slots.Resolve(ctx, dto.ProfessionalID, date)
	if err != nil {
		return nil, err
	}

	if !slotOffered(free, dto.StartAt, dto.EndAt) {
		return nil, fmt.Errorf("интервал не совпадает со свободным слотом: %w", domain.ErrSlotConflict)
	}

	appointment, err := s.repo.Create(ctx, patientID, dto)
	if err != nil {
		if !errors.Is(err, domain.ErrSlotConflict) {
			s.logger.Error("ошибка создания записи", zap.Error(err))
		}
		return nil, err
	}

	s.recordCreation(ctx, appointment, professional, patient)

	return appointment, nil
}

func slotOffered(free []domain.Slot, start, end time.Time) bool {
	for _, slot := range free {
		if slot.Start.Equal(start) && slot.End.Equal(end) {
			return true
		}
	}
	return false
}

// recordCreation пишет событие метрик и уведомления. Best-effort: запись
// уже создана, сбои здесь только логируются.
func (s *AppointmentServiceImpl) recordCreation(ctx context.Context, appointment *domain.Appointment, professional *domain.Professional, patient *domain.Patient) {
	event := domain.EventAppointmentCreatedForm
	if appointment.Origin == domain.AppointmentOriginChat {
		event = domain.EventAppointmentCreatedChat
	}

	if err := s.eventRepo.Create(ctx, event, professional.ID, &appointment.ID); err != nil {
		s.logger.Warn("не удалось записать событие создания", zap.Error(err))
	}

	content := fmt.Sprintf("Новая запись: %s, %s", patient.Name, appointment.StartAt.Format(time.RFC3339))
	if err := s.notificationRepo.Create(ctx, professional.UserID, domain.NotificationAppointmentCreated, content); err != nil {
		s.logger.Warn("не удалось создать уведомление профессионалу", zap.Error(err))
	}

	content = fmt.Sprintf("Запись подтверждена: %s, %s", professional.Name, appointment.StartAt.Format(time.RFC3339))
	if err := s.notificationRepo.Create(ctx, patient.UserID, domain.NotificationAppointmentCreated, content); err != nil {
		s.logger.Warn("не удалось создать уведомление пациенту", zap.Error(err))
	}
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}
	return appointment, nil
}

func (s *AppointmentServiceImpl) Cancel(ctx context.Context, id, userID int64, role domain.UserRole) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ошибка получения записи: %w", err)
	}

	if err := s.authorize(ctx, appointment, userID, role); err != nil {
		return err
	}

	if appointment.Status != domain.AppointmentStatusScheduled {
		return errors.New("отменить можно только запланированную запись")
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.AppointmentStatusCancelled); err != nil {
		s.logger.Error("ошибка отмены записи", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка отмены записи: %w", err)
	}

	if err := s.eventRepo.Create(ctx, domain.EventAppointmentCancelled, appointment.ProfessionalID, &appointment.ID); err != nil {
		s.logger.Warn("не удалось записать событие отмены", zap.Error(err))
	}

	s.notifyCancellation(ctx, appointment)

	return nil
}

func (s *AppointmentServiceImpl) notifyCancellation(ctx context.Context, appointment *domain.Appointment) {
	content := fmt.Sprintf("Запись на %s отменена", appointment.StartAt.Format(time.RFC3339))

	if professional, err := s.professionalRepo.GetByID(ctx, appointment.ProfessionalID); err == nil {
		if err := s.notificationRepo.Create(ctx, professional.UserID, domain.NotificationAppointmentCancelled, content); err != nil {
			s.logger.Warn("не удалось создать уведомление профессионалу", zap.Error(err))
		}
	}

	if patient, err := s.patientRepo.GetByID(ctx, appointment.PatientID); err == nil {
		if err := s.notificationRepo.Create(ctx, patient.UserID, domain.NotificationAppointmentCancelled, content); err != nil {
			s.logger.Warn("не удалось создать уведомление пациенту", zap.Error(err))
		}
	}
}

func (s *AppointmentServiceImpl) Complete(ctx context.Context, id, userID int64) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ошибка получения записи: %w", err)
	}

	professional, err := s.professionalRepo.GetByUserID(ctx, userID)
	if err != nil || professional.ID != appointment.ProfessionalID {
		return fmt.Errorf("%w: запись принадлежит другому профессионалу", domain.ErrAccessDenied)
	}

	if appointment.Status != domain.AppointmentStatusScheduled {
		return errors.New("завершить можно только запланированную запись")
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.AppointmentStatusCompleted); err != nil {
		s.logger.Error("ошибка завершения записи", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка завершения записи: %w", err)
	}

	return nil
}

func (s *AppointmentServiceImpl) authorize(ctx context.Context, appointment *domain.Appointment, userID int64, role domain.UserRole) error {
	switch role {
	case domain.UserRoleAdmin:
		return nil
	case domain.UserRolePatient:
		patient, err := s.patientRepo.GetByUserID(ctx, userID)
		if err != nil || patient.ID != appointment.PatientID {
			return fmt.Errorf("%w: чужая запись", domain.ErrAccessDenied)
		}
		return nil
	case domain.UserRoleProfessional:
		professional, err := s.professionalRepo.GetByUserID(ctx, userID)
		if err != nil || professional.ID != appointment.ProfessionalID {
			return fmt.Errorf("%w: чужая запись", domain.ErrAccessDenied)
		}
		return nil
	default:
		return domain.ErrAccessDenied
	}
}

func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка записей", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка получения списка записей: %w", err)
	}

	total, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка подсчета записей", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	return appointments, total, nil
}
