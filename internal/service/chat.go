package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/timeutil"
)

type ChatServiceImpl struct {
	repo             repository.ChatRepository
	subscriptionRepo repository.SubscriptionRepository
	professionalRepo repository.ProfessionalRepository
	patientRepo      repository.PatientRepository
	slots            SlotService
	appointments     AppointmentService
	logger           *zap.Logger
}

func NewChatService(
	repo repository.ChatRepository,
	subscriptionRepo repository.SubscriptionRepository,
	professionalRepo repository.ProfessionalRepository,
	patientRepo repository.PatientRepository,
	slots SlotService,
	appointments AppointmentService,
	logger *zap.Logger,
) *ChatServiceImpl {
	return &ChatServiceImpl{
		repo:             repo,
		subscriptionRepo: subscriptionRepo,
		professionalRepo: professionalRepo,
		patientRepo:      patientRepo,
		slots:            slots,
		appointments:     appointments,
		logger:           logger,
	}
}

// requireSubscription проверяет, что чат профессионала оплачен. Без активной
// подписки чат закрыт для всех участников.
func (s *ChatServiceImpl) requireSubscription(ctx context.Context, professionalID int64) error {
	active, err := s.subscriptionRepo.HasActive(ctx, professionalID, time.Now())
	if err != nil {
		s.logger.Error("ошибка проверки подписки", zap.Int64("professionalId", professionalID), zap.Error(err))
		return fmt.Errorf("ошибка проверки подписки: %w", err)
	}

	if !active {
		return domain.ErrChatUnavailable
	}

	return nil
}

func (s *ChatServiceImpl) GetOrCreate(ctx context.Context, patientID, professionalID int64) (*domain.Chat, error) {
	professional, err := s.professionalRepo.GetByID(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения профессионала: %w", err)
	}

	if !professional.IsActive {
		return nil, domain.ErrNotFound
	}

	if err := s.requireSubscription(ctx, professionalID); err != nil {
		return nil, err
	}

	chat, err := s.repo.GetByParticipants(ctx, professionalID, patientID)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("ошибка получения чата: %w", err)
	}

	chat, err = s.repo.Create(ctx, professionalID, patientID)
	if err != nil {
		s.logger.Error("ошибка создания чата", zap.Error(err))
		return nil, fmt.Errorf("ошибка создания чата: %w", err)
	}

	welcome := fmt.Sprintf("Здравствуйте! Это чат записи к %s. Напишите желаемую дату (ГГГГ-ММ-ДД), и я предложу свободные слоты.", professional.Name)
	if _, err := s.repo.CreateMessage(ctx, chat.ID, domain.ChatSenderSystem, welcome); err != nil {
		s.logger.Warn("не удалось создать приветственное сообщение", zap.Error(err))
	}

	return chat, nil
}

func (s *ChatServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Chat, error) {
	chat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения чата: %w", err)
	}
	return chat, nil
}

func (s *ChatServiceImpl) ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Chat, error) {
	chats, err := s.repo.ListByProfessional(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения чатов: %w", err)
	}
	return chats, nil
}

func (s *ChatServiceImpl) ListByPatient(ctx context.Context, patientID int64) ([]domain.Chat, error) {
	chats, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения чатов: %w", err)
	}
	return chats, nil
}

func (s *ChatServiceImpl) SendMessage(ctx context.Context, chatID int64, sender domain.ChatSender, dto domain.SendMessageDTO) (*domain.ChatMessage, error) {
	chat, err := s.repo.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения чата: %w", err)
	}

	if err := s.requireSubscription(ctx, chat.ProfessionalID); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(dto.Text)
	if text == "" {
		return nil, errors.New("пустое сообщение")
	}

	message, err := s.repo.CreateMessage(ctx, chatID, sender, text)
	if err != nil {
		s.logger.Error("ошибка отправки сообщения", zap.Int64("chatId", chatID), zap.Error(err))
		return nil, fmt.Errorf("ошибка отправки сообщения: %w", err)
	}

	return message, nil
}

func (s *ChatServiceImpl) ListMessages(ctx context.Context, chatID int64, reader domain.ChatSender) ([]domain.ChatMessage, error) {
	messages, err := s.repo.ListMessages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сообщений: %w", err)
	}

	if err := s.repo.MarkMessagesRead(ctx, chatID, reader); err != nil {
		s.logger.Warn("не удалось пометить сообщения прочитанными", zap.Int64("chatId", chatID), zap.Error(err))
	}

	return messages, nil
}

// SuggestSlots публикует в чат системное сообщение со свободными слотами
// на дату и возвращает их вызывающему.
func (s *ChatServiceImpl) SuggestSlots(ctx context.Context, chatID int64, date string) ([]domain.Slot, error) {
	chat, err := s.repo.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения чата: %w", err)
	}

	if err := s.requireSubscription(ctx, chat.ProfessionalID); err != nil {
		return nil, err
	}

	professional, err := s.professionalRepo.GetByID(ctx, chat.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения профессионала: %w", err)
	}

	slots, err := s.slots.Resolve(ctx, chat.ProfessionalID, date)
	if err != nil {
		return nil, err
	}

	text := formatSlotsMessage(date, slots, professional.Timezone)
	if _, err := s.repo.CreateMessage(ctx, chatID, domain.ChatSenderSystem, text); err != nil {
		s.logger.Warn("не удалось опубликовать слоты в чат", zap.Int64("chatId", chatID), zap.Error(err))
	}

	return slots, nil
}

func formatSlotsMessage(date string, slots []domain.Slot, tz string) string {
	if len(slots) == 0 {
		return fmt.Sprintf("На %s свободных слотов нет. Попробуйте другую дату.", date)
	}

	loc, err := timeutil.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}

	times := make([]string, 0, len(slots))
	for _, slot := range slots {
		times = append(times, slot.Start.In(loc).Format(timeutil.TimeOfDayLayout))
	}

	return fmt.Sprintf("Свободные слоты на %s: %s. Выберите время для подтверждения.", date, strings.Join(times, ", "))
}

// BookFromChat подтверждает выбранный слот: запись создается с origin=chat,
// защита от гонок та же, что у формы.
func (s *ChatServiceImpl) BookFromChat(ctx context.Context, chatID int64, dto domain.BookFromChatDTO) (*domain.Appointment, error) {
	chat, err := s.repo.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения чата: %w", err)
	}

	if err := s.requireSubscription(ctx, chat.ProfessionalID); err != nil {
		return nil, err
	}

	appointment, err := s.appointments.Create(ctx, chat.PatientID, domain.CreateAppointmentDTO{
		ProfessionalID: chat.ProfessionalID,
		StartAt:        dto.StartAt,
		EndAt:          dto.EndAt,
		Origin:         domain.AppointmentOriginChat,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			if _, msgErr := s.repo.CreateMessage(ctx, chatID, domain.ChatSenderSystem,
				"Этот слот уже занят. Выберите другое время."); msgErr != nil {
				s.logger.Warn("не удалось опубликовать сообщение о конфликте", zap.Error(msgErr))
			}
		}
		return nil, err
	}

	professional, err := s.professionalRepo.GetByID(ctx, chat.ProfessionalID)
	confirmation := "Запись подтверждена."
	if err == nil {
		loc, locErr := timeutil.LoadLocation(professional.Timezone)
		if locErr == nil {
			confirmation = fmt.Sprintf("Запись подтверждена: %s.",
				appointment.StartAt.In(loc).Format("2006-01-02 15:04"))
		}
	}
	if _, err := s.repo.CreateMessage(ctx, chatID, domain.ChatSenderSystem, confirmation); err != nil {
		s.logger.Warn("не удалось опубликовать подтверждение", zap.Error(err))
	}

	return appointment, nil
}
