package service

import (
	"context"

	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
}

type Services struct {
	User         UserService
	Auth         AuthService
	Professional ProfessionalService
	Patient      PatientService
	Availability AvailabilityService
	Slot         SlotService
	Appointment  AppointmentService
	Chat         ChatService
	Notification NotificationService
	Subscription SubscriptionService
	Metrics      MetricsService
}

func NewServices(deps Deps) *Services {
	slots := NewSlotService(deps.Repos.Availability, deps.Repos.Appointment, deps.Repos.Professional, deps.Logger)
	appointments := NewAppointmentService(
		deps.Repos.Appointment,
		deps.Repos.Professional,
		deps.Repos.Patient,
		deps.Repos.Notification,
		deps.Repos.Event,
		slots,
		deps.Logger,
	)

	return &Services{
		User:         NewUserService(deps.Repos.User, deps.Logger),
		Auth:         NewAuthService(deps.Repos.Auth, deps.Repos.User, deps.Config.JWT, deps.Logger),
		Professional: NewProfessionalService(deps.Repos.Professional, deps.Repos.User, deps.FileStorage, deps.Config.Booking, deps.Logger),
		Patient:      NewPatientService(deps.Repos.Patient, deps.Repos.User, deps.Logger),
		Availability: NewAvailabilityService(deps.Repos.Availability, deps.Repos.Professional, deps.Config.Booking, deps.Logger),
		Slot:         slots,
		Appointment:  appointments,
		Chat:         NewChatService(deps.Repos.Chat, deps.Repos.Subscription, deps.Repos.Professional, deps.Repos.Patient, slots, appointments, deps.Logger),
		Notification: NewNotificationService(deps.Repos.Notification, deps.Logger),
		Subscription: NewSubscriptionService(deps.Repos.Subscription, deps.Repos.Professional, deps.Repos.Event, deps.Repos.Notification, deps.Logger),
		Metrics:      NewMetricsService(deps.Repos.Event, deps.Repos.Subscription, deps.Logger),
	}
}

type UserService interface {
	Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error
	Delete(ctx context.Context, id int64) error
}

type AuthService interface {
	Register(ctx context.Context, dto domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)
}

type ProfessionalService interface {
	Create(ctx context.Context, userID int64, dto domain.CreateProfessionalDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Professional, error)
	// GetBySlug отдает публичный профиль по ссылке записи; неактивные
	// профили наружу не отдаются.
	GetBySlug(ctx context.Context, slug string) (*domain.Professional, error)
	Update(ctx context.Context, id int64, dto domain.UpdateProfessionalDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Professional, error)

	UploadProfilePhoto(ctx context.Context, professionalID int64, photo []byte, filename string) error
	DeleteProfilePhoto(ctx context.Context, professionalID int64) error
}

type PatientService interface {
	Create(ctx context.Context, userID int64, dto domain.CreatePatientDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Patient, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Patient, error)
	Update(ctx context.Context, id int64, dto domain.UpdatePatientDTO) error
}

type AvailabilityService interface {
	CreateRule(ctx context.Context, professionalID int64, dto domain.CreateAvailabilityRuleDTO) (int64, error)
	UpdateRule(ctx context.Context, professionalID, ruleID int64, dto domain.UpdateAvailabilityRuleDTO) error
	DeleteRule(ctx context.Context, professionalID, ruleID int64) error
	ListRules(ctx context.Context, professionalID int64) ([]domain.AvailabilityRule, error)

	CreateBlackout(ctx context.Context, professionalID int64, dto domain.CreateBlackoutDTO) (int64, error)
	DeleteBlackout(ctx context.Context, professionalID, blackoutID int64) error
	ListBlackouts(ctx context.Context, professionalID int64) ([]domain.BlackoutPeriod, error)
}

type SlotService interface {
	// Resolve считает свободные слоты профессионала на локальную дату
	// (YYYY-MM-DD в его таймзоне). Результат не кешируется.
	Resolve(ctx context.Context, professionalID int64, date string) ([]domain.Slot, error)
	// ResolveRange — слоты на каждый день диапазона [from, to] включительно,
	// ключ — дата YYYY-MM-DD. Для календарного вида.
	ResolveRange(ctx context.Context, professionalID int64, from, to string) (map[string][]domain.Slot, error)
}

type AppointmentService interface {
	Create(ctx context.Context, patientID int64, dto domain.CreateAppointmentDTO) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Cancel(ctx context.Context, id, userID int64, role domain.UserRole) error
	Complete(ctx context.Context, id, userID int64) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
}

type ChatService interface {
	GetOrCreate(ctx context.Context, patientID, professionalID int64) (*domain.Chat, error)
	GetByID(ctx context.Context, id int64) (*domain.Chat, error)
	ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Chat, error)
	ListByPatient(ctx context.Context, patientID int64) ([]domain.Chat, error)

	SendMessage(ctx context.Context, chatID int64, sender domain.ChatSender, dto domain.SendMessageDTO) (*domain.ChatMessage, error)
	ListMessages(ctx context.Context, chatID int64, reader domain.ChatSender) ([]domain.ChatMessage, error)

	// SuggestSlots публикует в чат системное сообщение со свободными
	// слотами на дату.
	SuggestSlots(ctx context.Context, chatID int64, date string) ([]domain.Slot, error)
	// BookFromChat подтверждает выбранный слот и создает запись с
	// origin=chat.
	BookFromChat(ctx context.Context, chatID int64, dto domain.BookFromChatDTO) (*domain.Appointment, error)
}

type NotificationService interface {
	List(ctx context.Context, userID int64, onlyUnread bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

type SubscriptionService interface {
	Activate(ctx context.Context, dto domain.ActivateSubscriptionDTO) (int64, error)
	HasActive(ctx context.Context, professionalID int64) (bool, error)
	ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Subscription, error)
}

type MetricsService interface {
	Summary(ctx context.Context, professionalID int64) (*domain.MetricsSummary, error)
}
