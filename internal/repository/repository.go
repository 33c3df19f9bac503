package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type Repositories struct {
	User         UserRepository
	Auth         AuthRepository
	Professional ProfessionalRepository
	Patient      PatientRepository
	Availability AvailabilityRepository
	Appointment  AppointmentRepository
	Chat         ChatRepository
	Notification NotificationRepository
	Subscription SubscriptionRepository
	Event        EventRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Auth:         NewAuthRepository(db),
		Professional: NewProfessionalRepository(db),
		Patient:      NewPatientRepository(db),
		Availability: NewAvailabilityRepository(db),
		Appointment:  NewAppointmentRepository(db),
		Chat:         NewChatRepository(db),
		Notification: NewNotificationRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Event:        NewEventRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, id int64, user domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

type ProfessionalRepository interface {
	Create(ctx context.Context, userID int64, name, specialty, slug, timezone string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Professional, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Professional, error)
	Update(ctx context.Context, id int64, dto domain.UpdateProfessionalDTO) error
	UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Professional, error)
}

type PatientRepository interface {
	Create(ctx context.Context, userID int64, dto domain.CreatePatientDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Patient, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Patient, error)
	Update(ctx context.Context, id int64, dto domain.UpdatePatientDTO) error
}

type AvailabilityRepository interface {
	CreateRule(ctx context.Context, professionalID int64, dto domain.CreateAvailabilityRuleDTO) (int64, error)
	GetRuleByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error)
	UpdateRule(ctx context.Context, id int64, dto domain.UpdateAvailabilityRuleDTO) error
	DeleteRule(ctx context.Context, id int64) error
	ListRules(ctx context.Context, professionalID int64) ([]domain.AvailabilityRule, error)
	// ListRulesByWeekday возвращает живые правила профессионала на день
	// недели (понедельник=0).
	ListRulesByWeekday(ctx context.Context, professionalID int64, weekday int) ([]domain.AvailabilityRule, error)

	CreateBlackout(ctx context.Context, professionalID int64, dto domain.CreateBlackoutDTO) (int64, error)
	GetBlackoutByID(ctx context.Context, id int64) (*domain.BlackoutPeriod, error)
	DeleteBlackout(ctx context.Context, id int64) error
	ListBlackouts(ctx context.Context, professionalID int64) ([]domain.BlackoutPeriod, error)
	// ListBlackoutsInRange — живые блокировки, пересекающие [from, to)
	// (полуоткрытый тест: end_at > from AND start_at < to).
	ListBlackoutsInRange(ctx context.Context, professionalID int64, from, to time.Time) ([]domain.BlackoutPeriod, error)
}

type AppointmentRepository interface {
	// Create вставляет запись со статусом scheduled. Пересечение с другой
	// неотмененной записью отклоняется ограничением в БД и возвращается
	// как domain.ErrSlotConflict.
	Create(ctx context.Context, patientID int64, dto domain.CreateAppointmentDTO) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	// UpdateStatus возвращает domain.ErrNotFound, если живой записи с таким
	// id нет.
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error)
	// ListOccupied — интервалы записей со статусами scheduled/completed,
	// пересекающие [from, to) (полуоткрытый тест).
	ListOccupied(ctx context.Context, professionalID int64, from, to time.Time) ([]domain.Interval, error)
}

type ChatRepository interface {
	Create(ctx context.Context, professionalID, patientID int64) (*domain.Chat, error)
	GetByID(ctx context.Context, id int64) (*domain.Chat, error)
	GetByParticipants(ctx context.Context, professionalID, patientID int64) (*domain.Chat, error)
	ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Chat, error)
	ListByPatient(ctx context.Context, patientID int64) ([]domain.Chat, error)

	CreateMessage(ctx context.Context, chatID int64, sender domain.ChatSender, text string) (*domain.ChatMessage, error)
	ListMessages(ctx context.Context, chatID int64) ([]domain.ChatMessage, error)
	MarkMessagesRead(ctx context.Context, chatID int64, reader domain.ChatSender) error
	CountUnread(ctx context.Context, chatID int64, reader domain.ChatSender) (int, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, userID int64, t domain.NotificationType, content string) error
	ListByUser(ctx context.Context, userID int64, onlyUnread bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

type SubscriptionRepository interface {
	Create(ctx context.Context, professionalID int64, start, end time.Time) (int64, error)
	// HasActive сообщает, есть ли активная подписка, покрывающая дату on.
	HasActive(ctx context.Context, professionalID int64, on time.Time) (bool, error)
	ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Subscription, error)
}

type EventRepository interface {
	Create(ctx context.Context, event domain.SystemEventType, professionalID int64, entityID *int64) error
	CountByProfessional(ctx context.Context, professionalID int64) (map[domain.SystemEventType]int, error)
	ListByProfessional(ctx context.Context, professionalID int64, limit int) ([]domain.SystemEvent, error)
}
