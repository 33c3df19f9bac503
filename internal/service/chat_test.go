package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

type chatFixture struct {
	service          *ChatServiceImpl
	chatRepo         *stubChatRepo
	subscriptionRepo *stubSubscriptionRepo
	availabilityRepo *stubAvailabilityRepo
	appointmentRepo  *stubAppointmentRepo
	eventRepo        *stubEventRepo
	professional     *domain.Professional
	patient          *domain.Patient
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	professional := mexicoProfessional()
	patient := &domain.Patient{ID: 5, UserID: 50, Name: "Juan Pérez"}

	chatRepo := newStubChatRepo()
	subscriptionRepo := &stubSubscriptionRepo{active: true}
	availabilityRepo := &stubAvailabilityRepo{}
	appointmentRepo := newStubAppointmentRepo()
	professionalRepo := newStubProfessionalRepo(professional)
	patientRepo := newStubPatientRepo(patient)
	notificationRepo := &stubNotificationRepo{}
	eventRepo := &stubEventRepo{}

	slots := NewSlotService(availabilityRepo, appointmentRepo, professionalRepo, zap.NewNop())
	appointments := NewAppointmentService(
		appointmentRepo, professionalRepo, patientRepo, notificationRepo, eventRepo, slots, zap.NewNop(),
	)
	service := NewChatService(
		chatRepo, subscriptionRepo, professionalRepo, patientRepo, slots, appointments, zap.NewNop(),
	)

	return &chatFixture{
		service:          service,
		chatRepo:         chatRepo,
		subscriptionRepo: subscriptionRepo,
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		eventRepo:        eventRepo,
		professional:     professional,
		patient:          patient,
	}
}

func TestGetOrCreateChat(t *testing.T) {
	f := newChatFixture(t)

	chat, err := f.service.GetOrCreate(context.Background(), f.patient.ID, f.professional.ID)
	require.NoError(t, err)
	assert.True(t, chat.IsActive)

	// Новый чат открывается приветствием от системы.
	messages, err := f.chatRepo.ListMessages(context.Background(), chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, domain.ChatSenderSystem, messages[0].Sender)

	// Повторный вызов возвращает тот же чат без второго приветствия.
	again, err := f.service.GetOrCreate(context.Background(), f.patient.ID, f.professional.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, again.ID)

	messages, err = f.chatRepo.ListMessages(context.Background(), chat.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestChatRequiresActiveSubscription(t *testing.T) {
	f := newChatFixture(t)
	f.subscriptionRepo.active = false

	_, err := f.service.GetOrCreate(context.Background(), f.patient.ID, f.professional.ID)
	assert.ErrorIs(t, err, domain.ErrChatUnavailable)
}

func TestSendMessageGatedBySubscription(t *testing.T) {
	f := newChatFixture(t)

	chat, err := f.service.GetOrCreate(context.Background(), f.patient.ID, f.professional.ID)
	require.NoError(t, err)

	// Подписка истекла после открытия чата — отправка блокируется.
	f.subscriptionRepo.active = false
	_, err = f.service.SendMessage(context.Background(), chat.ID, domain.ChatSenderPatient, domain.SendMessageDTO{
		Text: "Здравствуйте!",
	})
	assert.ErrorIs(t, err, domain.ErrChatUnavailable)
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	f := newChatFixture(t)

	chat, err := f.service.GetOrCreate(context.Background(), f.patient.ID, f.professional.ID)
	require.NoError(t, err)

	_, err = f.service.SendMessage(context.Background(), chat.ID, domain.ChatSenderPatient, domain.SendMessageDTO{
		Text: "   ",
	})
	assert.Error(t, err)
}

func TestSuggestSlotsPostsSystemMessage(t *testing.T) {
	f := newChatFixture(t)
	addRule(f.availabilityRepo, 1, 0, "09:00", "11:00", 60)

	chat, err := f.service.GetOrCreate(context.Background(), f.patient.ID, f.professional.ID)
	require.NoError(t, err)

	date := upcomingDate(t, 0, f.professional.Timezone)
	slots, err := f.service.SuggestSlots(context.Background(), chat.ID, date)
	require.NoError(t, err)
	assert.Len(t, slots, 2)

	messages, err := f.chatRepo.ListMessages(context.Background(), chat.ID)
	require.NoError(t, err)
	last := messages[len(messages)-1]
	assert.Equal(t, domain.ChatSenderSystem, last.Sender)
	assert.Contains(t, last.Text, "09:00")
	assert.Contains(t, last.Text, "10:00")
}

func TestBookFromChat(t *testing.T) {
	f := newChatFixture(t)
	addRule(f.availabilityRepo, 1, 0, "09:00", "11:00", 60)

	chat, err := f.service.GetOrCreate(context.Background(), f.patient.ID, f.professional.ID)
	require.NoError(t, err)

	date := upcomingDate(t, 0, f.professional.Timezone)
	start := localTime(t, date, "09:00", f.professional.Timezone)

	appointment, err := f.service.BookFromChat(context.Background(), chat.ID, domain.BookFromChatDTO{
		StartAt: start,
		EndAt:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AppointmentOriginChat, appointment.Origin)
	assert.Equal(t, f.patient.ID, appointment.PatientID)

	// Событие метрик фиксирует источник chat.
	require.Len(t, f.eventRepo.recorded, 1)
	assert.Equal(t, domain.EventAppointmentCreatedChat, f.eventRepo.recorded[0].event)

	// Подтверждение публикуется в чат.
	messages, err := f.chatRepo.ListMessages(context.Background(), chat.ID)
	require.NoError(t, err)
	last := messages[len(messages)-1]
	assert.Equal(t, domain.ChatSenderSystem, last.Sender)
	assert.Contains(t, last.Text, "подтверждена")
}

func TestBookFromChatConflict(t *testing.T) {
	f := newChatFixture(t)
	addRule(f.availabilityRepo, 1, 0, "09:00", "11:00", 60)

	chat, err := f.service.GetOrCreate(context.Background(), f.patient.ID, f.professional.ID)
	require.NoError(t, err)

	date := upcomingDate(t, 0, f.professional.Timezone)
	start := localTime(t, date, "09:00", f.professional.Timezone)
	dto := domain.BookFromChatDTO{StartAt: start, EndAt: start.Add(time.Hour)}

	_, err = f.service.BookFromChat(context.Background(), chat.ID, dto)
	require.NoError(t, err)

	_, err = f.service.BookFromChat(context.Background(), chat.ID, dto)
	assert.ErrorIs(t, err, domain.ErrSlotConflict)

	// Система сообщает о конфликте в чат.
	messages, err := f.chatRepo.ListMessages(context.Background(), chat.ID)
	require.NoError(t, err)
	last := messages[len(messages)-1]
	assert.Contains(t, last.Text, "занят")
}
