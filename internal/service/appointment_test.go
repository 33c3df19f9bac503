package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/pkg/timeutil"
)

type appointmentFixture struct {
	service          *AppointmentServiceImpl
	appointmentRepo  *stubAppointmentRepo
	availabilityRepo *stubAvailabilityRepo
	professionalRepo *stubProfessionalRepo
	notificationRepo *stubNotificationRepo
	eventRepo        *stubEventRepo
	professional     *domain.Professional
	patient          *domain.Patient
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	professional := mexicoProfessional()
	patient := &domain.Patient{ID: 5, UserID: 50, Name: "Juan Pérez", Phone: "+5215512345678"}

	availabilityRepo := &stubAvailabilityRepo{}
	appointmentRepo := newStubAppointmentRepo()
	professionalRepo := newStubProfessionalRepo(professional)
	patientRepo := newStubPatientRepo(patient)
	notificationRepo := &stubNotificationRepo{}
	eventRepo := &stubEventRepo{}

	slots := NewSlotService(availabilityRepo, appointmentRepo, professionalRepo, zap.NewNop())
	service := NewAppointmentService(
		appointmentRepo, professionalRepo, patientRepo, notificationRepo, eventRepo, slots, zap.NewNop(),
	)

	return &appointmentFixture{
		service:          service,
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		professionalRepo: professionalRepo,
		notificationRepo: notificationRepo,
		eventRepo:        eventRepo,
		professional:     professional,
		patient:          patient,
	}
}

// upcomingDate — ближайшая будущая дата с нужным днем недели, не раньше чем
// через неделю, в таймзоне tz.
func upcomingDate(t *testing.T, weekday int, tz string) string {
	t.Helper()
	loc, err := timeutil.LoadLocation(tz)
	require.NoError(t, err)

	day := time.Now().In(loc).AddDate(0, 0, 7)
	for {
		wd, err := timeutil.DayOfWeek(day, tz)
		require.NoError(t, err)
		if wd == weekday {
			return day.Format(timeutil.DateLayout)
		}
		day = day.AddDate(0, 0, 1)
	}
}

func TestCreateAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	addRule(f.availabilityRepo, 1, 0, "09:00", "12:00", 60)

	date := upcomingDate(t, 0, f.professional.Timezone)
	start := localTime(t, date, "09:00", f.professional.Timezone)

	appointment, err := f.service.Create(context.Background(), f.patient.ID, domain.CreateAppointmentDTO{
		ProfessionalID: 1,
		StartAt:        start,
		EndAt:          start.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AppointmentStatusScheduled, appointment.Status)
	assert.Equal(t, domain.AppointmentOriginForm, appointment.Origin)
	assert.Equal(t, f.patient.ID, appointment.PatientID)

	// Событие метрик и уведомления обеим сторонам.
	require.Len(t, f.eventRepo.recorded, 1)
	assert.Equal(t, domain.EventAppointmentCreatedForm, f.eventRepo.recorded[0].event)
	require.Len(t, f.notificationRepo.created, 2)
	assert.Equal(t, f.professional.UserID, f.notificationRepo.created[0].UserID)
	assert.Equal(t, f.patient.UserID, f.notificationRepo.created[1].UserID)
}

func TestCreateAppointmentNotOfferedInterval(t *testing.T) {
	f := newAppointmentFixture(t)
	addRule(f.availabilityRepo, 1, 0, "09:00", "12:00", 60)

	date := upcomingDate(t, 0, f.professional.Timezone)
	start := localTime(t, date, "09:30", f.professional.Timezone)

	// 09:30-10:30 не совпадает ни с одним слотом сетки.
	_, err := f.service.Create(context.Background(), f.patient.ID, domain.CreateAppointmentDTO{
		ProfessionalID: 1,
		StartAt:        start,
		EndAt:          start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrSlotConflict)
}

func TestCreateAppointmentDoubleBooking(t *testing.T) {
	f := newAppointmentFixture(t)
	addRule(f.availabilityRepo, 1, 0, "09:00", "12:00", 60)

	date := upcomingDate(t, 0, f.professional.Timezone)
	start := localTime(t, date, "10:00", f.professional.Timezone)
	dto := domain.CreateAppointmentDTO{
		ProfessionalID: 1,
		StartAt:        start,
		EndAt:          start.Add(time.Hour),
	}

	_, err := f.service.Create(context.Background(), f.patient.ID, dto)
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), f.patient.ID, dto)
	assert.ErrorIs(t, err, domain.ErrSlotConflict)
}

func TestCreateAppointmentConcurrentSameSlot(t *testing.T) {
	f := newAppointmentFixture(t)
	addRule(f.availabilityRepo, 1, 0, "09:00", "12:00", 60)

	date := upcomingDate(t, 0, f.professional.Timezone)
	start := localTime(t, date, "11:00", f.professional.Timezone)
	dto := domain.CreateAppointmentDTO{
		ProfessionalID: 1,
		StartAt:        start,
		EndAt:          start.Add(time.Hour),
	}

	// Гонка за один слот: выигрывает ровно один, остальным — конфликт.
	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Create(context.Background(), f.patient.ID, dto)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var booked, conflicts int
	for err := range errs {
		if err == nil {
			booked++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrSlotConflict)
		conflicts++
	}
	assert.Equal(t, 1, booked)
	assert.Equal(t, workers-1, conflicts)
}

func TestCreateAppointmentInPast(t *testing.T) {
	f := newAppointmentFixture(t)
	addRule(f.availabilityRepo, 1, 0, "09:00", "12:00", 60)

	start := time.Now().Add(-48 * time.Hour)
	_, err := f.service.Create(context.Background(), f.patient.ID, domain.CreateAppointmentDTO{
		ProfessionalID: 1,
		StartAt:        start,
		EndAt:          start.Add(time.Hour),
	})
	assert.Error(t, err)
}

func TestCreateAppointmentInactiveProfessional(t *testing.T) {
	f := newAppointmentFixture(t)
	f.professional.IsActive = false
	addRule(f.availabilityRepo, 1, 0, "09:00", "12:00", 60)

	date := upcomingDate(t, 0, f.professional.Timezone)
	start := localTime(t, date, "09:00", f.professional.Timezone)

	_, err := f.service.Create(context.Background(), f.patient.ID, domain.CreateAppointmentDTO{
		ProfessionalID: 1,
		StartAt:        start,
		EndAt:          start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func bookSlot(t *testing.T, f *appointmentFixture) *domain.Appointment {
	t.Helper()
	addRule(f.availabilityRepo, 1, 0, "09:00", "12:00", 60)

	date := upcomingDate(t, 0, f.professional.Timezone)
	start := localTime(t, date, "09:00", f.professional.Timezone)

	appointment, err := f.service.Create(context.Background(), f.patient.ID, domain.CreateAppointmentDTO{
		ProfessionalID: 1,
		StartAt:        start,
		EndAt:          start.Add(time.Hour),
	})
	require.NoError(t, err)
	return appointment
}

func TestCancelAppointmentByPatient(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := bookSlot(t, f)

	err := f.service.Cancel(context.Background(), appointment.ID, f.patient.UserID, domain.UserRolePatient)
	require.NoError(t, err)

	stored, err := f.appointmentRepo.GetByID(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusCancelled, stored.Status)

	// Отмена освобождает слот для повторного бронирования.
	_, err = f.service.Create(context.Background(), f.patient.ID, domain.CreateAppointmentDTO{
		ProfessionalID: 1,
		StartAt:        appointment.StartAt,
		EndAt:          appointment.EndAt,
	})
	assert.NoError(t, err)
}

func TestCancelAppointmentForeignUser(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := bookSlot(t, f)

	err := f.service.Cancel(context.Background(), appointment.ID, 999, domain.UserRolePatient)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestCancelUnknownAppointment(t *testing.T) {
	f := newAppointmentFixture(t)

	err := f.service.Cancel(context.Background(), 999, f.patient.UserID, domain.UserRolePatient)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatusUnknownAppointment(t *testing.T) {
	// Контракт репозитория: смена статуса несуществующей записи — ErrNotFound,
	// а не тихий успех.
	repo := newStubAppointmentRepo()

	err := repo.UpdateStatus(context.Background(), 42, domain.AppointmentStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelAppointmentTwice(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := bookSlot(t, f)

	require.NoError(t, f.service.Cancel(context.Background(), appointment.ID, f.patient.UserID, domain.UserRolePatient))
	err := f.service.Cancel(context.Background(), appointment.ID, f.patient.UserID, domain.UserRolePatient)
	assert.Error(t, err)
}

func TestCompleteAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := bookSlot(t, f)

	err := f.service.Complete(context.Background(), appointment.ID, f.professional.UserID)
	require.NoError(t, err)

	stored, err := f.appointmentRepo.GetByID(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusCompleted, stored.Status)
}

func TestCompleteAppointmentForeignProfessional(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := bookSlot(t, f)

	err := f.service.Complete(context.Background(), appointment.ID, 999)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}
