package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agenda/internal/domain"
	"agenda/pkg/timeutil"
)

// Стабы репозиториев в памяти для тестов сервисного слоя.

type stubProfessionalRepo struct {
	professionals map[int64]*domain.Professional
}

func newStubProfessionalRepo(professionals ...*domain.Professional) *stubProfessionalRepo {
	repo := &stubProfessionalRepo{professionals: make(map[int64]*domain.Professional)}
	for _, p := range professionals {
		repo.professionals[p.ID] = p
	}
	return repo
}

func (r *stubProfessionalRepo) Create(ctx context.Context, userID int64, name, specialty, slug, timezone string) (int64, error) {
	id := int64(len(r.professionals) + 1)
	r.professionals[id] = &domain.Professional{
		ID: id, UserID: userID, Name: name, Specialty: specialty, Slug: slug, Timezone: timezone, IsActive: true,
	}
	return id, nil
}

func (r *stubProfessionalRepo) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	p, ok := r.professionals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *stubProfessionalRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Professional, error) {
	for _, p := range r.professionals {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubProfessionalRepo) GetBySlug(ctx context.Context, slug string) (*domain.Professional, error) {
	for _, p := range r.professionals {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubProfessionalRepo) Update(ctx context.Context, id int64, dto domain.UpdateProfessionalDTO) error {
	return nil
}

func (r *stubProfessionalRepo) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	return nil
}

func (r *stubProfessionalRepo) Delete(ctx context.Context, id int64) error {
	delete(r.professionals, id)
	return nil
}

func (r *stubProfessionalRepo) List(ctx context.Context, limit, offset int) ([]domain.Professional, error) {
	result := make([]domain.Professional, 0, len(r.professionals))
	for _, p := range r.professionals {
		result = append(result, *p)
	}
	return result, nil
}

type stubAvailabilityRepo struct {
	rules     []domain.AvailabilityRule
	blackouts []domain.BlackoutPeriod
	nextID    int64
}

func (r *stubAvailabilityRepo) CreateRule(ctx context.Context, professionalID int64, dto domain.CreateAvailabilityRuleDTO) (int64, error) {
	r.nextID++
	r.rules = append(r.rules, domain.AvailabilityRule{
		ID:              r.nextID,
		ProfessionalID:  professionalID,
		Weekday:         dto.Weekday,
		StartTime:       dto.StartTime,
		EndTime:         dto.EndTime,
		SlotDurationMin: dto.SlotDurationMin,
	})
	return r.nextID, nil
}

func (r *stubAvailabilityRepo) GetRuleByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error) {
	for i := range r.rules {
		if r.rules[i].ID == id {
			return &r.rules[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubAvailabilityRepo) UpdateRule(ctx context.Context, id int64, dto domain.UpdateAvailabilityRuleDTO) error {
	rule, err := r.GetRuleByID(ctx, id)
	if err != nil {
		return err
	}
	if dto.Weekday != nil {
		rule.Weekday = *dto.Weekday
	}
	if dto.StartTime != nil {
		rule.StartTime = *dto.StartTime
	}
	if dto.EndTime != nil {
		rule.EndTime = *dto.EndTime
	}
	if dto.SlotDurationMin != nil {
		rule.SlotDurationMin = *dto.SlotDurationMin
	}
	return nil
}

func (r *stubAvailabilityRepo) DeleteRule(ctx context.Context, id int64) error {
	for i := range r.rules {
		if r.rules[i].ID == id {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *stubAvailabilityRepo) ListRules(ctx context.Context, professionalID int64) ([]domain.AvailabilityRule, error) {
	result := make([]domain.AvailabilityRule, 0)
	for _, rule := range r.rules {
		if rule.ProfessionalID == professionalID {
			result = append(result, rule)
		}
	}
	return result, nil
}

func (r *stubAvailabilityRepo) ListRulesByWeekday(ctx context.Context, professionalID int64, weekday int) ([]domain.AvailabilityRule, error) {
	result := make([]domain.AvailabilityRule, 0)
	for _, rule := range r.rules {
		if rule.ProfessionalID == professionalID && rule.Weekday == weekday {
			result = append(result, rule)
		}
	}
	return result, nil
}

func (r *stubAvailabilityRepo) CreateBlackout(ctx context.Context, professionalID int64, dto domain.CreateBlackoutDTO) (int64, error) {
	r.nextID++
	r.blackouts = append(r.blackouts, domain.BlackoutPeriod{
		ID:             r.nextID,
		ProfessionalID: professionalID,
		StartAt:        dto.StartAt,
		EndAt:          dto.EndAt,
		Reason:         dto.Reason,
	})
	return r.nextID, nil
}

func (r *stubAvailabilityRepo) GetBlackoutByID(ctx context.Context, id int64) (*domain.BlackoutPeriod, error) {
	for i := range r.blackouts {
		if r.blackouts[i].ID == id {
			return &r.blackouts[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubAvailabilityRepo) DeleteBlackout(ctx context.Context, id int64) error {
	for i := range r.blackouts {
		if r.blackouts[i].ID == id {
			r.blackouts = append(r.blackouts[:i], r.blackouts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *stubAvailabilityRepo) ListBlackouts(ctx context.Context, professionalID int64) ([]domain.BlackoutPeriod, error) {
	result := make([]domain.BlackoutPeriod, 0)
	for _, b := range r.blackouts {
		if b.ProfessionalID == professionalID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *stubAvailabilityRepo) ListBlackoutsInRange(ctx context.Context, professionalID int64, from, to time.Time) ([]domain.BlackoutPeriod, error) {
	result := make([]domain.BlackoutPeriod, 0)
	for _, b := range r.blackouts {
		if b.ProfessionalID == professionalID && timeutil.Overlaps(b.StartAt, b.EndAt, from, to) {
			result = append(result, b)
		}
	}
	return result, nil
}

type stubAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[int64]*domain.Appointment
	nextID       int64
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{appointments: make(map[int64]*domain.Appointment)}
}

// Create повторяет поведение exclusion-ограничения БД: пересечение с
// неотмененной записью того же профессионала отклоняется, проверка и
// вставка атомарны под мьютексом.
func (r *stubAppointmentRepo) Create(ctx context.Context, patientID int64, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.appointments {
		if a.ProfessionalID == dto.ProfessionalID && a.Status.Occupies() &&
			timeutil.Overlaps(a.StartAt, a.EndAt, dto.StartAt, dto.EndAt) {
			return nil, fmt.Errorf("интервал [%s, %s): %w",
				dto.StartAt.Format(time.RFC3339), dto.EndAt.Format(time.RFC3339), domain.ErrSlotConflict)
		}
	}

	origin := dto.Origin
	if origin == "" {
		origin = domain.AppointmentOriginForm
	}

	r.nextID++
	appointment := &domain.Appointment{
		ID:             r.nextID,
		ProfessionalID: dto.ProfessionalID,
		PatientID:      patientID,
		StartAt:        dto.StartAt,
		EndAt:          dto.EndAt,
		Status:         domain.AppointmentStatusScheduled,
		Origin:         origin,
	}
	r.appointments[appointment.ID] = appointment
	return appointment, nil
}

func (r *stubAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (r *stubAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	return nil
}

func (r *stubAppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Appointment, 0)
	for _, a := range r.appointments {
		if filter.ProfessionalID != nil && a.ProfessionalID != *filter.ProfessionalID {
			continue
		}
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (r *stubAppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	list, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func (r *stubAppointmentRepo) ListOccupied(ctx context.Context, professionalID int64, from, to time.Time) ([]domain.Interval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Interval, 0)
	for _, a := range r.appointments {
		if a.ProfessionalID == professionalID && a.Status.Occupies() &&
			timeutil.Overlaps(a.StartAt, a.EndAt, from, to) {
			result = append(result, domain.Interval{Start: a.StartAt, End: a.EndAt})
		}
	}
	return result, nil
}

type stubPatientRepo struct {
	patients map[int64]*domain.Patient
}

func newStubPatientRepo(patients ...*domain.Patient) *stubPatientRepo {
	repo := &stubPatientRepo{patients: make(map[int64]*domain.Patient)}
	for _, p := range patients {
		repo.patients[p.ID] = p
	}
	return repo
}

func (r *stubPatientRepo) Create(ctx context.Context, userID int64, dto domain.CreatePatientDTO) (int64, error) {
	id := int64(len(r.patients) + 1)
	r.patients[id] = &domain.Patient{ID: id, UserID: userID, Name: dto.Name, Phone: dto.Phone}
	return id, nil
}

func (r *stubPatientRepo) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *stubPatientRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Patient, error) {
	for _, p := range r.patients {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubPatientRepo) Update(ctx context.Context, id int64, dto domain.UpdatePatientDTO) error {
	return nil
}

type stubNotificationRepo struct {
	created []domain.Notification
}

func (r *stubNotificationRepo) Create(ctx context.Context, userID int64, t domain.NotificationType, content string) error {
	r.created = append(r.created, domain.Notification{UserID: userID, Type: t, Content: content})
	return nil
}

func (r *stubNotificationRepo) ListByUser(ctx context.Context, userID int64, onlyUnread bool, limit int) ([]domain.Notification, error) {
	result := make([]domain.Notification, 0)
	for _, n := range r.created {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *stubNotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	return nil
}

func (r *stubNotificationRepo) MarkAllRead(ctx context.Context, userID int64) error {
	return nil
}

type recordedEvent struct {
	event          domain.SystemEventType
	professionalID int64
}

type stubEventRepo struct {
	recorded []recordedEvent
}

func (r *stubEventRepo) Create(ctx context.Context, event domain.SystemEventType, professionalID int64, entityID *int64) error {
	r.recorded = append(r.recorded, recordedEvent{event: event, professionalID: professionalID})
	return nil
}

func (r *stubEventRepo) CountByProfessional(ctx context.Context, professionalID int64) (map[domain.SystemEventType]int, error) {
	counts := make(map[domain.SystemEventType]int)
	for _, e := range r.recorded {
		if e.professionalID == professionalID {
			counts[e.event]++
		}
	}
	return counts, nil
}

func (r *stubEventRepo) ListByProfessional(ctx context.Context, professionalID int64, limit int) ([]domain.SystemEvent, error) {
	return []domain.SystemEvent{}, nil
}

type stubChatRepo struct {
	chats    map[int64]*domain.Chat
	messages []domain.ChatMessage
	nextID   int64
}

func newStubChatRepo(chats ...*domain.Chat) *stubChatRepo {
	repo := &stubChatRepo{chats: make(map[int64]*domain.Chat)}
	for _, c := range chats {
		repo.chats[c.ID] = c
		if c.ID > repo.nextID {
			repo.nextID = c.ID
		}
	}
	return repo
}

func (r *stubChatRepo) Create(ctx context.Context, professionalID, patientID int64) (*domain.Chat, error) {
	r.nextID++
	chat := &domain.Chat{ID: r.nextID, ProfessionalID: professionalID, PatientID: patientID, IsActive: true}
	r.chats[chat.ID] = chat
	return chat, nil
}

func (r *stubChatRepo) GetByID(ctx context.Context, id int64) (*domain.Chat, error) {
	c, ok := r.chats[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *stubChatRepo) GetByParticipants(ctx context.Context, professionalID, patientID int64) (*domain.Chat, error) {
	for _, c := range r.chats {
		if c.ProfessionalID == professionalID && c.PatientID == patientID && c.IsActive {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubChatRepo) ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Chat, error) {
	result := make([]domain.Chat, 0)
	for _, c := range r.chats {
		if c.ProfessionalID == professionalID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *stubChatRepo) ListByPatient(ctx context.Context, patientID int64) ([]domain.Chat, error) {
	result := make([]domain.Chat, 0)
	for _, c := range r.chats {
		if c.PatientID == patientID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *stubChatRepo) CreateMessage(ctx context.Context, chatID int64, sender domain.ChatSender, text string) (*domain.ChatMessage, error) {
	message := domain.ChatMessage{
		ID:     int64(len(r.messages) + 1),
		ChatID: chatID,
		Sender: sender,
		Text:   text,
	}
	r.messages = append(r.messages, message)
	return &message, nil
}

func (r *stubChatRepo) ListMessages(ctx context.Context, chatID int64) ([]domain.ChatMessage, error) {
	result := make([]domain.ChatMessage, 0)
	for _, m := range r.messages {
		if m.ChatID == chatID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *stubChatRepo) MarkMessagesRead(ctx context.Context, chatID int64, reader domain.ChatSender) error {
	return nil
}

func (r *stubChatRepo) CountUnread(ctx context.Context, chatID int64, reader domain.ChatSender) (int, error) {
	return 0, nil
}

type stubSubscriptionRepo struct {
	active bool
}

func (r *stubSubscriptionRepo) Create(ctx context.Context, professionalID int64, start, end time.Time) (int64, error) {
	return 1, nil
}

func (r *stubSubscriptionRepo) HasActive(ctx context.Context, professionalID int64, on time.Time) (bool, error) {
	return r.active, nil
}

func (r *stubSubscriptionRepo) ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Subscription, error) {
	return []domain.Subscription{}, nil
}
