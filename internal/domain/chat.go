package domain

import (
	"time"
)

// ChatSender — отправитель сообщения в чате записи.
type ChatSender string

const (
	ChatSenderPatient      ChatSender = "patient"
	ChatSenderProfessional ChatSender = "professional"
	ChatSenderSystem       ChatSender = "system"
)

// ChatStep — шаг направляемого диалога записи через чат.
type ChatStep string

const (
	ChatStepStart       ChatStep = "start"
	ChatStepPickDate    ChatStep = "pick_date"
	ChatStepShowSlots   ChatStep = "show_slots"
	ChatStepConfirmSlot ChatStep = "confirm_slot"
	ChatStepBooked      ChatStep = "booked"
)

// Chat — диалог между пациентом и профессионалом; не больше одного живого
// чата на пару.
type Chat struct {
	ID             int64     `json:"id"`
	ProfessionalID int64     `json:"professional_id"`
	PatientID      int64     `json:"patient_id"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	ProfessionalName string `json:"professional_name,omitempty"`
	PatientName      string `json:"patient_name,omitempty"`
}

type ChatMessage struct {
	ID        int64      `json:"id"`
	ChatID    int64      `json:"chat_id"`
	Sender    ChatSender `json:"sender"`
	Text      string     `json:"text"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}

type SendMessageDTO struct {
	Text string `json:"text" binding:"required"`
}

// BookFromChatDTO — подтверждение выбранного в чате слота.
type BookFromChatDTO struct {
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required"`
}
