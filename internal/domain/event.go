package domain

import (
	"time"
)

type SystemEventType string

const (
	EventAppointmentCreatedForm SystemEventType = "appointment_created_form"
	EventAppointmentCreatedChat SystemEventType = "appointment_created_chat"
	EventAppointmentCancelled   SystemEventType = "appointment_cancelled"
	EventSubscriptionActivated  SystemEventType = "subscription_activated"
)

// SystemEvent — событие для метрик; запись best-effort, на корректность
// бронирования не влияет.
type SystemEvent struct {
	ID             int64           `json:"id"`
	Event          SystemEventType `json:"event"`
	ProfessionalID int64           `json:"professional_id"`
	EntityID       *int64          `json:"entity_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MetricsSummary — сводка метрик профессионала по событиям.
type MetricsSummary struct {
	AppointmentsForm      int  `json:"appointments_form"`
	AppointmentsChat      int  `json:"appointments_chat"`
	AppointmentsCancelled int  `json:"appointments_cancelled"`
	SubscriptionsActive   int  `json:"subscriptions_activated"`
	HasActiveSubscription bool `json:"has_active_subscription"`
}
