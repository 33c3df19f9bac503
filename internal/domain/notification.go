package domain

import (
	"time"
)

type NotificationType string

const (
	NotificationAppointmentCreated   NotificationType = "appointment_created"
	NotificationAppointmentCancelled NotificationType = "appointment_cancelled"
	NotificationSubscriptionActive   NotificationType = "subscription_activated"
)

// Notification — уведомление пользователю; доставка — опросом, без
// пуш-каналов.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Content   string           `json:"content"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
