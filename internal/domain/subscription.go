package domain

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// Subscription определяет, открыт ли для профессионала чат с пациентами.
// Активна, если статус active и сегодняшняя дата попадает в период действия.
type Subscription struct {
	ID             int64              `json:"id"`
	ProfessionalID int64              `json:"professional_id"`
	Status         SubscriptionStatus `json:"status"`
	StartDate      time.Time          `json:"start_date"`
	EndDate        time.Time          `json:"end_date"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type ActivateSubscriptionDTO struct {
	ProfessionalID int64  `json:"professional_id" binding:"required"`
	StartDate      string `json:"start_date" binding:"required"`
	EndDate        string `json:"end_date" binding:"required"`
}
