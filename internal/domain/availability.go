package domain

import (
	"time"
)

// Дни недели в правилах доступности: понедельник=0 ... воскресенье=6.
// Нумерация фиксирована и должна бит-в-бит совпадать с pkg/timeutil.
const (
	WeekdayMin = 0
	WeekdayMax = 6
)

// AvailabilityRule — повторяющийся недельный шаблон доступности.
// Слоты идут встык от StartTime; последний слот должен целиком
// умещаться до EndTime.
type AvailabilityRule struct {
	ID              int64     `json:"id"`
	ProfessionalID  int64     `json:"professional_id"`
	Weekday         int       `json:"weekday"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	SlotDurationMin int       `json:"slot_duration_min"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BlackoutPeriod — разовое окно недоступности в абсолютных моментах.
type BlackoutPeriod struct {
	ID             int64     `json:"id"`
	ProfessionalID int64     `json:"professional_id"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	Reason         *string   `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateAvailabilityRuleDTO struct {
	Weekday         int    `json:"weekday" binding:"min=0,max=6"`
	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
	SlotDurationMin int    `json:"slot_duration_min" binding:"required"`
}

type UpdateAvailabilityRuleDTO struct {
	Weekday         *int    `json:"weekday" binding:"omitempty,min=0,max=6"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	SlotDurationMin *int    `json:"slot_duration_min"`
}

type CreateBlackoutDTO struct {
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required"`
	Reason  *string   `json:"reason"`
}
