package domain

import (
	"time"
)

// Patient — пациент, записывающийся через форму или чат.
type Patient struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePatientDTO struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

type UpdatePatientDTO struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}
