package domain

import (
	"time"
)

// Professional — профессионал, публикующий ссылку для записи. У каждого
// ровно одна настроенная IANA-таймзона, в которой считаются слоты.
type Professional struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Name            string    `json:"name"`
	Specialty       string    `json:"specialty"`
	Slug            string    `json:"slug"`
	Timezone        string    `json:"timezone"`
	IsActive        bool      `json:"is_active"`
	ProfilePhotoURL string    `json:"profile_photo_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PublicProfessional — данные, доступные по публичной ссылке без
// авторизации: без телефона, user_id и прочего.
type PublicProfessional struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Slug      string `json:"slug"`
	Timezone  string `json:"timezone"`
}

func (p *Professional) Public() PublicProfessional {
	return PublicProfessional{
		ID:        p.ID,
		Name:      p.Name,
		Specialty: p.Specialty,
		Slug:      p.Slug,
		Timezone:  p.Timezone,
	}
}

type CreateProfessionalDTO struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty"`
	Timezone  string `json:"timezone"`
}

type UpdateProfessionalDTO struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	Timezone  *string `json:"timezone"`
	IsActive  *bool   `json:"is_active"`
}
