package domain

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Occupies сообщает, держит ли запись с этим статусом интервал времени.
// Отмененные записи освобождают слот.
func (s AppointmentStatus) Occupies() bool {
	return s == AppointmentStatusScheduled || s == AppointmentStatusCompleted
}

type AppointmentOrigin string

const (
	AppointmentOriginForm AppointmentOrigin = "form"
	AppointmentOriginChat AppointmentOrigin = "chat"
)

// Appointment — подтвержденная запись пациента к профессионалу на интервал
// [StartAt, EndAt). Инвариант системы: для профессионала никакие две
// неотмененные записи не пересекаются по времени.
type Appointment struct {
	ID             int64             `json:"id"`
	ProfessionalID int64             `json:"professional_id"`
	PatientID      int64             `json:"patient_id"`
	StartAt        time.Time         `json:"start_at"`
	EndAt          time.Time         `json:"end_at"`
	Status         AppointmentStatus `json:"status"`
	Origin         AppointmentOrigin `json:"origin"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	PatientName      string `json:"patient_name,omitempty"`
	ProfessionalName string `json:"professional_name,omitempty"`
}

// Slot — вычисленный свободный интервал для записи. Не хранится в БД,
// пересчитывается на каждое чтение.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Interval — занятый промежуток (блокировка или запись) для движка слотов.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type CreateAppointmentDTO struct {
	ProfessionalID int64             `json:"professional_id" binding:"required"`
	StartAt        time.Time         `json:"start_at" binding:"required"`
	EndAt          time.Time         `json:"end_at" binding:"required"`
	Origin         AppointmentOrigin `json:"origin" binding:"omitempty,oneof=form chat"`
}

type AppointmentFilter struct {
	ProfessionalID *int64             `json:"professional_id"`
	PatientID      *int64             `json:"patient_id"`
	Status         *AppointmentStatus `json:"status"`
	StartDate      *time.Time         `json:"start_date"`
	EndDate        *time.Time         `json:"end_date"`
	Limit          int                `json:"limit"`
	Offset         int                `json:"offset"`
}
