// Package domain defines the persistence models for appointment requests and
// customer reviews. These types are mapped with GORM and form the core data
// layer of the clinic site.
package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseRecord carries the identity and timestamps shared by every stored
// record. It is embedded (not inherited) into concrete models.
//
// Fields:
//   - ID: UUID primary key (char(36)), assigned once at creation.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM; UpdatedAt is
//     refreshed on every update.
type BaseRecord struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// BeforeCreate assigns a UUID when the caller did not supply one.
func (b *BaseRecord) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// AppointmentStatus is the lifecycle state of an appointment request.
type AppointmentStatus string

const (
	StatusNew       AppointmentStatus = "new"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ParseAppointmentStatus maps a raw value onto a known status.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch st := AppointmentStatus(s); st {
	case StatusNew, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// Terminal reports whether no further transitions are allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether s may move to next.
//
//	new       → confirmed | cancelled
//	confirmed → completed | cancelled
//
// Staying in the same state is always allowed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusNew:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// Appointment is a lead submitted through the landing page form.
//
// Fields:
//   - Name: client name (1–100 chars).
//   - Phone: canonical +7XXXXXXXXXX form.
//   - Service: optional service the client picked.
//   - Status: lifecycle state, "new" on creation.
//   - AgreedToProcessing: personal data consent; always true for stored rows.
//   - AgreedToNewsletter: marketing consent, false by default.
//   - Comment: optional free text (≤500 chars).
type Appointment struct {
	BaseRecord
	Name               string            `json:"name"                 gorm:"type:varchar(100);not null"`
	Phone              string            `json:"phone"                gorm:"type:varchar(20);not null;index"`
	Service            *string           `json:"service,omitempty"    gorm:"type:varchar(200)"`
	Status             AppointmentStatus `json:"status"               gorm:"type:varchar(16);not null;default:'new';index;check:status IN ('new','confirmed','completed','cancelled')"`
	AgreedToProcessing bool              `json:"agreed_to_processing" gorm:"not null;check:agreed_to_processing"`
	AgreedToNewsletter bool              `json:"agreed_to_newsletter" gorm:"not null;default:false"`
	Comment            *string           `json:"comment,omitempty"    gorm:"type:text"`
}

// TableName returns the database table name for Appointment.
func (Appointment) TableName() string { return "appointments" }

// Review is a customer testimonial. Public submissions are stored
// unpublished and become visible only after moderation.
type Review struct {
	BaseRecord
	Name        string  `json:"name"                gorm:"type:varchar(100);not null"`
	Rating      int     `json:"rating"              gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Text        string  `json:"text"                gorm:"type:text;not null"`
	IsPublished bool    `json:"is_published"        gorm:"not null;default:false;index"`
	PhotoURL    *string `json:"photo_url,omitempty" gorm:"type:varchar(500)"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }
