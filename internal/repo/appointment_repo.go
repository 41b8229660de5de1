// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Appointment model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They carry no business rules: status
// transition checks live in the services package.
//
// Error semantics:
//   - When an appointment is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound).
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/victoria-clinic/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateAppointment inserts a. ID and timestamps are filled when empty and
// Status defaults to "new".
func CreateAppointment(ctx context.Context, db *gorm.DB, a *domain.Appointment) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	if a.Status == "" {
		a.Status = domain.StatusNew
	}
	return db.WithContext(ctx).Create(a).Error
}

// GetAppointment fetches one appointment by id.
func GetAppointment(ctx context.Context, db *gorm.DB, id string) (*domain.Appointment, error) {
	var a domain.Appointment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// CountAppointments returns the total number of appointments.
func CountAppointments(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Appointment{}).Count(&total).Error
	return total, err
}

// ListAppointmentsPage returns appointments newest first. The caller computes
// offset and limit; use CountAppointments for pagination metadata.
func ListAppointmentsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListAppointments returns every appointment, newest first.
func ListAppointments(ctx context.Context, db *gorm.DB) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// UpdateAppointmentStatus sets the status of appointment id. It returns
// ErrNotFound when no row matched.
func UpdateAppointmentStatus(ctx context.Context, db *gorm.DB, id string, status domain.AppointmentStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
