// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used by the
// admin panel and the maintenance commands.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/victoria-clinic/internal/domain"
)

// ReviewCounts returns the total number of reviews and how many of them are
// published.
func ReviewCounts(ctx context.Context, db *gorm.DB) (total, published int64, err error) {
	q := db.WithContext(ctx).Model(&domain.Review{})
	if err = q.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if total == 0 {
		return 0, 0, nil
	}
	if err = db.WithContext(ctx).Model(&domain.Review{}).
		Where("is_published = ?", true).
		Count(&published).Error; err != nil {
		return 0, 0, err
	}
	return total, published, nil
}

// AppointmentStatusCounts returns the number of appointments per status.
// Statuses without rows are absent from the map.
func AppointmentStatusCounts(ctx context.Context, db *gorm.DB) (map[domain.AppointmentStatus]int64, error) {
	var rows []struct {
		Status domain.AppointmentStatus
		N      int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.AppointmentStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}
