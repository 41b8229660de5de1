package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/victoria-clinic/internal/domain"
	"github.com/tbourn/victoria-clinic/internal/repo"
	"github.com/tbourn/victoria-clinic/internal/telegram"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// repoShim proxies the repo free functions, as the HTTP wiring does.
type repoShim struct{}

func (repoShim) CreateAppointment(ctx context.Context, db *gorm.DB, a *domain.Appointment) error {
	return repo.CreateAppointment(ctx, db, a)
}
func (repoShim) GetAppointment(ctx context.Context, db *gorm.DB, id string) (*domain.Appointment, error) {
	return repo.GetAppointment(ctx, db, id)
}
func (repoShim) CountAppointments(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountAppointments(ctx, db)
}
func (repoShim) ListAppointmentsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Appointment, error) {
	return repo.ListAppointmentsPage(ctx, db, offset, limit)
}
func (repoShim) ListAppointments(ctx context.Context, db *gorm.DB) ([]domain.Appointment, error) {
	return repo.ListAppointments(ctx, db)
}
func (repoShim) UpdateAppointmentStatus(ctx context.Context, db *gorm.DB, id string, st domain.AppointmentStatus) error {
	return repo.UpdateAppointmentStatus(ctx, db, id, st)
}

// recordingNotifier captures broadcast texts.
type recordingNotifier struct {
	mu    sync.Mutex
	texts []string
	res   telegram.BroadcastResult
}

func (r *recordingNotifier) Broadcast(_ context.Context, text string) telegram.BroadcastResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return r.res
}
