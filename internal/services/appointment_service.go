// Package services – AppointmentService
//
// This file implements the AppointmentService, which owns the lifecycle of a
// lead submitted through the landing page: validation, atomic persistence
// (optionally deduplicated by an Idempotency-Key), the status machine driven
// from the admin panel, and the Telegram notice sent to staff.
//
// Notification is best effort. Its outcome is logged and never turns a
// stored appointment into a failed request.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/victoria-clinic/internal/domain"
	"github.com/tbourn/victoria-clinic/internal/repo"
	"github.com/tbourn/victoria-clinic/internal/schema"
	"github.com/tbourn/victoria-clinic/internal/telegram"
	"github.com/tbourn/victoria-clinic/internal/utils"
)

// IdempotencyScopeAppointments namespaces Idempotency-Key records created by
// appointment submissions.
const IdempotencyScopeAppointments = "POST /api/appointments"

// AppointmentRepo defines the repository contract required by AppointmentService.
type AppointmentRepo interface {
	// CreateAppointment inserts a new appointment row.
	CreateAppointment(ctx context.Context, db *gorm.DB, a *domain.Appointment) error

	// GetAppointment fetches an appointment by ID.
	GetAppointment(ctx context.Context, db *gorm.DB, id string) (*domain.Appointment, error)

	// CountAppointments returns the total number of appointments for pagination.
	CountAppointments(ctx context.Context, db *gorm.DB) (int64, error)

	// ListAppointmentsPage returns a page of appointments, newest first.
	ListAppointmentsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Appointment, error)

	// ListAppointments returns every appointment, newest first.
	ListAppointments(ctx context.Context, db *gorm.DB) ([]domain.Appointment, error)

	// UpdateAppointmentStatus overwrites the status of one appointment.
	UpdateAppointmentStatus(ctx context.Context, db *gorm.DB, id string, status domain.AppointmentStatus) error
}

// Broadcaster delivers a text notice to staff.
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) telegram.BroadcastResult
}

// AppointmentService provides appointment use-cases.
type AppointmentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the appointment repository used by this service.
	Repo AppointmentRepo
	// Notifier receives a notice for every new appointment. May be nil.
	Notifier Broadcaster
	// IdempotencyTTL bounds how long an Idempotency-Key is remembered.
	IdempotencyTTL time.Duration
}

// NewAppointmentService constructs an AppointmentService with a 24h
// idempotency window.
func NewAppointmentService(db *gorm.DB, r AppointmentRepo, n Broadcaster) *AppointmentService {
	return &AppointmentService{
		DB:             db,
		Repo:           r,
		Notifier:       n,
		IdempotencyTTL: 24 * time.Hour,
	}
}

// Create validates in and stores a new appointment with status "new".
// Validation failures are returned as schema.FieldErrors; nothing is written.
func (s *AppointmentService) Create(ctx context.Context, in schema.AppointmentCreate) (*domain.Appointment, error) {
	a, _, err := s.CreateWithKey(ctx, in, "")
	return a, err
}

// CreateWithKey behaves like Create. When key is non-empty and an unexpired
// record for it exists, the original appointment is returned with
// replayed=true and nothing new is stored. The appointment and its key are
// written in the same transaction.
func (s *AppointmentService) CreateWithKey(ctx context.Context, in schema.AppointmentCreate, key string) (a *domain.Appointment, replayed bool, err error) {
	if err := in.Validate(); err != nil {
		return nil, false, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if key != "" {
			prev, err := s.lookupReplay(ctx, tx, key)
			if err != nil {
				return err
			}
			if prev != nil {
				a, replayed = prev, true
				return nil
			}
		}

		a = &domain.Appointment{
			Name:               in.Name,
			Phone:              in.Phone,
			Service:            in.Service,
			Status:             domain.StatusNew,
			AgreedToProcessing: in.AgreedToProcessing,
			AgreedToNewsletter: in.AgreedToNewsletter,
			Comment:            in.Comment,
		}
		if err := s.Repo.CreateAppointment(ctx, tx, a); err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		if key != "" {
			if err := repo.DeleteExpiredIdempotencyKey(ctx, tx, IdempotencyScopeAppointments, key, time.Now().UTC()); err != nil {
				return err
			}
			if _, err := repo.CreateIdempotency(ctx, tx, IdempotencyScopeAppointments, key, a.ID, 201, s.ttl()); err != nil {
				return err
			}
		}
		return nil
	})

	// A concurrent request with the same key won the insert; serve its result.
	if errors.Is(err, repo.ErrDuplicate) {
		prev, lerr := s.lookupReplay(ctx, s.DB.WithContext(ctx), key)
		if lerr != nil {
			return nil, false, lerr
		}
		if prev != nil {
			appointmentsReplayed.Inc()
			return prev, true, nil
		}
		return nil, false, err
	}
	if err != nil {
		return nil, false, err
	}
	if replayed {
		appointmentsReplayed.Inc()
	} else {
		appointmentsCreated.Inc()
	}
	return a, replayed, nil
}

// lookupReplay returns the appointment recorded for key, or nil when the key
// is unknown or expired.
func (s *AppointmentService) lookupReplay(ctx context.Context, db *gorm.DB, key string) (*domain.Appointment, error) {
	rec, err := repo.GetIdempotency(ctx, db, IdempotencyScopeAppointments, key, time.Now().UTC())
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a, err := s.Repo.GetAppointment(ctx, db, rec.ResourceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return a, err
}

func (s *AppointmentService) ttl() time.Duration {
	if s.IdempotencyTTL > 0 {
		return s.IdempotencyTTL
	}
	return 24 * time.Hour
}

// Get returns one appointment or ErrAppointmentNotFound.
func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	a, err := s.Repo.GetAppointment(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppointmentNotFound
	}
	return a, err
}

// ListPage returns a page of appointments, newest first, with the total count.
// Out-of-range page/pageSize values are clamped.
func (s *AppointmentService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Appointment, int64, error) {
	page, pageSize = utils.NormalizePage(page, pageSize)
	offset := utils.Offset(page, pageSize)

	total, err := s.Repo.CountAppointments(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Appointment{}, 0, nil
	}

	items, err := s.Repo.ListAppointmentsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// ListAll returns every appointment, newest first.
func (s *AppointmentService) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	return s.Repo.ListAppointments(ctx, s.DB)
}

// StatusCounts returns the number of appointments in each status. Every
// status is present in the result.
func (s *AppointmentService) StatusCounts(ctx context.Context) (map[domain.AppointmentStatus]int64, error) {
	counts, err := repo.AppointmentStatusCounts(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	for _, st := range []domain.AppointmentStatus{domain.StatusNew, domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled} {
		if _, ok := counts[st]; !ok {
			counts[st] = 0
		}
	}
	return counts, nil
}

// UpdateStatus moves appointment id to the status named by raw.
//
// Errors:
//   - ErrInvalidStatus for an unknown status value.
//   - ErrAppointmentNotFound when id does not exist.
//   - ErrIllegalTransition when the status machine forbids the move.
//
// Requesting the current status succeeds without writing.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id, raw string) (*domain.Appointment, error) {
	next, ok := domain.ParseAppointmentStatus(raw)
	if !ok {
		return nil, ErrInvalidStatus
	}

	var out *domain.Appointment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := s.Repo.GetAppointment(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}
		if !cur.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, cur.Status, next)
		}
		if cur.Status == next {
			out = cur
			return nil
		}
		if err := s.Repo.UpdateAppointmentStatus(ctx, tx, id, next); err != nil {
			return err
		}
		out, err = s.Repo.GetAppointment(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Notify sends the staff notice for a. The result is logged and returned;
// delivery problems never surface as errors.
func (s *AppointmentService) Notify(ctx context.Context, a *domain.Appointment) telegram.BroadcastResult {
	if s.Notifier == nil || a == nil {
		return telegram.BroadcastResult{Message: telegram.NoRecipientsMessage}
	}
	text := telegram.FormatAppointmentNotice(a.Name, a.Phone, a.Service, a.Comment)
	res := s.Notifier.Broadcast(ctx, text)

	lg := zerolog.Ctx(ctx)
	ev := lg.Info()
	if res.Failed > 0 || res.Total == 0 {
		ev = lg.Warn()
	}
	ev.Str("appointment_id", a.ID).
		Int("success", res.Success).
		Int("failed", res.Failed).
		Int("total", res.Total).
		Msg("appointment notice broadcast")
	return res
}
