package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/victoria-clinic/internal/domain"
)

func newAppointment(name string) *domain.Appointment {
	return &domain.Appointment{
		Name:               name,
		Phone:              "+79991234567",
		AgreedToProcessing: true,
	}
}

func TestCreateAppointment_Error_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	if err := CreateAppointment(context.Background(), db, newAppointment("Анна")); err == nil {
		t.Fatalf("expected error creating without table")
	}
}

func TestCreateAppointment_DefaultsAndRoundTrip(t *testing.T) {
	db := newTestDB(t, &domain.Appointment{})
	ctx := context.Background()

	start := time.Now().UTC().Add(-time.Minute)
	a := newAppointment("Анна")
	if err := CreateAppointment(ctx, db, a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if a.ID == "" || a.Status != domain.StatusNew || a.CreatedAt.Before(start) {
		t.Fatalf("unexpected fields after create: %+v", a)
	}

	got, err := GetAppointment(ctx, db, a.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if got.Name != "Анна" || got.Phone != "+79991234567" || got.Status != domain.StatusNew || got.AgreedToNewsletter {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestCreateAppointment_RejectsMissingConsent(t *testing.T) {
	db := newTestDB(t, &domain.Appointment{})
	a := newAppointment("Анна")
	a.AgreedToProcessing = false
	if err := CreateAppointment(context.Background(), db, a); err == nil {
		t.Fatalf("expected CHECK constraint failure for missing consent")
	}
}

func TestGetAppointment_NotFound(t *testing.T) {
	db := newTestDB(t, &domain.Appointment{})
	if _, err := GetAppointment(context.Background(), db, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAppointmentsPage_OrderAndCount(t *testing.T) {
	db := newTestDB(t, &domain.Appointment{})
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "mid", "new"} {
		a := newAppointment(name)
		a.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := CreateAppointment(ctx, db, a); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	total, err := CountAppointments(ctx, db)
	if err != nil || total != 3 {
		t.Fatalf("CountAppointments = %d, %v", total, err)
	}

	page, err := ListAppointmentsPage(ctx, db, 0, 2)
	if err != nil {
		t.Fatalf("ListAppointmentsPage: %v", err)
	}
	if len(page) != 2 || page[0].Name != "new" || page[1].Name != "mid" {
		t.Fatalf("unexpected first page: %+v", page)
	}
	page, _ = ListAppointmentsPage(ctx, db, 2, 2)
	if len(page) != 1 || page[0].Name != "old" {
		t.Fatalf("unexpected second page: %+v", page)
	}

	all, err := ListAppointments(ctx, db)
	if err != nil || len(all) != 3 || all[0].Name != "new" {
		t.Fatalf("ListAppointments = %+v, %v", all, err)
	}
}

func TestUpdateAppointmentStatus(t *testing.T) {
	db := newTestDB(t, &domain.Appointment{})
	ctx := context.Background()

	a := newAppointment("Анна")
	if err := CreateAppointment(ctx, db, a); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := UpdateAppointmentStatus(ctx, db, a.ID, domain.StatusConfirmed); err != nil {
		t.Fatalf("UpdateAppointmentStatus: %v", err)
	}
	got, _ := GetAppointment(ctx, db, a.ID)
	if got.Status != domain.StatusConfirmed || !got.UpdatedAt.After(a.UpdatedAt.Add(-time.Second)) {
		t.Fatalf("status not updated: %+v", got)
	}

	if err := UpdateAppointmentStatus(ctx, db, "missing", domain.StatusConfirmed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
