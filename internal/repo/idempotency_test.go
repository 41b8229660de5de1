package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/victoria-clinic/internal/domain"
)

func newIdemDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid schema leakage across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestGetIdempotency_BlankKey_ReturnsNotFound(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	rec, err := GetIdempotency(context.Background(), db, "appointments", "   ", now)
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for blank key, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID:         "expired",
		Scope:      "appointments",
		Key:        "k1",
		ResourceID: "a1",
		Status:     201,
		CreatedAt:  now.Add(-2 * time.Hour),
		ExpiresAt:  now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	rec, err := GetIdempotency(context.Background(), db, "appointments", "k1", now)
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for expired, got (%v, %v)", rec, err)
	}

	rec2, err2 := GetIdempotency(context.Background(), db, "appointments", "missing", now)
	if rec2 != nil || err2 != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for missing, got (%v, %v)", rec2, err2)
	}
}

func TestGetIdempotency_ScopeIsolation(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "appointments", "k2", "a1", 201, time.Hour); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, err := GetIdempotency(ctx, db, "appointments", "k2", time.Now().UTC())
	if err != nil || rec.ResourceID != "a1" || rec.Status != 201 {
		t.Fatalf("unexpected lookup result: rec=%+v err=%v", rec, err)
	}
	if _, err := GetIdempotency(ctx, db, "reviews", "k2", time.Now().UTC()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound in other scope, got %v", err)
	}
}

func TestCreateIdempotency_SuccessAndDuplicate(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})

	ttl := 90 * time.Minute
	start := time.Now().UTC()

	rec, err := CreateIdempotency(context.Background(), db, "appointments", "k9", "a9", 201, ttl)
	if err != nil {
		t.Fatalf("CreateIdempotency error: %v", err)
	}
	if rec == nil || rec.ID == "" || rec.Scope != "appointments" || rec.Key != "k9" || rec.ResourceID != "a9" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !(rec.ExpiresAt.After(start) && rec.ExpiresAt.Before(start.Add(2*time.Hour))) {
		t.Fatalf("unexpected ExpiresAt: %v", rec.ExpiresAt)
	}

	_, err2 := CreateIdempotency(context.Background(), db, "appointments", "k9", "aX", 201, ttl)
	if err2 != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err2)
	}

	// Same key under another scope is a distinct record.
	if _, err := CreateIdempotency(context.Background(), db, "reviews", "k9", "r1", 201, ttl); err != nil {
		t.Fatalf("expected success in other scope, got %v", err)
	}
}

// Generic DB error path: attempt insert without migrating the table.
func TestCreateIdempotency_Error_NoTable(t *testing.T) {
	db := newIdemDB(t)
	_, err := CreateIdempotency(context.Background(), db, "appointments", "kX", "aX", 201, time.Minute)
	if err == nil {
		t.Fatalf("expected error when table is missing")
	}
	if err == ErrDuplicate {
		t.Fatalf("expected non-duplicate error, got ErrDuplicate")
	}
}

func TestDeleteExpiredIdempotency(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	for i, exp := range []time.Time{now.Add(-time.Minute), now.Add(-time.Hour), now.Add(time.Hour)} {
		rec := &domain.Idempotency{
			ID: fmt.Sprintf("i%d", i), Scope: "appointments", Key: fmt.Sprintf("k%d", i),
			ResourceID: "a", Status: 201, CreatedAt: now, ExpiresAt: exp,
		}
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	n, err := DeleteExpiredIdempotency(context.Background(), db, now)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 deleted, got n=%d err=%v", n, err)
	}
	var left int64
	db.Model(&domain.Idempotency{}).Count(&left)
	if left != 1 {
		t.Fatalf("expected 1 remaining, got %d", left)
	}
}

func TestDeleteExpiredIdempotencyKey_OnlyExpiredMatchingKey(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	seed := []domain.Idempotency{
		{ID: "expired", Scope: "appointments", Key: "k1", ExpiresAt: now.Add(-time.Minute)},
		{ID: "live", Scope: "appointments", Key: "k2", ExpiresAt: now.Add(time.Hour)},
		{ID: "other-scope", Scope: "reviews", Key: "k1", ExpiresAt: now.Add(-time.Minute)},
	}
	for i := range seed {
		seed[i].ResourceID, seed[i].Status, seed[i].CreatedAt = "a", 201, now
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	ctx := context.Background()
	for _, key := range []string{"k1", "k2"} {
		if err := DeleteExpiredIdempotencyKey(ctx, db, "appointments", key, now); err != nil {
			t.Fatalf("delete %s: %v", key, err)
		}
	}

	var ids []string
	db.Model(&domain.Idempotency{}).Order("id").Pluck("id", &ids)
	if len(ids) != 2 || ids[0] != "live" || ids[1] != "other-scope" {
		t.Fatalf("remaining = %v; want [live other-scope]", ids)
	}
	if _, err := CreateIdempotency(ctx, db, "appointments", "k1", "b", 201, time.Hour); err != nil {
		t.Fatalf("key should be reusable after delete: %v", err)
	}
}
