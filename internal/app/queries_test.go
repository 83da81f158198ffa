package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rent_my_house/internal/app"
	"rent_my_house/internal/domain"
)

func TestGetReservation_CacheMissThenHit(t *testing.T) {
	f := newFixture(t)
	q := app.NewQueryService(f.reservations, f.cache, 10*time.Minute)

	// Miss (first time, populates cache)
	rv, err := q.GetReservation(context.Background(), "reservation-id")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rv.ID != "reservation-id" || rv.Status != domain.StatusPending || rv.StartDate != "2022-01-01" {
		t.Fatalf("unexpected view: %+v", rv)
	}

	// Mutate the store to prove the second read comes from cache
	mutated := f.reservations.store["reservation-id"]
	mutated.Status = domain.StatusRejected
	f.reservations.store["reservation-id"] = mutated

	rv2, err := q.GetReservation(context.Background(), "reservation-id")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rv2.Status != domain.StatusPending {
		t.Fatalf("expected cached PENDING, got %s", rv2.Status)
	}
}

func TestGetReservation_NotFound(t *testing.T) {
	f := newFixture(t)
	q := app.NewQueryService(f.reservations, f.cache, 10*time.Minute)

	_, err := q.GetReservation(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
