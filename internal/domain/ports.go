package domain

import "context"

type ReservationRepository interface {
	FindByID(ctx context.Context, id string) (*Reservation, error)
	Save(ctx context.Context, r *Reservation) error
}

type HouseRepository interface {
	FindByID(ctx context.Context, id string) (*House, error)
}

type HouseCalendarRepository interface {
	FindByID(ctx context.Context, houseID string) (*HouseCalendar, error)
	Save(ctx context.Context, c *HouseCalendar) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
}

// Requester is the identity of the caller, resolved once per invocation.
type Requester struct{ ID string }

type RequesterProvider interface {
	Current(ctx context.Context) (Requester, error)
}

type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read model

type ReservationView struct {
	ID        string            `json:"id"`
	HouseID   string            `json:"houseId"`
	TenantID  string            `json:"tenantId"`
	StartDate string            `json:"startDate"` // YYYY-MM-DD
	EndDate   string            `json:"endDate"`
	Status    ReservationStatus `json:"status"`
}
