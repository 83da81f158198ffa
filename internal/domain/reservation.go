package domain

import (
	"fmt"
	"time"
)

type ReservationStatus string

const (
	StatusPending  ReservationStatus = "PENDING"
	StatusAccepted ReservationStatus = "ACCEPTED"
	StatusRejected ReservationStatus = "REJECTED"
)

// Reservation is a tenant's request to stay at a house for a date range.
// Status moves one way: PENDING -> ACCEPTED or PENDING -> REJECTED.
type Reservation struct {
	ID        string
	HouseID   string
	TenantID  string
	StartDate time.Time
	EndDate   time.Time
	Status    ReservationStatus
}

func NewReservation(id, houseID, tenantID string, start, end time.Time) (*Reservation, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start date must be before end date", ErrValidation)
	}
	return &Reservation{
		ID:        id,
		HouseID:   houseID,
		TenantID:  tenantID,
		StartDate: start,
		EndDate:   end,
		Status:    StatusPending,
	}, nil
}

func (r *Reservation) Accept() error {
	if r.Status != StatusPending {
		return fmt.Errorf("%w: reservation %s is %s", ErrInvalidState, r.ID, r.Status)
	}
	r.Status = StatusAccepted
	return nil
}

func (r *Reservation) Reject() error {
	if r.Status != StatusPending {
		return fmt.Errorf("%w: reservation %s is %s", ErrInvalidState, r.ID, r.Status)
	}
	r.Status = StatusRejected
	return nil
}
