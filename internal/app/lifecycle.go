package app

import (
	"context"
	"fmt"

	"rent_my_house/internal/domain"
)

// LifecycleService owns the accept/reject transitions of a reservation.
// Each call is a straight-line sequence: load, authorize, transition both the
// reservation and its calendar entry, persist, notify. Concurrent calls on the
// same reservation race at the repository layer; the loser sees a non-PENDING
// status and fails with ErrInvalidState.
type LifecycleService struct {
	reservations domain.ReservationRepository
	houses       domain.HouseRepository
	calendars    domain.HouseCalendarRepository
	users        domain.UserRepository
	requester    domain.RequesterProvider
	notifier     domain.Notifier
	cache        domain.Cache
}

func NewLifecycleService(
	reservations domain.ReservationRepository,
	houses domain.HouseRepository,
	calendars domain.HouseCalendarRepository,
	users domain.UserRepository,
	requester domain.RequesterProvider,
	notifier domain.Notifier,
	cache domain.Cache,
) *LifecycleService {
	return &LifecycleService{
		reservations: reservations,
		houses:       houses,
		calendars:    calendars,
		users:        users,
		requester:    requester,
		notifier:     notifier,
		cache:        cache,
	}
}

type transition struct {
	apply         func(*domain.Reservation) error
	applyEntry    func(*domain.HouseCalendar, string) error
	tenantSubject string
	tenantBody    string
	ownerSubject  string
	ownerBody     string
}

// AcceptReservation transitions a PENDING reservation to ACCEPTED.
// Only the owner of the reserved house may call it.
func (s *LifecycleService) AcceptReservation(ctx context.Context, reservationID string) (string, error) {
	return s.run(ctx, reservationID, transition{
		apply:         (*domain.Reservation).Accept,
		applyEntry:    (*domain.HouseCalendar).Accept,
		tenantSubject: "Reservation accepted",
		tenantBody:    "Your reservation has been accepted by the owner.",
		ownerSubject:  "Acceptance confirmation",
		ownerBody:     "You accepted the reservation.",
	})
}

// RejectReservation is the symmetric transition to REJECTED.
func (s *LifecycleService) RejectReservation(ctx context.Context, reservationID string) (string, error) {
	return s.run(ctx, reservationID, transition{
		apply:         (*domain.Reservation).Reject,
		applyEntry:    (*domain.HouseCalendar).Reject,
		tenantSubject: "Reservation rejected",
		tenantBody:    "Your reservation has been rejected by the owner.",
		ownerSubject:  "Rejection confirmation",
		ownerBody:     "You rejected the reservation.",
	})
}

func (s *LifecycleService) run(ctx context.Context, reservationID string, t transition) (string, error) {
	res, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return "", err
	}

	house, err := s.houses.FindByID(ctx, res.HouseID)
	if err != nil {
		return "", err
	}

	req, err := s.requester.Current(ctx)
	if err != nil {
		return "", err
	}
	if req.ID != house.OwnerID {
		return "", fmt.Errorf("%w: only the house owner may decide on reservation %s", domain.ErrForbidden, reservationID)
	}

	if err := t.apply(res); err != nil {
		return "", err
	}
	if err := s.reservations.Save(ctx, res); err != nil {
		return "", err
	}

	cal, err := s.calendars.FindByID(ctx, res.HouseID)
	if err != nil {
		return "", err
	}
	if err := t.applyEntry(cal, res.ID); err != nil {
		return "", err
	}
	// The reservation write already landed; retry the calendar write once so a
	// transient failure cannot leave the two stores disagreeing.
	if err := s.calendars.Save(ctx, cal); err != nil {
		if err2 := s.calendars.Save(ctx, cal); err2 != nil {
			return "", fmt.Errorf("calendar save for house %s: %w", cal.HouseID, err2)
		}
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, reservationKey(res.ID))
	}

	tenant, err := s.users.FindByID(ctx, res.TenantID)
	if err != nil {
		return "", err
	}
	owner, err := s.users.FindByID(ctx, house.OwnerID)
	if err != nil {
		return "", err
	}

	// Exactly two messages, tenant first. Delivery failures never undo the
	// transition; the notifier adapter is responsible for reporting them.
	_ = s.notifier.Send(ctx, tenant.Email, t.tenantSubject, t.tenantBody)
	_ = s.notifier.Send(ctx, owner.Email, t.ownerSubject, t.ownerBody)

	return res.ID, nil
}

func reservationKey(id string) string { return "reservation:" + id }
