package domain

import "fmt"

// CalendarEntry mirrors one reservation's status on the house calendar.
// It is never mutated independently of the reservation it shadows.
type CalendarEntry struct {
	ID     string // reservation id
	Status ReservationStatus
}

// HouseCalendar holds one entry per reservation made against the house.
type HouseCalendar struct {
	HouseID string
	Entries map[string]*CalendarEntry
}

func NewHouseCalendar(houseID string) *HouseCalendar {
	return &HouseCalendar{HouseID: houseID, Entries: map[string]*CalendarEntry{}}
}

func (c *HouseCalendar) AddReservation(r *Reservation) {
	c.Entries[r.ID] = &CalendarEntry{ID: r.ID, Status: r.Status}
}

func (c *HouseCalendar) FindEntry(reservationID string) (*CalendarEntry, error) {
	e, ok := c.Entries[reservationID]
	if !ok {
		return nil, fmt.Errorf("%w: calendar entry %s", ErrNotFound, reservationID)
	}
	return e, nil
}

func (c *HouseCalendar) Accept(reservationID string) error {
	return c.transition(reservationID, StatusAccepted)
}

func (c *HouseCalendar) Reject(reservationID string) error {
	return c.transition(reservationID, StatusRejected)
}

func (c *HouseCalendar) transition(reservationID string, to ReservationStatus) error {
	e, err := c.FindEntry(reservationID)
	if err != nil {
		return err
	}
	if e.Status != StatusPending {
		return fmt.Errorf("%w: calendar entry %s is %s", ErrInvalidState, e.ID, e.Status)
	}
	e.Status = to
	return nil
}
