package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rent_my_house/internal/domain"
)

const dateLayout = "2006-01-02"

// ReserveService creates PENDING reservations on behalf of the requester.
type ReserveService struct {
	reservations domain.ReservationRepository
	houses       domain.HouseRepository
	calendars    domain.HouseCalendarRepository
	requester    domain.RequesterProvider
}

func NewReserveService(
	reservations domain.ReservationRepository,
	houses domain.HouseRepository,
	calendars domain.HouseCalendarRepository,
	requester domain.RequesterProvider,
) *ReserveService {
	return &ReserveService{
		reservations: reservations,
		houses:       houses,
		calendars:    calendars,
		requester:    requester,
	}
}

// ReserveHouse records a stay request for the given house and date range and
// returns the new reservation id. The requester becomes the tenant.
func (s *ReserveService) ReserveHouse(ctx context.Context, houseID, startDate, endDate string) (string, error) {
	house, err := s.houses.FindByID(ctx, houseID)
	if err != nil {
		return "", err
	}

	req, err := s.requester.Current(ctx)
	if err != nil {
		return "", err
	}

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return "", fmt.Errorf("%w: start date %q", domain.ErrValidation, startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return "", fmt.Errorf("%w: end date %q", domain.ErrValidation, endDate)
	}

	res, err := domain.NewReservation(uuid.NewString(), house.ID, req.ID, start, end)
	if err != nil {
		return "", err
	}
	if err := s.reservations.Save(ctx, res); err != nil {
		return "", err
	}

	// The calendar entry exists iff the reservation does; a house without any
	// prior reservation gets its calendar created here.
	cal, err := s.calendars.FindByID(ctx, house.ID)
	if errors.Is(err, domain.ErrNotFound) {
		cal = domain.NewHouseCalendar(house.ID)
	} else if err != nil {
		return "", err
	}
	cal.AddReservation(res)
	if err := s.calendars.Save(ctx, cal); err != nil {
		return "", err
	}

	return res.ID, nil
}
