package app

import (
	"context"
	"time"

	"rent_my_house/internal/domain"
)

type QueryService struct {
	reservations domain.ReservationRepository
	cache        domain.Cache
	cacheTTL     time.Duration
}

func NewQueryService(r domain.ReservationRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{reservations: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetReservation(ctx context.Context, id string) (domain.ReservationView, error) {
	key := reservationKey(id)
	var rv domain.ReservationView
	if ok, _ := s.cache.Get(ctx, key, &rv); ok {
		return rv, nil
	}
	res, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return domain.ReservationView{}, err
	}
	rv = viewOf(res)
	_ = s.cache.Set(ctx, key, rv, int(s.cacheTTL.Seconds()))
	return rv, nil
}

func viewOf(r *domain.Reservation) domain.ReservationView {
	return domain.ReservationView{
		ID:        r.ID,
		HouseID:   r.HouseID,
		TenantID:  r.TenantID,
		StartDate: r.StartDate.Format(dateLayout),
		EndDate:   r.EndDate.Format(dateLayout),
		Status:    r.Status,
	}
}
