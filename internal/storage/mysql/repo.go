package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"rent_my_house/internal/domain"
)

type ReservationRepo struct{ db *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

func (r *ReservationRepo) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	row := r.db.QueryRowContext(ctx, getReservationSQL, id)

	var res domain.Reservation
	var status string
	if err := row.Scan(&res.ID, &res.HouseID, &res.TenantID, &res.StartDate, &res.EndDate, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: reservation %s", domain.ErrNotFound, id)
		}
		return nil, err
	}
	res.Status = domain.ReservationStatus(status)
	return &res, nil
}

func (r *ReservationRepo) Save(ctx context.Context, res *domain.Reservation) error {
	_, err := r.db.ExecContext(ctx, upsertReservationSQL,
		res.ID, res.HouseID, res.TenantID, res.StartDate, res.EndDate, string(res.Status))
	return err
}

type HouseRepo struct{ db *sql.DB }

func NewHouseRepo(db *sql.DB) *HouseRepo { return &HouseRepo{db: db} }

func (r *HouseRepo) FindByID(ctx context.Context, id string) (*domain.House, error) {
	row := r.db.QueryRowContext(ctx, getHouseSQL, id)

	var h domain.House
	if err := row.Scan(&h.ID, &h.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: house %s", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return &h, nil
}

// Save is used by provisioning and tests; the lifecycle core never writes houses.
func (r *HouseRepo) Save(ctx context.Context, h *domain.House) error {
	_, err := r.db.ExecContext(ctx, upsertHouseSQL, h.ID, h.OwnerID)
	return err
}

type HouseCalendarRepo struct{ db *sql.DB }

func NewHouseCalendarRepo(db *sql.DB) *HouseCalendarRepo { return &HouseCalendarRepo{db: db} }

func (r *HouseCalendarRepo) FindByID(ctx context.Context, houseID string) (*domain.HouseCalendar, error) {
	rows, err := r.db.QueryContext(ctx, getCalendarEntriesSQL, houseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cal := domain.NewHouseCalendar(houseID)
	for rows.Next() {
		var id, status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		cal.Entries[id] = &domain.CalendarEntry{ID: id, Status: domain.ReservationStatus(status)}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// A calendar exists iff at least one reservation was made against the house.
	if len(cal.Entries) == 0 {
		return nil, fmt.Errorf("%w: calendar for house %s", domain.ErrNotFound, houseID)
	}
	return cal, nil
}

// Save replaces the calendar's entry rows in one transaction so readers never
// observe a half-written calendar.
func (r *HouseCalendarRepo) Save(ctx context.Context, c *domain.HouseCalendar) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteCalendarEntriesSQL, c.HouseID); err != nil {
		return err
	}
	if len(c.Entries) > 0 {
		values := make([]string, 0, len(c.Entries))
		args := make([]any, 0, len(c.Entries)*3)
		for _, e := range c.Entries {
			values = append(values, "(?,?,?)")
			args = append(args, c.HouseID, e.ID, string(e.Status))
		}
		sqlStr := insertCalendarEntriesPrefix + strings.Join(values, ",")
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, getUserSQL, id)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return &u, nil
}

// Save is used by provisioning and tests; the lifecycle core reads users only.
func (r *UserRepo) Save(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, upsertUserSQL, u.ID, u.Email)
	return err
}
