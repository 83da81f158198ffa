//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"rent_my_house/internal/domain"
	mysqlrepo "rent_my_house/internal/storage/mysql"
)

// ---------- small helpers ----------
func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=rentmyhouse",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "rentmyhouse")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

// ---------- the tests ----------
func TestRepos_MySQL_ReservationRoundTrip(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	reservations := mysqlrepo.NewReservationRepo(db)
	houses := mysqlrepo.NewHouseRepo(db)
	users := mysqlrepo.NewUserRepo(db)

	// Arrange
	if err := users.Save(ctx, &domain.User{ID: "owner-id", Email: "owner@gmail.com"}); err != nil {
		t.Fatalf("save owner: %v", err)
	}
	if err := users.Save(ctx, &domain.User{ID: "tenant-id", Email: "tenant@gmail.com"}); err != nil {
		t.Fatalf("save tenant: %v", err)
	}
	if err := houses.Save(ctx, &domain.House{ID: "house-id", OwnerID: "owner-id"}); err != nil {
		t.Fatalf("save house: %v", err)
	}

	res, err := domain.NewReservation("reservation-id", "house-id", "tenant-id",
		day(t, "2022-01-01"), day(t, "2022-01-02"))
	if err != nil {
		t.Fatalf("new reservation: %v", err)
	}
	if err := reservations.Save(ctx, res); err != nil {
		t.Fatalf("save reservation: %v", err)
	}

	// Read back
	got, err := reservations.FindByID(ctx, "reservation-id")
	if err != nil {
		t.Fatalf("find reservation: %v", err)
	}
	if got.Status != domain.StatusPending || got.HouseID != "house-id" || got.TenantID != "tenant-id" {
		t.Fatalf("unexpected reservation: %+v", got)
	}
	if !got.StartDate.Equal(day(t, "2022-01-01")) || !got.EndDate.Equal(day(t, "2022-01-02")) {
		t.Fatalf("dates did not round-trip: %v .. %v", got.StartDate, got.EndDate)
	}

	// Transition and upsert the same row
	if err := got.Accept(); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := reservations.Save(ctx, got); err != nil {
		t.Fatalf("save accepted: %v", err)
	}
	again, err := reservations.FindByID(ctx, "reservation-id")
	if err != nil {
		t.Fatalf("find accepted: %v", err)
	}
	if again.Status != domain.StatusAccepted {
		t.Fatalf("status = %s, want ACCEPTED", again.Status)
	}

	// Misses map to the domain error
	if _, err := reservations.FindByID(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := houses.FindByID(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := users.FindByID(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRepos_MySQL_CalendarReplaceSemantics(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	calendars := mysqlrepo.NewHouseCalendarRepo(db)

	if _, err := calendars.FindByID(ctx, "house-id"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for absent calendar", err)
	}

	cal := domain.NewHouseCalendar("house-id")
	cal.Entries["r-1"] = &domain.CalendarEntry{ID: "r-1", Status: domain.StatusPending}
	cal.Entries["r-2"] = &domain.CalendarEntry{ID: "r-2", Status: domain.StatusPending}
	if err := calendars.Save(ctx, cal); err != nil {
		t.Fatalf("save calendar: %v", err)
	}

	got, err := calendars.FindByID(ctx, "house-id")
	if err != nil {
		t.Fatalf("find calendar: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(got.Entries))
	}

	// Flip one entry and save again; the write must fully replace the rows.
	if err := got.Accept("r-1"); err != nil {
		t.Fatalf("accept entry: %v", err)
	}
	if err := calendars.Save(ctx, got); err != nil {
		t.Fatalf("save updated calendar: %v", err)
	}
	final, err := calendars.FindByID(ctx, "house-id")
	if err != nil {
		t.Fatalf("find updated calendar: %v", err)
	}
	if final.Entries["r-1"].Status != domain.StatusAccepted {
		t.Fatalf("r-1 status = %s, want ACCEPTED", final.Entries["r-1"].Status)
	}
	if final.Entries["r-2"].Status != domain.StatusPending {
		t.Fatalf("r-2 status = %s, want PENDING", final.Entries["r-2"].Status)
	}
}
