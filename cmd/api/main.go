package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	server "rent_my_house/internal/adapters/http_server"
	"rent_my_house/internal/adapters/mailer"
	"rent_my_house/internal/adapters/observability"
	redisad "rent_my_house/internal/adapters/redis"
	"rent_my_house/internal/app"
	"rent_my_house/internal/shared"
	mysqlrepo "rent_my_house/internal/storage/mysql"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	reservations := mysqlrepo.NewReservationRepo(db)
	houses := mysqlrepo.NewHouseRepo(db)
	calendars := mysqlrepo.NewHouseCalendarRepo(db)
	users := mysqlrepo.NewUserRepo(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	notifier, err := mailer.New(cfg.AMQPURL)
	if err != nil {
		log.Fatal().Err(err).Msg("amqp connect failed")
	}
	defer func() { _ = notifier.Close() }()

	provider := server.RequesterProvider{}
	lifecycle := app.NewLifecycleService(reservations, houses, calendars, users, provider, notifier, cache)
	reserve := app.NewReserveService(reservations, houses, calendars, provider)
	q := app.NewQueryService(reservations, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Lifecycle: lifecycle,
		Reserve:   reserve,
		Q:         q,
		JWTSecret: cfg.JWTSecret,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
