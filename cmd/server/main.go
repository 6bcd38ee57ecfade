package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/skylane/flight-seat-booking/internal/clock"
	"github.com/skylane/flight-seat-booking/internal/config"
	"github.com/skylane/flight-seat-booking/internal/database"
	"github.com/skylane/flight-seat-booking/internal/handler"
	"github.com/skylane/flight-seat-booking/internal/lock"
	"github.com/skylane/flight-seat-booking/internal/middleware"
	"github.com/skylane/flight-seat-booking/internal/queue"
	"github.com/skylane/flight-seat-booking/internal/repository"
	"github.com/skylane/flight-seat-booking/internal/router"
	"github.com/skylane/flight-seat-booking/internal/seatmap"
	"github.com/skylane/flight-seat-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if cfg.Env == "development" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.WithError(err).Fatal("ensure schema")
	}
	cancel()

	// Redis is optional: without it the flight lock degrades to a
	// per-process mutex and caching/rate limiting switch off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, running with in-process locks only")
	}

	var publisher *service.BookingPublisher
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		q, err := queue.Connect(url)
		if err != nil {
			log.WithError(err).Warn("rabbitmq unavailable, booking events disabled")
		} else {
			defer q.Close()
			publisher = &service.BookingPublisher{Q: q, Log: log}
			if err := queue.StartConsumer(q, log, "logs/booking.log"); err != nil {
				log.WithError(err).Warn("booking consumer failed to start")
			}
		}
	}

	clk := clock.NewSystem()
	locks := lock.New(rdb)
	selector := seatmap.NewSelector(clk)

	flights := repository.NewFlightRepo(db)
	planes := repository.NewPlaneRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	// Admin accounts can otherwise only be minted by an existing admin,
	// so the first one is seeded from the environment.
	if email, pass := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"); email != "" && pass != "" {
		sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err := users.Create(sctx, email, pass, "ADMIN", cfg.BcryptCost)
		scancel()
		if err != nil && !errors.Is(err, repository.ErrEmailExists) {
			log.WithError(err).Fatal("seed admin account")
		}
	}

	authH := &handler.AuthHandler{Users: users, Tokens: tokens, Cfg: &cfg, Log: log}
	planeH := &handler.PlaneHandler{Planes: planes, Clock: clk, Log: log}
	flightH := &handler.FlightHandler{Flights: flights, Planes: planes, Locks: locks, Clock: clk, Log: log}
	bookingH := &handler.BookingHandler{
		Flights:  flights,
		Bookings: bookings,
		Locks:    locks,
		Selector: selector,
		Clock:    clk,
		Events:   publisher,
		Log:      log,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, flightH, cache)
	router.RegisterAdmin(e, planeH, flightH, bookingH, cfg.JWTSecret)
	router.RegisterBooking(e, bookingH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("server starting")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
