package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/v1ih/quick-table-sub000/internal/config"
	"github.com/v1ih/quick-table-sub000/internal/database"
	"github.com/v1ih/quick-table-sub000/internal/handler"
	"github.com/v1ih/quick-table-sub000/internal/middleware"
	"github.com/v1ih/quick-table-sub000/internal/queue"
	"github.com/v1ih/quick-table-sub000/internal/repository"
	"github.com/v1ih/quick-table-sub000/internal/router"
	"github.com/v1ih/quick-table-sub000/internal/service"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	} else {
		defer rdb.Close()
	}

	// ---- Repositories ----
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	restaurants := repository.NewRestaurantRepo(db)
	tables := repository.NewTableRepo(db)
	reservations := repository.NewReservationRepo(db)
	ratings := repository.NewRatingRepo(db)
	favorites := repository.NewFavoriteRepo(db)

	// ---- Services ----
	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		events = service.NewAMQPPublisher(cfg.AMQPURL)
	}
	reservationSvc := service.NewReservationService(db, tables, restaurants, reservations, events)
	tableSvc := service.NewTableService(tables, restaurants)
	restaurantSvc := service.NewRestaurantService(restaurants)
	ratingSvc := service.NewRatingService(db, ratings, reservations, restaurants)
	favoriteSvc := service.NewFavoriteService(favorites, restaurants)

	// ---- HTTP ----
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(restaurantSvc, tableSvc, ratingSvc, cfg.RequestTimeout), cache)
	router.RegisterCustomer(e, handler.NewCustomerHandler(reservationSvc, ratingSvc, favoriteSvc, cfg.RequestTimeout), cfg.JWTSecret, limiter)
	owner := handler.NewOwnerHandler(restaurantSvc, tableSvc, reservationSvc, cfg.RequestTimeout)
	router.RegisterOwner(e, owner, cfg.JWTSecret)
	router.RegisterOwnerReservations(e, owner, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.EventsEnabled {
		go func() {
			if err := queue.StartReservationConsumer(ctx, cfg.AMQPURL, cfg.ReservationLog); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("reservation-consumer: stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
