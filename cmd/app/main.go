package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/venuedesk/tableops/api"
	"github.com/venuedesk/tableops/config"
	"github.com/venuedesk/tableops/internal/bootstrap"
	"github.com/venuedesk/tableops/internal/cache"
	"github.com/venuedesk/tableops/internal/clock"
	"github.com/venuedesk/tableops/internal/database"
	"github.com/venuedesk/tableops/internal/kafka"
	"github.com/venuedesk/tableops/internal/repository"
	"github.com/venuedesk/tableops/internal/service/dashboard"
	"github.com/venuedesk/tableops/internal/service/registry"
	"github.com/venuedesk/tableops/internal/service/runtime"
	"github.com/venuedesk/tableops/internal/service/transition"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := database.ApplySchema(ctx, pool); err != nil {
		log.Fatalf("apply schema: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Venue.ResourcesCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	clk := clock.System()
	tableRepo := repository.NewTableRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	lockTTL := time.Duration(cfg.Venue.SeatLockTTLSeconds) * time.Second
	horizon := time.Duration(cfg.Venue.LookaheadHours) * time.Hour

	transitionService := transition.NewTransitionService(tableRepo, reservationRepo, redisCache, producer, cfg.Kafka.TableEventsTopic, lockTTL, clk)
	registryService := registry.NewRegistryService(tableRepo, redisCache, producer, cfg.Kafka.TableEventsTopic, clk)
	runtimeService := runtime.NewRuntimeService(tableRepo, reservationRepo, redisCache, clk, horizon)
	dashboardService := dashboard.NewDashboardService(runtimeService, orderRepo, clk)

	handlers := bootstrap.Handlers{
		Tables:       api.NewTableHandler(registryService, transitionService),
		Reservations: api.NewReservationHandler(transitionService),
		Floor:        api.NewFloorHandler(runtimeService),
		Dashboard:    api.NewDashboardHandler(dashboardService, cfg.Venue),
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
