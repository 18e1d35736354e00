// README: Entry point; loads config, wires services, starts HTTP server and the room reaper.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetpoint/internal/config"
	httptransport "meetpoint/internal/http"
	"meetpoint/internal/http/handlers"
	"meetpoint/internal/infra"
	"meetpoint/internal/maps"
	"meetpoint/internal/modules/meetpoint"
	"meetpoint/internal/modules/room"
	"meetpoint/internal/modules/venue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var roomStore room.Store = room.NewMemoryStore()
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Error("db init failed", "err", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		roomStore = room.NewPGStore(dbPool)
	}

	var matrix meetpoint.MatrixSource
	var search venue.SearchProvider
	var enrich venue.Enricher
	if cfg.Maps.APIKey != "" {
		routing, err := maps.NewRoutingService(cfg.Maps.APIKey)
		if err != nil {
			log.Error("maps init failed", "err", err)
			os.Exit(1)
		}
		matrix = routing
		places, err := maps.NewPlacesService(cfg.Maps.APIKey)
		if err != nil {
			log.Error("places init failed", "err", err)
			os.Exit(1)
		}
		search = places
		enrich = places
	} else {
		log.Warn("GOOGLE_MAPS_KEY unset; using distance fallback, venue search disabled")
	}

	if cfg.Redis.Addr != "" && matrix != nil {
		redisClient := infra.NewRedis(cfg.Redis.Addr)
		defer redisClient.Close()
		matrix = maps.NewCachedMatrix(matrix, redisClient, log)
	}

	roomSvc := room.NewService(roomStore, room.Config{
		TTLMinutes:     cfg.Room.TTLMinutes,
		CleanupSeconds: cfg.Room.CleanupSeconds,
	}, log)
	meetpointSvc := meetpoint.NewService(meetpoint.NewEstimator(matrix, log), log)
	venueSvc := venue.NewService(search, enrich, log)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Room:           roomSvc,
		Meetpoint:      meetpointSvc,
		Venue:          venueSvc,
		DefaultRadiusM: cfg.Optimize.DefaultRadiusM,
		DefaultTopN:    cfg.Optimize.DefaultTopN,
		Health: handlers.HealthDeps{
			Maps:  cfg.Maps.APIKey != "",
			DB:    cfg.DB.DSN != "",
			Redis: cfg.Redis.Addr != "",
		},
		Log: log,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go roomSvc.RunCleanup(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
