package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tempo/backend/internal/clock"
	"tempo/backend/internal/config"
	"tempo/backend/internal/db"
	"tempo/backend/internal/habit"
	"tempo/backend/internal/handler"
	"tempo/backend/internal/reminder"
	"tempo/backend/internal/repository"
	"tempo/backend/internal/review"
	"tempo/backend/internal/router"
	"tempo/backend/internal/service"
	"tempo/backend/internal/timer"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	location, err := cfg.Location()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	policy, err := review.ParsePolicy(cfg.ReviewPolicy)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database, db.MigrationSource(cfg.MigrationsDir)); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	stateRepo := repository.NewStateRepository(database)
	labelRepo := repository.NewLabelRepository(database)
	sessionRepo := repository.NewSessionRepository(database)

	historyService := service.NewHistoryService(sessionRepo, labelRepo, location)
	labelService := service.NewLabelService(labelRepo)
	authService := service.NewAuthService(cfg.PasscodeHash, cfg.JWTSecret, cfg.TokenTTL())
	if !authService.Enabled() {
		log.Println("Warning: passcode_hash not set, API authentication disabled")
	}

	hub := reminder.NewHub()
	gateway := reminder.NewLocal(clock.System, hub.Publish)

	timerEngine, err := timer.New(ctx, stateRepo, gateway, historyService, timer.Options{
		Clock:    clock.System,
		Defaults: cfg.Timer.Settings(),
	})
	if err != nil {
		log.Fatalf("create timer engine: %v", err)
	}
	hub.Handle(reminder.ChannelTimer, func(ctx context.Context, d reminder.Delivery) {
		if err := timerEngine.ReminderFired(ctx, d.ID); err != nil {
			log.Printf("Warning: complete session from reminder %s: %v", d.ID, err)
		}
	})

	scheduler, err := review.New(ctx, stateRepo, gateway, review.Options{
		Clock:    clock.System,
		Location: location,
		Policy:   policy,
	})
	if err != nil {
		log.Fatalf("create review scheduler: %v", err)
	}

	habits, err := habit.New(ctx, stateRepo, clock.System)
	if err != nil {
		log.Fatalf("create habit tracker: %v", err)
	}

	// Reminders do not survive a restart; recover both engines against the wall clock.
	if err := timerEngine.Restore(ctx); err != nil {
		log.Printf("Warning: restore timer: %v", err)
	}
	if err := scheduler.Resync(ctx); err != nil {
		log.Printf("Warning: resync reviews: %v", err)
	}

	engine := router.New(authService, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Timer:   handler.NewTimerHandler(timerEngine, labelService),
		Reviews: handler.NewReviewHandler(scheduler),
		Habits:  handler.NewHabitHandler(habits),
		History: handler.NewHistoryHandler(historyService, labelService, location),
		Events:  handler.NewEventsHandler(hub),
	}, cfg.CORSOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: shutdown: %v", err)
		}
	}()

	log.Printf("backend listening on :%s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("run server: %v", err)
	}
}
