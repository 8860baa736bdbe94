package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/jobvault-systems/leads-backend/internal/auth"
	"github.com/jobvault-systems/leads-backend/internal/config"
	"github.com/jobvault-systems/leads-backend/internal/handlers"
	"github.com/jobvault-systems/leads-backend/internal/logging"
	"github.com/jobvault-systems/leads-backend/internal/middleware"
	"github.com/jobvault-systems/leads-backend/internal/notification"
	"github.com/jobvault-systems/leads-backend/internal/poller"
	"github.com/jobvault-systems/leads-backend/internal/repository"
	"github.com/jobvault-systems/leads-backend/internal/server"
	"github.com/jobvault-systems/leads-backend/internal/service"
	"github.com/jobvault-systems/leads-backend/internal/sms"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)

	// Missing provider settings are a configuration error, not a startup
	// failure: the affected endpoint reports failures at request time.
	if missing := cfg.MissingProviderSettings(); len(missing) > 0 {
		logger.Error("missing provider configuration", "settings", missing)
	}

	connString := cfg.Database.Postgres.ConnString()

	logger.Info("running database migrations")
	m, err := migrate.New("file://migrations", connString)
	if err != nil {
		log.Fatalf("Failed to initialize migrations: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("database migrations completed")

	repo, err := repository.NewPostgresRepository(context.Background(), connString)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer repo.Close()

	svc := service.NewService(repo, cfg.Leads.Table)
	dispatcher := sms.NewDispatcher(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber, logger)
	channel := buildNotificationChannel(cfg, logger)
	guard := auth.NewGuard(cfg.Auth.TokenSecret, logger)

	handler := handlers.NewHandler(svc, dispatcher, channel, logger)

	router := server.NewRouter(handler, guard, middleware.CORSConfig{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
	})

	// Poller: server-side counterpart of the dashboard's 30s refresh. Uses
	// Redis when configured so a restart does not replay old leads.
	var seen poller.SeenStore = poller.NewMemorySeenStore()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		seen = poller.NewRedisSeenStore(rdb, cfg.Redis.SeenKey)
	}

	p := poller.New(repo, seen, channel, poller.Config{Interval: cfg.Poller.Interval}, logger)
	pollerCtx, cancelPoller := context.WithCancel(context.Background())
	defer cancelPoller()
	if err := p.Start(pollerCtx); err != nil {
		log.Fatalf("Failed to start poller: %v", err)
	}
	defer p.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("leads service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("server stopped gracefully")
}

// buildNotificationChannel assembles the configured channels into a single
// fan-out. With nothing configured, new leads are still logged.
func buildNotificationChannel(cfg *config.Config, logger *logging.Logger) notification.Channel {
	var channels []notification.Channel

	if cfg.Notification.WebhookURL != "" {
		channels = append(channels, notification.NewWebhookChannel(cfg.Notification.WebhookURL, cfg.Notification.Timeout))
	}
	if cfg.Notification.SlackWebhookURL != "" {
		channels = append(channels, notification.NewSlackChannel(cfg.Notification.SlackWebhookURL, cfg.Notification.Timeout))
	}
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("jobvault-leads"))
		if err != nil {
			logger.Error("failed to connect to NATS, channel disabled", "error", err)
		} else {
			channels = append(channels, notification.NewNATSChannel(nc, cfg.NATS.Subject))
		}
	}

	if len(channels) == 0 {
		return notification.NewLogChannel(log.Printf)
	}
	if len(channels) == 1 {
		return channels[0]
	}
	return notification.NewMultiChannel(channels...)
}
