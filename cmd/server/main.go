package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"newsletter/config"
	emailadapter "newsletter/internal/adapters/email"
	web "newsletter/internal/delivery/http"
	"newsletter/internal/delivery/http/controllers"
	"newsletter/internal/delivery/http/middleware"
	"newsletter/internal/domain"
	"newsletter/internal/repository/postgres"
	"newsletter/internal/services"
	"newsletter/internal/store/memory"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	// Subscriber storage: the in-memory reference store by default, or the
	// durable Postgres store behind the same port.
	var store domain.SubscriberStore
	switch cfg.StoreProvider {
	case "postgres":
		db, err := sql.Open("postgres", cfg.DBUrl)
		if err != nil {
			logger.Error("failed to open database", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Error("database unreachable", "err", err)
			os.Exit(1)
		}
		store = postgres.NewSubscriberRepository(db)
	default:
		store = memory.NewSubscriberStore()
	}

	operators := make([]domain.Operator, 0, len(cfg.Operators))
	for _, op := range cfg.Operators {
		operators = append(operators, domain.Operator{Username: op.Username, Digest: op.Digest})
	}
	credentials := memory.NewCredentialStore(operators)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailClient.Provider,
		FromAddress: cfg.EmailClient.Sender,
		FromName:    cfg.EmailClient.FromName,
		Mailjet: emailadapter.MailjetConfig{
			BaseURL:   cfg.EmailClient.BaseURL,
			APIKey:    cfg.EmailClient.APIKey,
			APISecret: cfg.EmailClient.APISecret,
		},
		SES: emailadapter.SESConfig{
			Region:          cfg.EmailClient.SESRegion,
			AccessKeyID:     cfg.EmailClient.SESAccessKeyID,
			SecretAccessKey: cfg.EmailClient.SESSecretAccessKey,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	subscriptionService := services.NewSubscriptionService(store, mailer, emailadapter.NewTemplateRenderer(), cfg.BaseURL, logger)
	publishService := services.NewPublishService(store, credentials, mailer, logger)

	router := web.NewRouter(
		controllers.NewHealthController(),
		controllers.NewSubscriptionController(logger, subscriptionService),
		controllers.NewNewsletterController(logger, publishService),
	)
	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.Logging(logger, router))

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"addr", addr,
			"base_url", cfg.BaseURL,
			"store", cfg.StoreProvider,
			"email_provider", cfg.EmailClient.Provider,
			"operators", len(cfg.Operators),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "err", err)
			os.Exit(1)
		}
	}
}
