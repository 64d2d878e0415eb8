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

	"golang.org/x/sync/errgroup"

	"github.com/tekhekspert/lead-capture/internal/config"
	"github.com/tekhekspert/lead-capture/internal/entity"
	"github.com/tekhekspert/lead-capture/internal/infra/database"
	"github.com/tekhekspert/lead-capture/internal/infra/http/handlers"
	"github.com/tekhekspert/lead-capture/internal/infra/http/middleware"
	"github.com/tekhekspert/lead-capture/internal/infra/integration/kommo"
	"github.com/tekhekspert/lead-capture/internal/infra/integration/telegram"
	"github.com/tekhekspert/lead-capture/internal/infra/mail"
	"github.com/tekhekspert/lead-capture/internal/infra/queue"
	"github.com/tekhekspert/lead-capture/internal/infra/worker"
	"github.com/tekhekspert/lead-capture/internal/usecase"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// 1. Notifier. Missing credentials are not fatal: the first lead fails.
	tgClient := telegram.NewClient(cfg.Telegram, &http.Client{Timeout: cfg.SubmitTimeout + time.Second})
	if !tgClient.Configured() {
		log.Println("⚠️ TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID not set, leads will fail until configured")
	}
	submitter := usecase.NewSubmitLeadUseCase(tgClient, cfg.SubmitTimeout)

	// 2. Optional storage
	var (
		leadRepo entity.LeadRepositoryInterface
		dbPinger handlers.Pinger
	)
	if cfg.DatabaseURL != "" {
		db, err := database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ database: %v", err)
		}
		defer db.Close()

		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("❌ database schema: %v", err)
		}

		repo := database.NewLeadRepository(db)
		leadRepo, dbPinger = repo, db

		sweeper := worker.NewStaleLeadWorker(repo, cfg.StaleLeadWindow)
		g.Go(func() error {
			sweeper.Start(ctx)
			return nil
		})
	}

	// 3. Optional CRM sync through RabbitMQ
	var (
		producer   usecase.QueueProducerInterface
		amqpHealth handlers.ConnectionState
	)
	if cfg.AMQPURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("❌ rabbitmq: %v", err)
		}
		defer rabbitMQ.Close()

		producer, amqpHealth = queue.NewProducer(rabbitMQ.Ch), rabbitMQ.Conn

		crm := kommo.NewClient(cfg.Kommo, &http.Client{Timeout: 15 * time.Second})
		if crm.Configured() {
			consumerCh, err := rabbitMQ.Conn.Channel()
			if err != nil {
				log.Fatalf("❌ rabbitmq consumer channel: %v", err)
			}
			crmWorker := queue.NewWorker(consumerCh, crm)
			g.Go(func() error {
				// A dead consumer must not take the lead endpoint down with it.
				if err := crmWorker.Start(ctx, queue.QueueName); err != nil {
					log.Printf("❌ CRM worker: %v", err)
				}
				return nil
			})
		} else {
			log.Println("⚠️ KOMMO_API_TOKEN not set, CRM messages stay queued")
		}
	}

	// 4. Optional office e-mail copy
	var emailService usecase.EmailService
	if cfg.Mail.Enabled() {
		emailService = mail.NewEmailSender(cfg.Mail)
	}

	captureLeadUC := usecase.NewCaptureLeadUseCase(submitter, leadRepo, producer, emailService)

	// 5. HTTP
	rateLimiter := middleware.NewRateLimiter(cfg.LeadRateLimit, time.Minute)
	g.Go(func() error {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				rateLimiter.Cleanup()
			}
		}
	})

	router := newRouter(routerDeps{
		CORSOrigins: cfg.CORSOrigins,
		TrustProxy:  cfg.TrustProxy,
		Leads:       handlers.NewLeadHandler(captureLeadUC, rateLimiter),
		Phone:       handlers.NewPhoneHandler(),
		Health:      handlers.NewHealthHandler(dbPinger, amqpHealth, tgClient),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Printf("🔥 Lead API listening on %s (%s)", cfg.HTTPAddr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
	log.Println("👋 Lead API stopped")
}
