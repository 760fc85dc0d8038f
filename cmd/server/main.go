package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sheikh-saqib/apb-demo-bank/internal/commands"
	"github.com/sheikh-saqib/apb-demo-bank/internal/config"
	"github.com/sheikh-saqib/apb-demo-bank/internal/events"
	"github.com/sheikh-saqib/apb-demo-bank/internal/events/kafka"
	"github.com/sheikh-saqib/apb-demo-bank/internal/interfaces"
	"github.com/sheikh-saqib/apb-demo-bank/internal/ledger"
	"github.com/sheikh-saqib/apb-demo-bank/internal/logger"
	"github.com/sheikh-saqib/apb-demo-bank/internal/notify"
	"github.com/sheikh-saqib/apb-demo-bank/internal/router"
	"github.com/sheikh-saqib/apb-demo-bank/internal/seed"
	"github.com/sheikh-saqib/apb-demo-bank/internal/server"
	"github.com/sheikh-saqib/apb-demo-bank/internal/session"
	"github.com/sheikh-saqib/apb-demo-bank/internal/speech"
	"github.com/sheikh-saqib/apb-demo-bank/internal/storage/memory"
	"github.com/sheikh-saqib/apb-demo-bank/internal/storage/postgres"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		log.Sync()
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	store := memory.NewMemoryLedgerStore()
	if err := seed.Run(ctx, store, time.Now()); err != nil {
		return fmt.Errorf("seed ledger: %w", err)
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer closeQuietly(log, "kafka publisher", p.Close)
		publisher = p
		log.Info("kafka publisher enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	var journal interfaces.TransactionJournal
	if cfg.PostgresDSN != "" {
		j, err := openJournal(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Warn("postgres journal disabled", "error", err)
		} else {
			defer closeQuietly(log, "postgres journal", j.Close)
			journal = j
			log.Info("postgres journal enabled")
		}
	}

	var slot notify.Slot = notify.NewMemorySlot(cfg.NotificationTTL)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis notification slot disabled", "addr", cfg.RedisAddr, "error", err)
			_ = rdb.Close()
		} else {
			defer closeQuietly(log, "redis client", rdb.Close)
			slot = notify.NewRedisSlot(rdb, cfg.AppID, cfg.NotificationTTL, log)
			log.Info("redis notification slot enabled", "addr", cfg.RedisAddr)
		}
	}

	dispatcher := events.NewDispatcher(publisher, journal, cfg.AppID, cfg.EventBuffer, log)
	l := ledger.NewLedger(store, ledger.WithRecorder(dispatcher), ledger.WithLogger(log))

	var synth speech.Synthesizer
	if cfg.GeminiAPIKey != "" {
		client, err := speech.NewClient(cfg.Speech())
		if err != nil {
			return fmt.Errorf("speech client: %w", err)
		}
		synth = client
		log.Info("speech announcements enabled", "model", cfg.SpeechModel, "voice", cfg.SpeechVoice)
	}
	announcer := speech.NewAnnouncer(synth, cfg.SpeechTimeout, log)
	defer announcer.Wait()

	handler := commands.NewHandler(l, session.New(l), slot, announcer, router.Router{Enforce: cfg.EnforceAdminViews}, log)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      server.NewServer(handler, announcer, log).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(gctx)
	})
	g.Go(func() error {
		log.Info("HTTP server listening", "addr", srv.Addr, "app_id", cfg.AppID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func openJournal(ctx context.Context, dsn string) (*postgres.PostgresJournal, error) {
	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	j := postgres.NewPostgresJournal(db)
	if err := j.EnsureSchema(ctx); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func closeQuietly(log *logger.Logger, what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Warn("close failed", "component", what, "error", err)
	}
}
