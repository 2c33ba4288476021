// Package main is the Warbler web server.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/johndosdos/warbler/internal/auth"
	"github.com/johndosdos/warbler/internal/broker"
	"github.com/johndosdos/warbler/internal/config"
	"github.com/johndosdos/warbler/internal/database"
	"github.com/johndosdos/warbler/internal/handler"
	ratelimiter "github.com/johndosdos/warbler/internal/rate_limiter"
	ws "github.com/johndosdos/warbler/internal/websocket"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	slog.Info("initializing database connection")

	dbConn, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("could not connect to the postgresql database: %v", err)
	}
	defer dbConn.Close()

	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, dbConn); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
	}

	dbQueries := database.New(dbConn)

	// The hub is always running; NATS only changes where activities come from.
	hub := ws.NewHub()
	var publisher handler.ActivityPublisher = hub
	var stream jetstream.Stream

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		slog.Info("initializing NATS connection")

		natsConn, err = nats.Connect(cfg.NATSURL, natsOptions(cfg)...)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}

		js, err := jetstream.New(natsConn)
		if err != nil {
			log.Fatalf("failed to create jetstream instance: %v", err)
		}

		stream, err = broker.EnsureStream(ctx, js)
		if err != nil {
			log.Fatalf("%v", err)
		}
		publisher = broker.JetStream{JS: js}
	}

	go hub.Run(ctx, stream)

	limiter := ratelimiter.NewIPRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, ratelimiter.CleanupOpts{
		TTL:      10 * time.Minute,
		Interval: time.Minute,
	})
	defer limiter.Cancel()

	server := &http.Server{
		Addr: "0.0.0.0:" + cfg.Port,
		Handler: handler.NewRouter(handler.Deps{
			DB: dbQueries,
			Auth: auth.Options{
				Secret:     cfg.JWTSecret,
				AccessTTL:  cfg.AccessTTL,
				SessionTTL: cfg.SessionTTL,
			},
			Publisher: publisher,
			Hub:       hub,
			Limiter:   limiter,
			StaticDir: cfg.StaticDir,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received; shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	if natsConn != nil {
		if err := natsConn.Drain(); err != nil {
			slog.Error("couldn't drain NATS conn", "error", err)
		}
	}

	slog.Info("server stopped")
}

func natsOptions(cfg config.Config) []nats.Option {
	var opts []nats.Option
	if cfg.NATSCred != "" {
		opts = append(opts, nats.UserCredentials(cfg.NATSCred))
	} else if cfg.NATSUser != "" && cfg.NATSPassword != "" {
		opts = append(opts, nats.UserInfo(cfg.NATSUser, cfg.NATSPassword))
	}
	return append(opts, nats.Timeout(5*time.Second))
}
