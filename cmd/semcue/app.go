package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/c360studio/semcue/api"
	"github.com/c360studio/semcue/config"
	"github.com/c360studio/semcue/cuephrase"
	"github.com/c360studio/semcue/metrics"
)

// App wires the phrase registry to the HTTP and NATS front ends.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	registry *cuephrase.Registry
	metrics  *metrics.Metrics
	server   *api.Server

	// HTTP
	listener   net.Listener
	httpServer *http.Server

	// NATS
	embeddedServer *server.Server
	natsConn       *nats.Conn
	natsDone       chan error
	cancelNATS     context.CancelFunc
}

// NewApp loads the phrase tables and creates the API server.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	registry, err := loadRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  m,
		server:   api.NewServer(registry, cfg.Thresholds(), m, logger),
	}, nil
}

// loadRegistry loads the built-in tables and overlays the tables found in
// cfg.Tables.Dir.
func loadRegistry(cfg *config.Config, logger *slog.Logger) (*cuephrase.Registry, error) {
	registry, err := cuephrase.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load built-in tables: %w", err)
	}
	if cfg.Tables.Dir == "" {
		return registry, nil
	}

	replaced, err := registry.OverlayFS(os.DirFS(cfg.Tables.Dir), cfg.Tables.Pattern)
	if err != nil {
		return nil, fmt.Errorf("load tables from %s: %w", cfg.Tables.Dir, err)
	}
	for _, lang := range replaced {
		logger.Info("Built-in table overridden", slog.String("language", lang), slog.String("dir", cfg.Tables.Dir))
	}
	logger.Debug("Tables loaded", slog.Int("languages", registry.Len()))
	return registry, nil
}

// Start brings up the enabled front ends.
func (a *App) Start(ctx context.Context) error {
	if !a.cfg.HTTP.Enabled && !a.cfg.NATS.Enabled {
		return fmt.Errorf("nothing to serve: enable http or nats")
	}
	if a.cfg.NATS.Enabled {
		if err := a.startNATS(ctx); err != nil {
			return fmt.Errorf("start NATS: %w", err)
		}
	}
	if a.cfg.HTTP.Enabled {
		if err := a.startHTTP(); err != nil {
			a.Shutdown(5 * time.Second)
			return fmt.Errorf("start HTTP: %w", err)
		}
	}
	return nil
}

func (a *App) startHTTP() error {
	mux := http.NewServeMux()
	a.server.RegisterHTTPHandlers("api", mux)
	mux.Handle("/metrics", a.metrics.Handler())

	ln, err := net.Listen("tcp", a.cfg.HTTP.Addr)
	if err != nil {
		return err
	}
	a.listener = ln
	a.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed", slog.String("error", err.Error()))
		}
	}()
	a.logger.Info("HTTP API listening", slog.String("addr", ln.Addr().String()))
	return nil
}

func (a *App) startNATS(ctx context.Context) error {
	url := a.cfg.NATS.URL
	if a.cfg.NATS.Embedded {
		opts := &server.Options{
			Port:   -1, // Random available port
			NoLog:  true,
			NoSigs: true,
		}
		ns, err := server.NewServer(opts)
		if err != nil {
			return fmt.Errorf("create embedded NATS server: %w", err)
		}

		go ns.Start()

		if !ns.ReadyForConnections(5 * time.Second) {
			ns.Shutdown()
			return fmt.Errorf("embedded NATS server failed to start")
		}
		a.embeddedServer = ns
		url = ns.ClientURL()
		a.logger.Info("Embedded NATS server started", slog.String("url", url))
	}

	conn, err := nats.Connect(url, nats.Name("semcue"))
	if err != nil {
		a.shutdownEmbedded()
		return fmt.Errorf("connect to NATS: %w", err)
	}
	a.natsConn = conn

	natsCtx, cancel := context.WithCancel(ctx)
	a.cancelNATS = cancel
	a.natsDone = make(chan error, 1)
	go func() {
		a.natsDone <- a.server.ServeNATS(natsCtx, conn, a.cfg.NATS.Subject, a.cfg.NATS.Queue)
	}()
	return nil
}

// Addr returns the HTTP listen address, or "" when HTTP is not running.
func (a *App) Addr() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// NATSURL returns the URL of the connected NATS server.
func (a *App) NATSURL() string {
	if a.natsConn == nil {
		return ""
	}
	return a.natsConn.ConnectedUrl()
}

// Shutdown gracefully stops all front ends.
func (a *App) Shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.logger.Warn("HTTP shutdown", slog.String("error", err.Error()))
		}
	}

	if a.cancelNATS != nil {
		a.cancelNATS()
		select {
		case err := <-a.natsDone:
			if err != nil {
				a.logger.Warn("NATS responder", slog.String("error", err.Error()))
			}
		case <-ctx.Done():
		}
	}
	if a.natsConn != nil {
		_ = a.natsConn.Drain()
		a.natsConn.Close()
	}
	a.shutdownEmbedded()
}

func (a *App) shutdownEmbedded() {
	if a.embeddedServer != nil {
		a.embeddedServer.Shutdown()
		a.embeddedServer.WaitForShutdown()
		a.embeddedServer = nil
	}
}
