package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tourhub/internal/config"
	"tourhub/internal/controllers"
	"tourhub/internal/coordination"
	"tourhub/internal/events"
	"tourhub/internal/metrics"
	"tourhub/internal/middleware"
	"tourhub/internal/routes"
	"tourhub/internal/services"
)

const shutdownGrace = 15 * time.Second

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*configPath)
		},
	}
}

func strategyFor(cfg config.CoordinationConfig) coordination.CoordinationStrategy {
	if cfg.URL == "" {
		return coordination.LinkStrategy{}
	}
	logrus.WithField("url", cfg.URL).Info("Using remote coordination strategy.")
	return coordination.NewRemoteStrategy(cfg.URL, cfg.Timeout)
}

func serve(configPath string) error {
	cfg, logOut, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)

	st, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	m := metrics.New()
	hub := events.NewHub(256)
	defer hub.Close()

	pub := events.Fanout{hub}
	if cfg.NATS.URL != "" {
		nc, err := events.ConnectNATS(cfg.NATS.URL)
		if err != nil {
			return err
		}
		defer nc.Drain()
		pub = append(pub, events.NewNATSPublisher(nc))
	}

	auth := middleware.NewAuth(cfg.JWT.Secret, cfg.JWT.TTL)
	ctl := controllers.New(controllers.Deps{
		Store:          st,
		Travel:         services.NewTravelService(st, pub, m, cfg.Members.ImportMaxRows),
		Coordinator:    services.NewCoordinator(st, strategyFor(cfg.Coordination), pub, m),
		Hub:            hub,
		Auth:           auth,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})
	router := routes.SetupRouter(routes.Options{
		Controller:     ctl,
		Auth:           auth,
		Metrics:        m,
		LogWriter:      logOut,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", cfg.HTTP.Addr).Info("Server running.")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		logrus.WithField("signal", s.String()).Info("Shutting down.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(ctx)
}
