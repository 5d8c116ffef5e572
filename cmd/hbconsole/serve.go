package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"haber_bosch_console/internal/catalog"
	"haber_bosch_console/internal/config"
	"haber_bosch_console/internal/engine"
	"haber_bosch_console/internal/handlers"
	"haber_bosch_console/internal/logger"
	"haber_bosch_console/internal/models"
	"haber_bosch_console/internal/observability"
	"haber_bosch_console/internal/repository"
	"haber_bosch_console/internal/server"
	"haber_bosch_console/internal/service"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the console HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			return serve(path)
		},
	}
}

func serve(configPath string) error {
	log := logger.Get(logger.InfoLevel)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Errorw("error reading config", "err", err)
		return err
	}
	log = logger.Configure(cfg.Log.Level, cfg.Log.Format)

	db, err := openDB(cfg.DB.Path, log)
	if err != nil {
		log.Errorw("failed to init sqlite", "err", err)
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	metrics, err := observability.NewCollector(nil)
	if err != nil {
		return err
	}

	shutdownTracing, err := observability.InitTracing(context.Background(), cfg.Trace, log)
	if err != nil {
		log.Errorw("failed to init tracing", "err", err)
		return err
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	// wire dependencies
	repos := repository.NewRepository(db)
	preview := engine.NewPreview(cfg.Canvas.Width, cfg.Canvas.Height)
	ranges := catalog.New(preview.RangeFor, metrics)

	ctrl, err := service.NewController(service.Options{
		Sides:            cfg.UI.Sides,
		BaselineCatalyst: models.ParseCatalyst(cfg.UI.BaselineCatalyst),
		AltCatalyst:      models.ParseCatalyst(cfg.UI.AltCatalyst),
		CanvasID:         cfg.Canvas.ID,
		CanvasWidth:      cfg.Canvas.Width,
		CanvasHeight:     cfg.Canvas.Height,
		Catalog:          ranges,
		Runs:             repos.RunRepo,
		Metrics:          metrics,
		Log:              log.Named("console"),
	})
	if err != nil {
		log.Errorw("invalid console options", "err", err)
		return err
	}

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := service.NewEventLoop(ctrl)
	go loop.Run(ctx)

	// The form stays inert until the engine is bound.
	go func() {
		if err := loop.Bootstrap(ctx, engine.Bindings{Engine: preview}); err != nil {
			log.Errorw("console bootstrap failed", "err", err)
			return
		}
		log.Infow("console ready", "sides", cfg.UI.Sides, "canvas", cfg.Canvas.ID)
	}()

	services := service.NewService(repos, loop, ranges, preview, service.AuthSettings{
		SigningKey: []byte(cfg.Auth.SigningKey),
		TokenTTL:   cfg.Auth.TokenTTL,
	})
	apiHandler := handlers.NewHandler(services, log.Named("http"), handlers.Options{
		Metrics:        metrics.Handler(),
		StreamInterval: cfg.WS.Interval,
		AllowedOrigins: cfg.WS.AllowedOrigins,
		RequireAuth:    cfg.Auth.Enabled,
	})

	srv := &server.Server{}
	errc := make(chan error, 1)
	go func() {
		log.Infow("listening", "port", cfg.Port)
		errc <- srv.Run(cfg.Port, apiHandler.InitRoutes())
	}()

	return waitForShutdown(cancel, srv, errc, log)
}

// openDB initializes the SQLite database at path.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		path = "app.db"
	}
	return repository.InitDB(path)
}

// waitForShutdown blocks until a termination signal or a server failure and
// then stops the server gracefully.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, errc <-chan error, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		cancel()
		if err != nil {
			log.Errorw("error starting server", "err", err)
		}
		return err
	case <-quit:
	}

	log.Infow("shutting down server...")

	// stop the event loop
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}
