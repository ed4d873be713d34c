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

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/notesrv/internal/config"
	"github.com/xxxsen/notesrv/internal/db"
	"github.com/xxxsen/notesrv/internal/handler"
	"github.com/xxxsen/notesrv/internal/metrics"
	"github.com/xxxsen/notesrv/internal/middleware"
	"github.com/xxxsen/notesrv/internal/repo"
	"github.com/xxxsen/notesrv/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "notesrv",
		Short: "notes CRUD server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "create the schema if needed and serve the notes API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer conn.Close()
			return runServer(cfg, conn)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "create the schema if needed and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer conn.Close()
			logutil.GetLogger(context.Background()).Info("schema is up to date")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json (optional, NOTESRV_* env vars override it)")
	rootCmd.AddCommand(runCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func bootstrap(configPath string) (*config.Config, *sqlx.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(context.Background(), conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return cfg, conn, nil
}

func runServer(cfg *config.Config, conn *sqlx.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.String("addr", cfg.Addr()),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("db_path", cfg.Database.Path),
	)
	gin.SetMode(gin.ReleaseMode)

	var m *metrics.Metrics
	if cfg.EnableMetrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		var err error
		if m, err = metrics.New(registry); err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
	}

	noteService := service.NewNoteService(repo.NewStore(conn), m)
	deps := handler.RouterDeps{
		Notes:   handler.NewNoteHandler(noteService),
		Health:  handler.NewHealthHandler(noteService),
		Metrics: m,
	}
	extra := []gin.HandlerFunc{middleware.CORS(cfg.CORSAllowOrigins)}
	if cfg.EnableGzip {
		extra = append(extra, gzip.Gzip(gzip.DefaultCompression))
	}
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.NewEngine(deps, extra...),
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logutil.GetLogger(context.Background()).Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
