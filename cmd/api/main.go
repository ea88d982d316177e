package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	recordHandler "github.com/MrJamesThe3rd/tally/internal/http/record"
	reportHandler "github.com/MrJamesThe3rd/tally/internal/http/report"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/record"
	"github.com/MrJamesThe3rd/tally/internal/report"
)

type repoOpener func(ctx context.Context, cfg *config.Config) (record.Repository, func(), error)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, database.OpenRepository); err != nil {
		slog.Error("server failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run serves until ctx is cancelled. The record store is closed on every return path.
func run(ctx context.Context, cfg *config.Config, open repoOpener) error {
	if cfg.Auth.Secret == "" {
		return errors.New("AUTH_SECRET is required")
	}

	repo, closeRepo, err := open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s record store: %w", cfg.Store.Driver, err)
	}
	defer closeRepo()

	var (
		recordService = record.NewService(repo)
		importService = importer.NewService()
		reportService = report.NewService(
			recordService,
			report.NewPalette(cfg.Report.Palette, uint64(time.Now().UnixNano())),
			cfg.Report.FetchTimeout,
		)
	)

	var (
		recordH = recordHandler.NewHandler(recordService, importService)
		reportH = reportHandler.NewHandler(reportService)
	)

	router := tallyHttp.New(auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer), cfg.Server.CORSOrigins, recordH, reportH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", srv.Addr, "store", cfg.Store.Driver)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listening on %s: %w", srv.Addr, err)
	}

	return nil
}
