package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/beast-reader/internal/api"
	"github.com/yourusername/beast-reader/internal/config"
	"github.com/yourusername/beast-reader/internal/health"
	"github.com/yourusername/beast-reader/internal/logger"
	"github.com/yourusername/beast-reader/internal/ocr"
	"github.com/yourusername/beast-reader/internal/scheduler"
	"github.com/yourusername/beast-reader/internal/session"
	"github.com/yourusername/beast-reader/internal/store"
	"github.com/yourusername/beast-reader/internal/ticket"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with a persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return fmt.Errorf("unsafe configuration: %w", err)
	}

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"storage":     cfg.Storage.Backend,
		"ocr":         cfg.OCR.Enabled,
	}).Info("Beast Reader starting")

	audit := logger.NewAuditLogger(appLog)
	sess := session.New(session.Config{
		MaxPlays:      cfg.Session.MaxPlays,
		DefaultTracks: cfg.Session.DefaultTracks,
		Location:      cfg.Location(),
	}, session.WithAuditLogger(audit))

	st, err := store.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			appLog.WithError(err).Error("Failed to close storage")
		}
	}()

	store.LoadInto(ctx, st, sess, appLog)

	saver := store.NewSaver(st, sess.State, cfg.SaveDebounce(), appLog)
	sess.Subscribe(saver.Observer())

	interp, closeInterp := newInterpreter(cfg, appLog)
	defer closeInterp()

	checker := health.NewChecker(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		Checks:      map[string]health.Pinger{"storage": st},
	})

	srv := api.NewServer(api.Deps{
		Config:      cfg,
		Session:     sess,
		Issuer:      ticket.NewIssuer(cfg.Ticket.Title, cfg.Ticket.QRSize, nil, audit),
		Interpreter: interp,
		OCRLogger:   logger.NewOCRLogger(appLog),
		Health:      checker,
		Logger:      appLog,
	})

	sched := scheduler.NewScheduler(cfg.Location(), appLog)
	if cfg.Scheduler.CutoffSweepIntervalSeconds > 0 {
		sweeper := scheduler.NewCutoffSweeper(sess, appLog)
		sweeper.Sweep()
		if err := sched.ScheduleCutoffSweep(cfg.Scheduler.CutoffSweepIntervalSeconds, sweeper); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
	}

	checker.SetReady(true)
	serveErr := srv.Start(ctx)
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if serveErr != nil {
		errs = append(errs, serveErr)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := sched.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := saver.Close(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("final save: %w", err))
	}

	appLog.Info("Beast Reader stopped")
	return errors.Join(errs...)
}

// newInterpreter builds the cached Gemini client, or the disabled stub when
// OCR is switched off
func newInterpreter(cfg *config.Config, log *logrus.Logger) (ocr.Interpreter, func()) {
	if !cfg.OCR.Enabled {
		log.Info("Ticket image interpretation disabled")
		return ocr.Disabled{}, func() {}
	}

	client := ocr.NewGeminiClient(&cfg.OCR, log)
	log.WithFields(logrus.Fields{
		"model":   client.Model(),
		"timeout": cfg.OCR.Timeout(),
	}).Info("Ticket image interpretation enabled")

	var interp ocr.Interpreter = client
	if cfg.OCR.CacheMaxSize > 0 && cfg.OCR.CacheTTLSeconds > 0 {
		cache := ocr.NewResultCache(time.Duration(cfg.OCR.CacheTTLSeconds)*time.Second, cfg.OCR.CacheMaxSize)
		interp = ocr.NewCachedInterpreter(client, cache, log)
	}
	return interp, func() { _ = client.Close() }
}
