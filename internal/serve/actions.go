package serve

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

	"github.com/dtnitsch/magazine-feedback/internal/common"
	"github.com/dtnitsch/magazine-feedback/models"
	"github.com/dtnitsch/magazine-feedback/pkg/language"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

// Flags are the serve command's flags.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "addr",
			Value: ":8080",
			Usage: "Listen address",
		},
		&cli.IntFlag{
			Name:  "max-upload-mb",
			Value: 50,
			Usage: "Largest accepted PDF upload in megabytes",
		},
		&cli.Float64Flag{
			Name:  "rate",
			Value: 2,
			Usage: "Sustained uploads per second across all clients (0 = unlimited)",
		},
		&cli.IntFlag{
			Name:  "burst",
			Value: 5,
			Usage: "Uploads allowed in a burst above the sustained rate",
		},
		&cli.BoolFlag{
			Name:  "no-language",
			Usage: "Skip language detection",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log errors",
		},
	}
}

// ConfigFromFlags collects the serve flags into a config.
func ConfigFromFlags(c *cli.Context) (models.ServeConfig, error) {
	maxMB := c.Int("max-upload-mb")
	if maxMB <= 0 {
		return models.ServeConfig{}, fmt.Errorf("--max-upload-mb must be positive, got %d", maxMB)
	}
	if c.Float64("rate") < 0 {
		return models.ServeConfig{}, fmt.Errorf("--rate must not be negative")
	}
	return models.ServeConfig{
		Addr:           c.String("addr"),
		MaxUploadBytes: int64(maxMB) << 20,
		RatePerSecond:  c.Float64("rate"),
		Burst:          c.Int("burst"),
		DetectLanguage: !c.Bool("no-language"),
		ReadTimeout:    time.Minute,
	}, nil
}

// ServeAction runs the upload server until SIGINT or SIGTERM.
func ServeAction(c *cli.Context) error {
	logger := common.NewLogger(os.Stderr, c.Bool("quiet"))

	cfg, err := ConfigFromFlags(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return ListenAndServe(ctx, cfg, logger)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func ListenAndServe(ctx context.Context, cfg models.ServeConfig, logger *slog.Logger) error {
	var detector *language.Detector
	if cfg.DetectLanguage {
		detector = language.NewDetector()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewServer(cfg, logger, detector).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", cfg.Addr, "max_upload_bytes", cfg.MaxUploadBytes, "rate", cfg.RatePerSecond)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
