package cmd

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

	"github.com/spf13/cobra"

	"github.com/edgenotch/cardkeep/internal/cards"
	"github.com/edgenotch/cardkeep/internal/config"
	"github.com/edgenotch/cardkeep/internal/images"
	"github.com/edgenotch/cardkeep/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cardkeep HTTP server",
	Long:  `Indexes the card documents and serves the browsing API and the web UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger := newLogger()
		slog.SetDefault(logger)

		source, err := newImageSource(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("creating image source: %w", err)
		}
		cropper, err := images.NewCropper(source)
		if err != nil {
			return fmt.Errorf("creating crop service: %w", err)
		}

		index := cards.NewIndex(cfg.DataDir, logger)
		index.Load()

		srv := server.New(server.Config{
			Port:      cfg.Port,
			StaticDir: cfg.StaticDir,
			AllowAll:  cfg.CORSAllowAll,
		}, logger)
		cards.RegisterRoutes(srv.Router(), index, logger)
		images.RegisterRoutes(srv.Router(), source, cropper, logger)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server: %w", err)
		case sig := <-stop:
			logger.Info("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newImageSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (images.Provider, error) {
	if cfg.ImagesProvider == config.ProviderS3 {
		return images.NewS3Provider(ctx, images.S3Options{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		}, logger)
	}
	return images.NewLocalProvider(cfg.ImagesDir), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
