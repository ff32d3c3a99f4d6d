package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrops-br/product-inventory/internal/app/service"
	"github.com/mrops-br/product-inventory/internal/domain"
	"github.com/mrops-br/product-inventory/internal/infrastructure/config"
	httpserver "github.com/mrops-br/product-inventory/internal/infrastructure/http"
	"github.com/mrops-br/product-inventory/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-inventory/internal/infrastructure/http/view"
	"github.com/mrops-br/product-inventory/internal/infrastructure/repository/memory"
	"github.com/mrops-br/product-inventory/internal/infrastructure/telemetry"
	"github.com/spf13/cobra"
)

var (
	configPath string
	host       string
	port       string
	logLevel   string
)

// rootCmd starts the inventory web server
var rootCmd = &cobra.Command{
	Use:   "product-inventory",
	Short: "Serve the product inventory page",
	Long: `Serves a single-page product inventory over HTTP.

Configuration is read from defaults, then the optional YAML file given with
--config, then environment variables, then the flags below.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.Flags().StringVar(&host, "host", "", "Listen host (overrides server.host)")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides server.port)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = host
	}
	if flags.Changed("port") {
		cfg.Server.Port = port
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telem, err := telemetry.NewTelemetry(ctx, cfg, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Error shutting down telemetry: %v\n", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("product-inventory")
	meter := telem.MeterProvider.Meter("product-inventory")
	logger := telem.Logger

	logger.Info("Starting product inventory")

	categories, err := domain.NewCategories(cfg.Inventory.Categories...)
	if err != nil {
		return fmt.Errorf("invalid categories: %w", err)
	}

	repo := memory.NewProductRepository(tracer, logger)
	if err := repo.Seed(ctx, domain.SeedProducts()); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	flash := memory.NewFlashStore(cfg.Session.FlashTTL, tracer, logger)

	inventoryService := service.NewInventoryService(repo, flash, categories, tracer, meter, logger)

	renderer, err := view.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	inventoryHandler := handler.NewInventoryHandler(inventoryService, renderer, cfg.Server.MaxFormBytes, logger)
	server := httpserver.NewServer(cfg, inventoryHandler, logger, telem)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
