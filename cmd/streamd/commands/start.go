package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rzava/streamd/internal/logger"
	"github.com/rzava/streamd/internal/telemetry"
	"github.com/rzava/streamd/pkg/api"
	"github.com/rzava/streamd/pkg/config"
	"github.com/rzava/streamd/pkg/coordinator"
	"github.com/rzava/streamd/pkg/lifecycle"
	"github.com/rzava/streamd/pkg/metrics"
	"github.com/rzava/streamd/pkg/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the streamd server",
	Long: `Start the streamd server with the specified configuration.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/streamd/config.yaml.

Examples:
  # Start with default config location
  streamd start

  # Start with custom config file
  streamd start --config /etc/streamd/config.yaml

  # Start with environment variable overrides
  STREAMD_LOGGING_LEVEL=DEBUG streamd start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "streamd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	// Initialize Pyroscope profiling (if enabled)
	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "streamd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	logger.Info("configuration loaded",
		"source", configSource(GetConfigFile()),
		"log_level", cfg.Logging.Level,
		"store", string(cfg.Database.Type),
	)
	if telemetry.IsEnabled() {
		logger.Info("telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint)
	}

	// Metrics are always recorded; the scrape server is opt-in.
	registry := metrics.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	// Open the datastream store
	st, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("store close error", "error", err)
		}
	}()
	logger.Info("store opened", "type", string(cfg.Database.Type))

	// Create the coordinator and the lifecycle controller
	coord := coordinator.NewLocal(cfg.Coordinator)
	logger.Info("coordinator ready", "connectors", coord.ConnectorTypes())

	controller := lifecycle.New(st, coord, recorder)

	// Start servers
	serverDone := make(chan error, 2)
	servers := 0

	if cfg.API.IsEnabled() {
		apiServer := api.NewServer(cfg.API, controller, st)
		servers++
		go func() {
			serverDone <- apiServer.Start(ctx)
		}()
		logger.Info("API server enabled", "port", apiServer.Port())
	} else {
		logger.Info("API server disabled")
	}

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics, registry)
		servers++
		go func() {
			serverDone <- metricsServer.Start(ctx)
		}()
		logger.Info("metrics server enabled", "port", cfg.Metrics.Port)
	} else {
		logger.Info("metrics server disabled")
	}

	if servers == 0 {
		return fmt.Errorf("nothing to serve: both the API and metrics servers are disabled")
	}

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("server is running, press Ctrl+C to stop")

	select {
	case <-sigChan:
		logger.Info("shutdown signal received, initiating graceful shutdown")
		cancel()
	case err := <-serverDone:
		servers--
		if err != nil {
			cancel()
			drainServers(serverDone, servers)
			return err
		}
	}

	// Wait for remaining servers to shut down gracefully
	if err := drainServers(serverDone, servers); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

func drainServers(done <-chan error, remaining int) error {
	var firstErr error
	for i := 0; i < remaining; i++ {
		if err := <-done; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// configSource returns a description of where the config was loaded from.
func configSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
