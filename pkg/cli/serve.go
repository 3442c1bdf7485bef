package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/getmockd/form-urlencoded-plugin/pkg/config"
	"github.com/getmockd/form-urlencoded-plugin/pkg/content"
	"github.com/getmockd/form-urlencoded-plugin/pkg/logging"
	"github.com/getmockd/form-urlencoded-plugin/pkg/metrics"
	"github.com/getmockd/form-urlencoded-plugin/pkg/plugin"
)

// serveFlags holds the parsed command-line flags for the serve command.
type serveFlags struct {
	configFile      string
	host            string
	port            int
	logLevel        string
	logFormat       string
	logFile         string
	metricsAddr     string
	shutdownTimeout time.Duration
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the plugin over gRPC (default command)",
		Long: `Start the plugin gRPC server and print the start-up handshake.

Settings are read from defaults, the optional --config file, the environment
(PLUGIN_HOST, PLUGIN_PORT, LOG_LEVEL, LOG_FORMAT, PLUGIN_LOG_FILE,
PLUGIN_METRICS_ADDR, PLUGIN_SHUTDOWN_TIMEOUT) and flags, each overriding the last.`,
		Example: `  # Started by the plugin driver
  form-urlencoded-plugin

  # Fixed port with debug logging
  form-urlencoded-plugin serve --port 50051 --log-level debug

  # Expose Prometheus metrics
  form-urlencoded-plugin serve --metrics-addr 127.0.0.1:9464`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&flags.configFile, "config", "c", "", "Path to a YAML config file")
	fs.StringVar(&flags.host, "host", config.DefaultHost, "Interface to bind")
	fs.IntVarP(&flags.port, "port", "p", config.DefaultPort, "gRPC port (0 picks a free port)")
	fs.StringVar(&flags.logLevel, "log-level", config.DefaultLogLevel, "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&flags.logFormat, "log-format", config.DefaultLogFormat, "Log format (text, json)")
	fs.StringVar(&flags.logFile, "log-file", "", "Also append logs to this file")
	fs.StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	fs.DurationVar(&flags.shutdownTimeout, "shutdown-timeout", config.DefaultShutdownTimeout, "Graceful shutdown timeout")
	return cmd
}

// resolveConfig loads the file and environment, then applies the flags the
// user actually set.
func resolveConfig(cmd *cobra.Command, flags *serveFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	set := func(name, key string, apply func()) {
		if fs.Changed(name) {
			apply()
			cfg.Sources[key] = config.SourceFlag
		}
	}
	set("host", "host", func() { cfg.Host = flags.host })
	set("port", "port", func() { cfg.Port = flags.port })
	set("log-level", "logLevel", func() { cfg.LogLevel = flags.logLevel })
	set("log-format", "logFormat", func() { cfg.LogFormat = flags.logFormat })
	set("log-file", "logFile", func() { cfg.LogFile = flags.logFile })
	set("metrics-addr", "metricsAddr", func() { cfg.MetricsAddr = flags.metricsAddr })
	set("shutdown-timeout", "shutdownTimeout", func() { cfg.ShutdownTimeout = flags.shutdownTimeout })

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runServe starts the plugin server, writes the handshake to stdout and
// blocks until ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	logCfg := logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: stderr,
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logCfg.Tee = f
	}
	log := logging.New(logCfg)

	reg := metrics.New()
	if cfg.MetricsAddr != "" {
		metricsSrv, err := startMetrics(ctx, cfg.MetricsAddr, reg, log)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	schema, err := plugin.LoadSchema(ctx)
	if err != nil {
		return fmt.Errorf("failed to load plugin schema: %w", err)
	}

	p := plugin.New(
		plugin.WithLogger(log),
		plugin.WithMetrics(reg),
		plugin.WithEngine(content.NewEngine(content.WithLogger(log))),
	)
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	srv, err := plugin.NewServer(addr, p, schema)
	if err != nil {
		return err
	}
	srv.SetLogger(log)
	srv.SetMetrics(reg)

	if err := srv.Start(ctx); err != nil {
		return err
	}

	handshake := Handshake{Port: srv.Port(), ServerKey: uuid.NewString()}
	if err := writeHandshake(stdout, handshake); err != nil {
		_ = srv.Stop(context.Background(), cfg.ShutdownTimeout)
		return fmt.Errorf("failed to write handshake: %w", err)
	}
	log.Debug("handshake written", "port", handshake.Port, "serverKey", handshake.ServerKey)

	<-ctx.Done()
	log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	return srv.Stop(context.Background(), cfg.ShutdownTimeout)
}

func startMetrics(ctx context.Context, addr string, reg *metrics.Registry, log *slog.Logger) (*http.Server, error) {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	log.Info("metrics server started", "address", listener.Addr().String())
	return srv, nil
}
