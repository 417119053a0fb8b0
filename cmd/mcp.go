package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/bizbridge/bizbridge/pkg/client"
	"github.com/bizbridge/bizbridge/pkg/configs"
	"github.com/bizbridge/bizbridge/pkg/mcp"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "starts the bizbridge MCP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return startMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	configs.AddMCPFlags(serveCmd.Flags())
}

func startMCPServer(ctx context.Context) error {
	logger := logger.Desugar()
	logger.Info("starting MCP server")

	cfg := loadConfigs()
	if err := cfg.MCP.Validate(); err != nil {
		logger.Fatal("invalid mcp configuration", zap.Error(err))
	}

	if viper.GetBool("tracing.enabled") {
		tp := initTracer()

		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	tracer := otel.GetTracerProvider().Tracer("bizbridge/mcp")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := client.NewMetrics(registry)
	if err != nil {
		logger.Fatal("failed initializing prometheus collectors", zap.Error(err))
	}

	httpclient := &http.Client{
		Transport:     otelhttp.NewTransport(http.DefaultTransport),
		CheckRedirect: client.NoRedirect,
	}

	api := cfg.API.ToClient(httpclient, logger, client.WithMetrics(metrics))

	opts := []mcp.Option{
		mcp.WithLogger(logger),
		mcp.WithTracer(tracer),
		mcp.WithDefaultEnvironment(cfg.API.DefaultEnvironment),
	}

	if cfg.API.Credentials().Complete() {
		env := api.Environments().Resolve(cfg.API.DefaultEnvironment)

		opts = append(opts, mcp.WithReadinessCheck(func(ctx context.Context) error {
			if _, ok := api.Tokens().Get(ctx, env); !ok {
				return ErrTokenUnavailable
			}

			return nil
		}))
	}

	if cfg.MCP.Metrics {
		opts = append(opts, mcp.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	mcpserver := mcp.NewBizBridgeMCPServer(
		&http.Server{Addr: cfg.MCP.Listen, ReadHeaderTimeout: 10 * time.Second},
		api,
		opts...,
	)

	go func() {
		if err := mcpserver.Start(); err != nil {
			logger.Fatal("MCP server failed", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT)
	signal.Notify(sig, syscall.SIGTERM)

	s := <-sig

	logger.Debug("received shutdown signal", zap.Any("signal", s))

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := mcpserver.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown MCP server", zap.Error(err))
		return err
	}

	logger.Info("bye")

	return nil
}
