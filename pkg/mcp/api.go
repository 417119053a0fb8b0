package mcp

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/bizbridge/bizbridge/pkg/client"
)

const (
	// ToolsPath is where the streamable HTTP MCP endpoint is served
	ToolsPath = "/v1"
	// MetricsPath is where prometheus metrics are served when enabled
	MetricsPath = "/metrics"
)

// Dispatcher is the subset of the API client the tools use.
type Dispatcher interface {
	BaseURL(label string) string
	FetchJSON(ctx context.Context, u string, query url.Values) (*client.Response, error)
	PostJSON(ctx context.Context, u string, body any, query url.Values) (*client.Response, error)
	PatchJSON(ctx context.Context, u string, body any, query url.Values) (*client.Response, error)
	PutJSON(ctx context.Context, u string, body any, query url.Values) (*client.Response, error)
	DeleteJSON(ctx context.Context, u string, body any, query url.Values) (*client.Response, error)
	FetchBytes(ctx context.Context, u string, query url.Values) (*client.Response, error)
}

var _ Dispatcher = (*client.Client)(nil)

// BizBridgeMCPServer exposes the business API as MCP tools.
type BizBridgeMCPServer struct {
	httpserver     *http.Server
	api            Dispatcher
	defaultEnv     string
	metricsHandler http.Handler
	readiness      ReadinessCheck

	logger *zap.Logger
	tracer trace.Tracer
}

// Option defines a functional option for configuring the BizBridgeMCPServer.
type Option func(*BizBridgeMCPServer)

// WithLogger sets the logger for the BizBridgeMCPServer.
func WithLogger(logger *zap.Logger) Option {
	return func(s *BizBridgeMCPServer) {
		s.logger = logger.With(zap.String("component", "mcp-server"))
	}
}

// WithTracer sets the tracer for the BizBridgeMCPServer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *BizBridgeMCPServer) {
		s.tracer = tracer
	}
}

// WithDefaultEnvironment sets the environment label used when a tool call does
// not name one.
func WithDefaultEnvironment(label string) Option {
	return func(s *BizBridgeMCPServer) {
		s.defaultEnv = label
	}
}

// WithMetricsHandler serves h on MetricsPath.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *BizBridgeMCPServer) {
		s.metricsHandler = h
	}
}

// NewBizBridgeMCPServer creates a new instance of BizBridgeMCPServer with the provided options.
func NewBizBridgeMCPServer(httpserver *http.Server, api Dispatcher, opts ...Option) *BizBridgeMCPServer {
	s := &BizBridgeMCPServer{
		httpserver: httpserver,
		api:        api,
		defaultEnv: string(client.Production),
		logger:     zap.NewNop(),
		tracer:     noop.NewTracerProvider().Tracer("bizbridge-mcp-server"),
	}

	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.Handle(ToolsPath, otelhttp.NewHandler(s.v1(), "mcp/v1"))

	mux.HandleFunc("/healthz", s.livenessCheck)
	mux.HandleFunc("/healthz/liveness", s.livenessCheck)
	mux.HandleFunc("/healthz/readiness", s.readinessCheck)

	if s.metricsHandler != nil {
		mux.Handle(MetricsPath, s.metricsHandler)
	}

	s.httpserver.Handler = mux

	return s
}

// Start starts the MCP server.
func (s *BizBridgeMCPServer) Start() error {
	s.logger.Info("starting MCP server", zap.String("addr", s.httpserver.Addr))

	if err := s.httpserver.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown gracefully shuts down the MCP server.
func (s *BizBridgeMCPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down MCP server")

	return s.httpserver.Shutdown(ctx)
}

// baseURL resolves a tool's environment label, falling back to the default.
func (s *BizBridgeMCPServer) baseURL(label string) string {
	if label == "" {
		label = s.defaultEnv
	}

	return s.api.BaseURL(label)
}
