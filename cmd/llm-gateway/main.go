// Command llm-gateway forwards inference requests to an upstream
// chat-completion API using a server-held API key.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/upb/tenant-services/app"
	"github.com/upb/tenant-services/config"
	"github.com/upb/tenant-services/internal/observability"
	"github.com/upb/tenant-services/routes"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "llm-gateway: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New(ctx)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		return err
	}

	deps, err := app.NewGatewayDependencies(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close(context.Background())

	logger.Info("starting LLM gateway",
		zap.String("environment", cfg.Environment),
		zap.String("backend", cfg.Gateway.Backend),
		zap.String("endpoint", cfg.Gateway.Endpoint),
		zap.String("model", cfg.Gateway.Model),
		zap.String("api_key", keyStatus(cfg.Gateway)),
		zap.Duration("upstream_timeout", cfg.Gateway.Timeout),
		zap.String("address", cfg.Server.Address()))

	srv := app.NewHTTPServer(cfg.Server, routes.SetupGatewayRoutes(deps))
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	return app.Serve(ctx, srv, ln, cfg.Server.ShutdownTimeout, logger)
}

// keyStatus reports whether the key is present without revealing it
func keyStatus(cfg config.GatewayConfig) string {
	if cfg.APIKeyConfigured() {
		return "[SET]"
	}
	return "[NOT SET]"
}
