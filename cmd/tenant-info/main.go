// Command tenant-info serves the tenant's company and industry together with
// Prometheus request metrics.
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
		fmt.Fprintf(os.Stderr, "tenant-info: %v\n", err)
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

	deps, err := app.NewInfoDependencies(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close(context.Background())

	logger.Info("starting tenant info service",
		zap.String("environment", cfg.Environment),
		zap.String("company", cfg.Tenant.Company),
		zap.String("industry", cfg.Tenant.Industry),
		zap.String("tenant", cfg.Tenant.TenantName),
		zap.String("address", cfg.Server.Address()))

	srv := app.NewHTTPServer(cfg.Server, routes.SetupInfoRoutes(deps))
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	return app.Serve(ctx, srv, ln, cfg.Server.ShutdownTimeout, logger)
}
