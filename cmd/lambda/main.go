// Command lambda serves the function endpoints behind API Gateway.
package main

import (
	"context"
	"fmt"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"kuisin/internal/cli"
	"kuisin/internal/config"
	"kuisin/internal/functions"
	"kuisin/internal/logging"
	"kuisin/internal/transport/lambda"
)

func main() {
	handler, closeBackend, err := setup(context.Background(), os.Getenv("CONFIG_PATH"))
	if err != nil {
		// The configured logger may not exist yet.
		logging.New(os.Stderr, "error", false).Error("lambda startup failed", "err", err)
		os.Exit(1)
	}
	defer closeBackend()
	awslambda.Start(handler.Handle)
}

// setup loads config and wires the handler. Migrations are applied out of band
// with `kuisin migrate`.
func setup(ctx context.Context, configPath string) (*lambda.Handler, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := cli.NewLogger(cfg)

	backend, err := cli.NewBackend(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("wire backend: %w", err)
	}
	inv := functions.NewInvoker(backend.Services, logger)
	return lambda.NewHandler(inv, cfg.IsDevelopment(), cfg.Server.AllowedOrigins), backend.Close, nil
}
