package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/asteval/pkg/api"
	grpcapi "github.com/lemonberrylabs/asteval/pkg/api/grpc"
	"github.com/lemonberrylabs/asteval/pkg/builtins"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP and gRPC evaluation APIs",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 0, "HTTP server port (default 8790, env PORT)")
	cmd.Flags().Int("grpc-port", 0, "gRPC server port (default 8791, env GRPC_PORT)")
	cmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env HOST)")
	return cmd
}

// serveConfig holds the listen addresses; a flag beats the environment,
// which beats the default.
type serveConfig struct {
	host     string
	port     string
	grpcPort string
}

func (c serveConfig) httpAddr() string { return net.JoinHostPort(c.host, c.port) }

func (c serveConfig) grpcAddr() string { return net.JoinHostPort(c.host, c.grpcPort) }

func resolveServeConfig(cmd *cobra.Command) serveConfig {
	cfg := serveConfig{
		host:     envOrDefault("HOST", "0.0.0.0"),
		port:     envOrDefault("PORT", "8790"),
		grpcPort: envOrDefault("GRPC_PORT", "8791"),
	}
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.host = v
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.port = strconv.Itoa(v)
	}
	if v, _ := cmd.Flags().GetInt("grpc-port"); v != 0 {
		cfg.grpcPort = strconv.Itoa(v)
	}
	return cfg
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := zerolog.Ctx(cmd.Context())
	cfg := resolveServeConfig(cmd)

	registry := builtins.NewRegistry()
	server := api.New(*logger, registry)
	grpcServer := grpcapi.New(*logger, registry)

	go func() {
		logger.Info().Str("addr", cfg.grpcAddr()).Msg("gRPC server listening")
		if err := grpcServer.Serve(cfg.grpcAddr()); err != nil {
			logger.Error().Err(err).Msg("gRPC server error")
		}
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info().Msg("shutting down")
		grpcServer.GracefulStop()
		if err := server.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("error during shutdown")
		}
	}()

	logger.Info().Str("addr", cfg.httpAddr()).Str("version", version).Msg("asteval listening")
	if err := server.Listen(cfg.httpAddr()); err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}
