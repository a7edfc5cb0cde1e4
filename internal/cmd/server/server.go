// Package server parses server flags and launches the service.
package server

import (
	"context"
	"flag"

	"github.com/inkpost/inkpost/internal/app"
	entrypoint "github.com/inkpost/inkpost/internal/platform/cmd"
)

// Config holds server command configuration.
type Config struct {
	Port       int `env:"INKPOST_PORT" envDefault:"8080"`
	HealthPort int `env:"INKPOST_HEALTH_PORT" envDefault:"8081"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The HTTP API server port")
	fs.IntVar(&cfg.HealthPort, "health-port", cfg.HealthPort, "The gRPC health server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(context.Context) error {
		return app.Run(ctx, cfg.Port, cfg.HealthPort)
	})
}
