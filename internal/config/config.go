// Package config содержит логику чтения конфигурации сервиса администрирования заказов.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса администрирования заказов.
type Config struct {
	RunAddress      string `env:"RUN_ADDRESS"`
	OrderAPIAddress string `env:"ORDER_API_ADDRESS"`
	SessionSecret   string `env:"SESSION_SECRET"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envOrderAPIAddress := cfg.OrderAPIAddress
	envSessionSecret := cfg.SessionSecret

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.OrderAPIAddress, "r", "", "order management API address")
	flag.StringVar(&cfg.SessionSecret, "s", "", "secret key for session cookie signing")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envOrderAPIAddress != "" {
		cfg.OrderAPIAddress = envOrderAPIAddress
	}
	if envSessionSecret != "" {
		cfg.SessionSecret = envSessionSecret
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	if cfg.OrderAPIAddress == "" {
		return nil, fmt.Errorf("order API address is required")
	}

	return cfg, nil
}
