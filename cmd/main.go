package main

import (
	"context"
	"errors"
	"os"

	"github.com/igheddx/tipply/internal/services"
	"github.com/igheddx/tipply/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	tipplyService := services.NewTipplyService(config.API.BaseURL, config.API.Token)

	var connectService services.OAuthService
	if config.Credentials.Stripe.ClientID != "" && config.Credentials.Stripe.ClientSecret != "" {
		if svc, err := services.NewConnectService(config.Credentials.Stripe.Map()); err == nil {
			connectService = svc
		}
	}

	apiService := services.NewAPIService(config.API.BaseURL, config.API.Token, nil)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: tipplyService,
		Connect: connectService,
		API:     apiService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "tipply",
		Usage:    "Manage your Tipply performer account, catalog, and tips",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
