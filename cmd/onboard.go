package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/igheddx/tipply/internal/server"
	"github.com/igheddx/tipply/internal/services"
	"github.com/igheddx/tipply/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// OnboardStatus prints the onboarding checklist for the authenticated performer.
func (r *Runner) OnboardStatus(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("fetching onboarding status")

	status, err := r.svc.OnboardingStatus(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(status, pretty)
	}

	r.writePlainHeader("Onboarding Status")

	steps := []struct {
		label string
		done  bool
	}{
		{"Profile complete", status.ProfileComplete},
		{"Stripe account connected", status.PaymentsConnected},
		{"Tipping enabled", status.TippingEnabled},
		{"QR device registered", status.DeviceRegistered},
		{"Song catalog uploaded", status.CatalogUploaded},
	}

	for _, step := range steps {
		if step.done {
			r.writePlain("✓ %s\n", step.label)
		} else {
			r.writePlain("○ %s\n", step.label)
		}
	}

	if status.Complete() {
		r.writePlainln("✓ Onboarding complete. You are ready to receive tips.")
	} else {
		r.writePlainln("Run 'tipply onboard connect' and 'tipply onboard enable' to finish setup.")
	}

	return nil
}

// OnboardConnect runs the Stripe Connect OAuth2 flow and attaches the
// connected account to the performer.
//
// Starts a local HTTP server, opens browser for user authorization, and exchanges auth code for tokens.
func (r *Runner) OnboardConnect(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if config == nil {
		var err error
		if _, statErr := os.Stat(configPath); statErr == nil {
			config, err = shared.LoadConfig(configPath)
			if err != nil {
				r.logger.Warnf("failed to load config, using defaults %v", err)
				config = shared.DefaultConfig()
			}
		} else {
			config = shared.DefaultConfig()
		}
	}

	if config.Credentials.Stripe.ClientID == "" || config.Credentials.Stripe.ClientSecret == "" {
		return fmt.Errorf("%w: Stripe client_id and client_secret must be set in config.toml", shared.ErrInvalidArgument)
	}

	connectService := r.connect
	if connectService == nil {
		svc, err := services.NewConnectService(config.Credentials.Stripe.Map())
		if err != nil {
			return fmt.Errorf("failed to create Stripe Connect service: %w", err)
		}
		connectService = svc
	}

	token, err := r.doOAuth(config, connectService, "authorization")
	if err != nil {
		return err
	}

	if err := config.Credentials.Stripe.Update(token); err != nil {
		return fmt.Errorf("failed to update stripe configuration: %w", err)
	}

	if err := shared.SaveConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	accountID := connectService.StripeAccountID(token)
	if accountID == "" {
		return fmt.Errorf("%w: no connected account ID in token", shared.ErrAuthFailed)
	}

	if r.svc != nil {
		if err := r.svc.AttachStripeAccount(ctx, accountID); err != nil {
			return fmt.Errorf("failed to attach Stripe account: %w", err)
		}
	}

	r.connect = connectService

	r.writePlainln("✓ Stripe account connected")
	r.writePlain("✓ Account: %s\n", accountID)
	r.writePlain("✓ Tokens saved to %s\n\n", configPath)
	r.writePlain("You can now use: tipply onboard enable\n")

	return nil
}

// OnboardEnable turns on the performer's tipping page.
func (r *Runner) OnboardEnable(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("enabling tipping page")

	performer, err := r.svc.EnableTipping(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Tipping enabled for %s\n", performer.DisplayName)
	if performer.StripeAccountID != "" {
		r.writePlain("  Stripe account: %s\n", performer.StripeAccountID)
	}

	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(config *shared.Config, oauthSrv services.OAuthService, prefix string) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := oauthSrv.GetAuthURL(state)
	oauthHandler := server.NewOAuthHandler(oauthSrv.GetOAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server for %s at %v", prefix, serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Stripe %s...\n", prefix)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
