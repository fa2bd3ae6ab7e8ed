// Stripe Connect implementation of [OAuthService]
//
// Uses the standard-account OAuth flow: https://docs.stripe.com/connect/oauth-standard-accounts
package services

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

const (
	stripeAuthURL  = "https://connect.stripe.com/oauth/authorize"
	stripeTokenURL = "https://connect.stripe.com/oauth/token"
)

// ConnectService implements OAuthService for Stripe Connect onboarding.
type ConnectService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
}

// NewConnectService creates a Stripe Connect service with the given OAuth2 credentials.
func NewConnectService(credentials map[string]string) (*ConnectService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("missing client_id in credentials")
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("missing client_secret in credentials")
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"read_write"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  stripeAuthURL,
			TokenURL: stripeTokenURL,
		},
	}

	return &ConnectService{
		config:     config,
		httpClient: http.DefaultClient,
	}, nil
}

// GetAuthURL returns the Stripe Connect authorization URL for user login.
func (c *ConnectService) GetAuthURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// GetOAuthConfig exposes the OAuth2 configuration for the callback handler.
func (c *ConnectService) GetOAuthConfig() *oauth2.Config {
	return c.config
}

// OAuthenticate applies an exchanged token to the service.
func (c *ConnectService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("empty token")
	}

	c.token = token
	c.httpClient = c.config.Client(ctx, token)
	return nil
}

// StripeAccountID extracts the connected account ID from an exchanged token.
//
// Stripe returns it in the token response's stripe_user_id extra field.
func (c *ConnectService) StripeAccountID(token *oauth2.Token) string {
	if token == nil {
		return ""
	}
	if id, ok := token.Extra("stripe_user_id").(string); ok {
		return id
	}
	return ""
}
