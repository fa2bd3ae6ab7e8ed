// Package services implements HTTP clients for the Tipply backend and Stripe Connect.
//
// The [Service] interface abstracts the backend REST API so tasks, the CLI, and the
// wizard TUI can be tested against mocks. [TipplyService] is the concrete client; it
// authenticates with a bearer token and covers profile, onboarding, catalog, tip,
// device, and refund operations.
//
// [OAuthService] abstracts the Stripe Connect authorization-code flow used during
// onboarding. [ConnectService] wraps [oauth2.Config] with Stripe's connect endpoints;
// the CLI runs a temporary localhost callback server (internal/server) to complete
// the exchange.
//
// [APIService] is a thin raw client for debugging backend endpoints from the CLI
// (`tipply api get|post|dump`).
package services
