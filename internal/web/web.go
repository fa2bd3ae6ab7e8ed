// Package web implements an HTMX-based web dashboard mirroring the TUI functionality.
//
// # HTMX Web Dashboard Implementation Plan
//
// # Architecture
//
// The web app replicates the onboarding wizard and tip dashboard using server-side
// rendering with HTMX for dynamic updates. Each view corresponds to a template and handler:
//
//  1. Onboarding Checklist: Server-rendered status list with hx-get refresh
//  2. Stripe Connect: OAuth initiation and callback completion
//  3. Catalog Manager: Table with hx-post add and hx-delete remove
//  4. Tip Feed: SSE (Server-Sent Events) streaming new tips as they arrive
//  5. Refund View: Tip detail with refund button shown only inside the refund window
//
// Core Components
//
//   - HTTP Server: net/http server with html/template rendering over server.BasicRouter
//   - Service Integration: Uses same services.Service and tasks.CatalogEngine as the TUI
//   - Session Management: Cookie-based sessions for OAuth state and performer tracking
//   - SSE Handler: Streams live tip notifications
//
// Routes
//
//	GET  /                    → Dashboard summary (requires auth)
//	GET  /auth/stripe         → Stripe Connect initiation
//	GET  /callback            → OAuth completion (server.OAuthHandler)
//	GET  /catalog             → Catalog table view
//	POST /catalog             → Add songs, HTMX partial swap
//	GET  /tips                → Tip list with refund eligibility column
//	POST /tips/{id}/refund    → Refund request, disabled outside the window
//	GET  /tips/stream         → SSE live tip feed
//
// Templates
//
//   - base.html: Layout with navigation, onboarding status
//   - dashboard.html: Totals, refundable counts, top song requests
//   - catalog.html: Table with hx-delete on rows
//   - tips.html: Feed with SSE consumer and refund buttons
//
// # State Management
//
// Unlike the TUI's in-memory state, the web app persists state in:
//   - Session cookies: API token, performer ID
//   - SQLite snapshots: repositories.TipRepository for offline dashboard data
//   - In-memory channels: SSE connections for the live feed
//
// # Refund Gating
//
// The refund button renders only when models.IsRefundEligible returns true for the tip,
// and the handler re-checks eligibility before calling services.Service.RefundTip.
// The backend remains the final authority on the refund outcome.
//
// Dependencies
//
//   - html/template: Server-side rendering
//   - net/http: HTTP server and SSE
//   - gorilla/sessions or similar: Cookie management
//
// Implementation Tasks
//
//  1. HTTP server setup reusing server.BasicRouter and LoggingMiddleware
//  2. Template structure with HTMX integration
//  3. Session middleware for auth state
//  4. Dashboard handler wrapping tasks.CatalogEngine.Dashboard
//  5. Catalog handlers (HTMX partials)
//  6. Tip feed handler with SSE
//  7. Refund handler with eligibility re-check
//  8. OAuth handlers wrapping the existing Stripe Connect flow
package web
