// Package tasks orchestrates performer workflows over the Tipply backend with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines four operations:
//
//  1. [Engine.Dashboard] : Aggregate performer standing
//     - Fetches profile, catalog, devices, and the full tip history
//     - Counts processed and pending tips and sums amounts
//     - Flags tips still inside the refund window
//
//  2. [Engine.BulkUpload] : Push a set list to the catalog
//     - Parses CSV or plain text input
//     - Uploads songs in rate-limited concurrent batches
//     - Writes a JSON manifest summarizing the run
//
//  3. [Engine.BulkRemove] : Delete catalog entries in chunks
//
//  4. [Engine.Dump] : Fetch raw data from every backend endpoint
//     - Retrieves profile, onboarding state, catalog, tips, devices
//     - Returns structured data for backup or debugging
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Caching
//
// The optional [SongCacher] and [TipCacher] interfaces enable automatic persistence during operations
//
// Entries are cached silently (errors ignored) to avoid disrupting the operation.
// This keeps offline dashboards and local searches current.
//
// # Implementation
//
// [CatalogEngine] implements [Engine] with dependencies on:
//   - [services.Service] : Tipply backend client
//   - [APIClient] : Raw HTTP client for dumps
//   - [SongCacher] / [TipCacher] : Optional persistence layer (repositories adapters)
package tasks
