// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [ProfileRepository] : Performer profile cache with email-based lookups
//   - [SongRepository] : Catalog caching with remote-ID deduplication and text search
//   - [DeviceRepository] : Registered QR device cache
//   - [TipRepository] : Tip snapshots for offline dashboards with status filtering
//
// Sequence numbers provide stable, human-readable ordering (e.g., song #42, tip #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
