// Package models defines domain entities and persistence interfaces for the Tipply performer client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs mirroring Tipply backend responses
//   - [TipRecord] : One customer payment with settlement status and optional song request
//   - [TipPage] : Paginated tip listing
//   - [Song] : Catalog entry customers can request alongside a tip
//   - [Device] : Registered QR-code endpoint
//   - [Performer] : Performer account profile
//   - [OnboardingStatus] : Per-step onboarding completion flags
//
// 2. Persistent Entities: Local cache models backed by SQLite
//   - [Profile] : Cached performer account and Stripe identifiers
//   - [PersistedSong] : Cached catalog entries
//   - [PersistedDevice] : Cached registered devices
//   - [PersistedTip] : Cached tip records for offline dashboards
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
//
// The package also carries the client's only financial control, [IsRefundEligible]: a pure,
// fail-closed predicate deciding whether a refund may be offered for a tip.
package models
