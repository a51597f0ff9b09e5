// Package contest implements the contest synchronization feature.
//
// Contests are fetched from the upstream providers, normalized into the canonical
// models.Contest shape and reconciled into the store keyed by (provider, external id).
//
// # Cycles
//
//   - full: every listed contest, on start and every sync.full_interval.
//   - incremental: running contests and those starting within sync.incremental_window,
//     on start and every sync.incremental_interval.
//   - keepalive: pings sync.keepalive_providers every sync.keepalive_interval.
//
// A provider that fails to fetch is skipped for that run. A run fails only when
// every provider failed. Full runs can archive the normalized batch to object storage.
//
// # Components
//
//   - Normalize: turns provider records into contests or a *NormalizationError.
//   - Adapter: binds the Repository to the core/reconcile engine.
//   - Repository: GORM (MySQL, SQLite) and MongoDB implementations.
//   - Syncer: the cycle bodies.
//   - Service, Handler: the read-only HTTP API.
//
// # HTTP Endpoints
//
//   - GET /contests?provider=&status=&limit= : JSON array of contests by start time, at most
//     500; X-Result-Truncated reports a cut listing.
//   - GET /contests/:id : Get a single contest.
//   - GET /status : State of every sync cycle.
//   - POST /status/:cycle/run : Start a cycle now.
package contest
