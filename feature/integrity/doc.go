// Package integrity reports on the health of the resources the sync engine depends on.
//
// # Checks Provided
//
//   - Schema: the contest table (mysql, sqlite) or collection (mongodb) carries the
//     expected columns and the unique (provider, external_id) index.
//   - Storage: the snapshot bucket exists; it lists the stored snapshots and can create
//     the bucket when asked to.
//   - Upstream: every configured provider answers a single request.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks, 503 when any of them fails (supports ?fix=true).
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/upstream : Pings the providers.
//
// The same report is printed by the check command.
package integrity
