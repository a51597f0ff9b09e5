// Package server holds the HTTP server configuration and constants.
//
// While the start command handles the server startup, this package defines the
// configuration structure and the environment marker check.
//
// # Configuration
//
// The Config struct defines the HTTP port, the optional API key and the required
// environment marker (SERVER_ENVIRONMENT). A missing marker means the service must not
// start at all; CheckEnvironment reports ErrEnvironmentUnset in that case.
//
// # Routing
//
// Guard binds a handler (the API key check) to every route registered through the
// returned router, and NotFound answers the requests no route matched.
package server
