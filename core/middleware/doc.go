// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - Auth: optional API key validation (X-API-Key header or api_key query).
//   - RayID: assigns a request id (RayID) to every incoming request, stores it in
//     the fiber locals and echoes it in the X-Ray-ID response header.
//
// Both are registered globally in the start command.
package middleware
