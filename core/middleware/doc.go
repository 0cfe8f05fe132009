// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header.
//   - rayid: a unique request id (RayID) for every incoming request, stored in
//     the context locals and echoed in the X-Ray-ID response header.
//
// RayID must be registered first so every log line can carry it.
package middleware
