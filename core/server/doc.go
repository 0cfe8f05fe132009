// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines
// the configuration structure for server settings: the listen port, the API
// key protecting every route, and the request body limit for join payloads.
package server
