// Package logger builds the application's zap logger.
//
// Level "debug" selects zap's development config, any other level the
// production config. Format picks json or console encoding.
//
// WithRayID returns a child logger carrying the request id set by the rayid
// middleware:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Join failed", zap.Error(err))
package logger
