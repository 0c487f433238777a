// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports development and production
// setups, and integrates with the Fiber web framework for the ops HTTP surface.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Sync started", zap.String("award", "Spiel des Jahres"))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Sync failed", zap.Error(err))
package logger
