// Package config provides configuration management for honor sync.
//
// Values come from environment variables, optionally preloaded from a .env
// file, with defaults taken from the `default` struct tags of each section.
// Nested keys map to upper-case env names joined by underscores, so
// sync.retry.max_attempts is SYNC_RETRY_MAX_ATTEMPTS.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, and whether HTTP runs may write
//   - Database: record store driver (mysql or sqlite) and connection details
//   - Storage: S3/MinIO credentials and the snapshot bucket
//   - Log: logging level and format
//   - Sync: award tables, snapshot location, workers, and retry bounds
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.Workers)
package config
