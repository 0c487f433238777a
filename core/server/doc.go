// Package server holds the HTTP server configuration.
//
// The Config struct defines the listen port, the API key, and whether sync
// runs requested over HTTP may write. Without AllowWrites every HTTP run is
// a dry run.
package server
