// Package report summarises a sync run for logs, the CLI, and the HTTP API.
package report
