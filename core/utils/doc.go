// Package utils provides loose-value conversion helpers for scraped and
// snapshotted honor rows, whose fields arrive as strings, JSON numbers, or
// missing altogether depending on the source.
package utils
