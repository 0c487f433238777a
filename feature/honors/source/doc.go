// Package source reads honor snapshots.
//
// A snapshot is a JSON array of raw honor records, or an object whose
// "honors" field holds that array. Snapshots come from a local file or from
// the object store; when a key ends in "/" the newest .json object under that
// prefix is used. Failure to read the snapshot at all is the only fatal error
// of a sync run and matches errors.ErrInputUnavailable.
package source
