package honors

import "honor-sync/core/retry"

// Config holds sync pipeline settings.
type Config struct {
	// AwardsFile replaces the built-in award rule tables when set.
	AwardsFile string `mapstructure:"awards_file" default:""`
	// SnapshotPath is a local snapshot file; it wins over SnapshotObject.
	SnapshotPath string `mapstructure:"snapshot_path" default:""`
	// SnapshotObject is the object key, or a prefix ending in "/" to pick the newest snapshot.
	SnapshotObject string `mapstructure:"snapshot_object" default:"snapshots/"`
	// ReportPrefix is where reports go when a run asks for an upload without a key.
	ReportPrefix string `mapstructure:"report_prefix" default:"reports/"`
	// Workers bounds games reconciled concurrently.
	Workers int `mapstructure:"workers" default:"4"`
	// PageSize is the stale cleanup scan page size.
	PageSize int `mapstructure:"page_size" default:"200"`
	// PreviewLimit bounds the sample of planned actions in reports.
	PreviewLimit int `mapstructure:"preview_limit" default:"10"`
	// RequirePosition rejects honor records without a position.
	RequirePosition bool `mapstructure:"require_position" default:"false"`
	// Retry bounds record store retries.
	Retry retry.Config `mapstructure:"retry"`
}
