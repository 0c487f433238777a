package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"honor-sync/core/config"
	"honor-sync/core/database"
	"honor-sync/core/logger"
	"honor-sync/core/storage"
	"honor-sync/feature/honors"
	"honor-sync/feature/honors/awards"
	"honor-sync/feature/honors/reconcile"
	"honor-sync/feature/honors/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncFlags holds the flags of the sync command.
type syncFlags struct {
	award              string
	snapshot           string
	object             string
	since              int
	until              int
	dryRun             bool
	replace            bool
	limit              int
	autoCreateMissing  bool
	reportMissingGames bool
	workers            int
	nomineeCap         int
	specialCap         int
	awardsFile         string
	reportObject       string
	uploadReport       bool
	jsonOut            bool
	yes                bool
}

var syncOpts syncFlags

// syncCmd runs one honor sync for an award family.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Classify award honors and reconcile them into game records",
	Long: `Load an honor snapshot, classify it for one award family, and reconcile the
canonical honors into the record store.

Merge mode (default) only adds honors that are missing. Replace mode rebuilds
the award's honors for every game in the snapshot and strips them from games
that are no longer listed.

Examples:
  # Preview a merge from the newest snapshot in object storage
  sync --award "Spiel des Jahres" --dry-run

  # Merge from a local file, creating provisional games that are missing
  sync --award "Golden Geek" --snapshot honors.json --auto-create-missing

  # Rebuild the 2020s from scratch without prompting
  sync --award "Spiel des Jahres" --replace --since 2020 --yes`,
	RunE: runSync,
}

func init() {
	f := syncCmd.Flags()
	f.StringVar(&syncOpts.award, "award", "", "Award family to sync (name or alias)")
	f.StringVar(&syncOpts.snapshot, "snapshot", "", "Local snapshot file")
	f.StringVar(&syncOpts.object, "object", "", "Snapshot object key, or a prefix ending in / for the newest snapshot")
	f.IntVar(&syncOpts.since, "since", 0, "First year to process")
	f.IntVar(&syncOpts.until, "until", 0, "Last year to process")
	f.BoolVar(&syncOpts.dryRun, "dry-run", false, "Plan and report without writing")
	f.BoolVar(&syncOpts.replace, "replace", false, "Replace the award's honors instead of merging")
	f.IntVar(&syncOpts.limit, "limit", 0, "Process at most N honor records")
	f.BoolVar(&syncOpts.autoCreateMissing, "auto-create-missing", false, "Create provisional games for unknown ids (merge only)")
	f.BoolVar(&syncOpts.reportMissingGames, "report-missing-games", false, "List unknown game ids in the report")
	f.IntVar(&syncOpts.workers, "workers", 0, "Games reconciled concurrently (default from config)")
	f.IntVar(&syncOpts.nomineeCap, "nominee-cap", 0, "Override the nominee cap for every year (-1 for unlimited)")
	f.IntVar(&syncOpts.specialCap, "special-cap", 0, "Override the special cap (-1 for unlimited)")
	f.StringVar(&syncOpts.awardsFile, "awards", "", "Award rule tables YAML (default from config, then built-in)")
	f.StringVar(&syncOpts.reportObject, "report-object", "", "Upload the JSON report to this object key or prefix")
	f.BoolVar(&syncOpts.uploadReport, "upload-report", false, "Upload the JSON report under the configured report prefix")
	f.BoolVar(&syncOpts.jsonOut, "json", false, "Print the report as JSON to stdout")
	f.BoolVar(&syncOpts.yes, "yes", false, "Auto-confirm replace runs (non-interactive)")
	_ = syncCmd.MarkFlagRequired("award")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	opts := buildRunOptions(cmd, syncOpts)

	awardsFile := syncOpts.awardsFile
	if awardsFile == "" {
		awardsFile = cfg.Sync.AwardsFile
	}
	registry, err := awards.Open(awardsFile)
	if err != nil {
		return fmt.Errorf("failed to load award tables: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	st := store.New(db, l)
	if err := st.Prepare(ctx); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}

	// Object storage is only needed for snapshots or reports kept there.
	var client storage.Client
	fromFile := opts.SnapshotPath != "" || (opts.SnapshotObject == "" && cfg.Sync.SnapshotPath != "")
	if !fromFile || opts.ReportObject != "" || opts.UploadReport {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	svc := honors.NewService(registry, st, client, cfg.Storage.Bucket, cfg.Sync, l)

	if opts.Mode == reconcile.ModeReplace && !opts.DryRun {
		l.Warn("Replace mode rebuilds every honor of this award and strips stale ones",
			zap.String("award", opts.Award),
			zap.Int("since", opts.Since),
			zap.Int("until", opts.Until))
		if !confirmDestructiveAction(syncOpts.yes, os.Stdin) {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	rep, err := svc.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	rep.Log(l)
	if syncOpts.jsonOut {
		data, err := rep.JSON()
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Println(string(data))
	}
	fmt.Println(rep.Summary())

	if rep.DryRun {
		l.Info("Dry-run mode: No changes were made.")
	}
	if rep.Errors > 0 {
		return fmt.Errorf("%d games failed to sync", rep.Errors)
	}
	return nil
}

// buildRunOptions maps flags onto run options. Cap flags only apply when set.
func buildRunOptions(cmd *cobra.Command, f syncFlags) honors.RunOptions {
	opts := honors.RunOptions{
		Award:              f.award,
		Since:              f.since,
		Until:              f.until,
		Mode:               reconcile.ModeMerge,
		DryRun:             f.dryRun,
		Limit:              f.limit,
		AutoCreateMissing:  f.autoCreateMissing,
		ReportMissingGames: f.reportMissingGames,
		Workers:            f.workers,
		SnapshotPath:       f.snapshot,
		SnapshotObject:     f.object,
		ReportObject:       f.reportObject,
		UploadReport:       f.uploadReport,
	}
	if f.replace {
		opts.Mode = reconcile.ModeReplace
	}
	if cmd.Flags().Changed("nominee-cap") {
		n := f.nomineeCap
		opts.NomineeCap = &n
	}
	if cmd.Flags().Changed("special-cap") {
		n := f.specialCap
		opts.SpecialCap = &n
	}
	return opts
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(yes bool, in io.Reader) bool {
	if yes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
