package honors

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"honor-sync/core/errors"
	"honor-sync/core/logger"
	"honor-sync/core/storage"
	"honor-sync/feature/honors/awards"
	"honor-sync/feature/honors/classify"
	"honor-sync/feature/honors/models"
	"honor-sync/feature/honors/normalize"
	"honor-sync/feature/honors/reconcile"
	"honor-sync/feature/honors/report"
	"honor-sync/feature/honors/resolve"
	"honor-sync/feature/honors/source"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrRunInProgress is returned when a writing run starts while another is active.
var ErrRunInProgress = errors.New("a sync run is already in progress")

// RunOptions selects what one sync run does.
type RunOptions struct {
	// Award names the award family in scope (name or alias).
	Award string `json:"award"`
	// Since and Until bound the years processed. Zero is open.
	Since int `json:"since,omitempty"`
	Until int `json:"until,omitempty"`
	// Mode is merge (default) or replace.
	Mode reconcile.Mode `json:"mode,omitempty"`
	// DryRun plans without writing.
	DryRun bool `json:"dry_run"`
	// Limit caps the honor records processed after year filtering.
	Limit int `json:"limit,omitempty"`

	AutoCreateMissing  bool `json:"auto_create_missing,omitempty"`
	ReportMissingGames bool `json:"report_missing_games,omitempty"`

	// Workers overrides Config.Workers when positive.
	Workers int `json:"workers,omitempty"`
	// NomineeCap and SpecialCap override the award's caps for every year.
	NomineeCap *int `json:"nominee_cap,omitempty"`
	SpecialCap *int `json:"special_cap,omitempty"`

	// SnapshotPath and SnapshotObject override the configured input.
	SnapshotPath   string `json:"-"`
	SnapshotObject string `json:"snapshot_object,omitempty"`
	// ReportObject uploads the JSON report to this key; a trailing "/" names a prefix.
	ReportObject string `json:"report_object,omitempty"`
	// UploadReport uploads the report under Config.ReportPrefix when ReportObject is empty.
	UploadReport bool `json:"upload_report,omitempty"`
}

// Service runs the honor sync pipeline.
type Service struct {
	registry *awards.Registry
	store    reconcile.Store
	client   storage.Client
	bucket   string
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time

	writing sync.Mutex
}

// NewService creates a new honors service. client may be nil when snapshots
// are only read from disk.
func NewService(registry *awards.Registry, store reconcile.Store, client storage.Client, bucket string, cfg Config, log *zap.Logger) *Service {
	return &Service{
		registry: registry,
		store:    store,
		client:   client,
		bucket:   bucket,
		cfg:      cfg,
		logger:   logger.OrNop(log),
		now:      time.Now,
	}
}

// Awards returns the loaded award rule tables.
func (s *Service) Awards() []*awards.Award {
	return s.registry.All()
}

// Run loads the snapshot and runs the pipeline on it. Only an unreadable
// snapshot or invalid options fail the run; per-record and per-game problems
// are counted in the report.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*report.Report, error) {
	award, mode, err := s.validate(opts)
	if err != nil {
		return nil, err
	}
	records, err := s.load(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, award, mode, records, opts)
}

// RunRecords runs the pipeline on records already in memory.
func (s *Service) RunRecords(ctx context.Context, records []models.RawRecord, opts RunOptions) (*report.Report, error) {
	award, mode, err := s.validate(opts)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, award, mode, records, opts)
}

func (s *Service) validate(opts RunOptions) (*awards.Award, reconcile.Mode, error) {
	award, ok := s.registry.Lookup(opts.Award)
	if !ok {
		return nil, "", errors.NewValidationError("award", opts.Award,
			fmt.Sprintf("unknown award, expected one of: %s", strings.Join(s.registry.Names(), ", ")))
	}
	mode, err := reconcile.ParseMode(string(opts.Mode))
	if err != nil {
		return nil, "", err
	}
	if opts.Since != 0 && opts.Until != 0 && opts.Since > opts.Until {
		return nil, "", errors.NewValidationError("since", opts.Since, "since is after until")
	}
	return award, mode, nil
}

func (s *Service) load(ctx context.Context, opts RunOptions) ([]models.RawRecord, error) {
	path := opts.SnapshotPath
	object := opts.SnapshotObject
	if path == "" && object == "" {
		path = s.cfg.SnapshotPath
		object = s.cfg.SnapshotObject
	}
	if path != "" {
		s.logger.Info("Loading snapshot", zap.String("path", path))
		return source.LoadFile(path)
	}
	return source.NewLoader(s.client, s.bucket, s.logger).LoadObject(ctx, object)
}

func (s *Service) run(ctx context.Context, award *awards.Award, mode reconcile.Mode, records []models.RawRecord, opts RunOptions) (*report.Report, error) {
	if !opts.DryRun {
		if !s.writing.TryLock() {
			return nil, ErrRunInProgress
		}
		defer s.writing.Unlock()
	}
	if opts.AutoCreateMissing && mode == reconcile.ModeReplace {
		s.logger.Warn("Auto-create is ignored in replace mode")
	}

	l := s.logger.With(zap.String("award", award.Name), zap.String("mode", string(mode)))
	rep := report.New(award.Name, mode, opts.DryRun)
	rep.Ingestion.Read = len(records)

	entries, rejected := normalize.NormalizeAll(records, normalize.Options{RequirePosition: s.cfg.RequirePosition})
	rep.Ingestion.Rejected = rejected

	inYears := source.FilterYears(entries, opts.Since, opts.Until)
	filtered := source.Limit(inYears, opts.Limit)
	rep.Ingestion.Filtered = len(entries) - len(filtered)
	// A limited snapshot is a sample; games past the limit are not stale.
	partial := len(filtered) < len(inYears)

	classifier := classify.New(award)
	var classified []resolve.Classified
	for _, e := range filtered {
		v := classifier.Classify(e)
		if !v.Applicable {
			rep.Ingestion.NotApplicable++
			continue
		}
		classified = append(classified, resolve.Classified{Entry: e, AwardType: v.AwardType, Category: v.Category})
	}
	rep.Ingestion.Classified = len(classified)

	canonical := resolve.Resolve(classified, resolve.Options{
		Source:       award.Source,
		SpecialLabel: award.SpecialLabel(),
		Describe:     describer(award),
		Now:          s.now,
	})

	kept, dropped := resolve.EnforceCaps(canonical, s.caps(award, opts))
	rep.Ingestion.CapDropped = len(dropped)
	rep.Ingestion.Canonical = len(kept)
	l.Info("Canonical honors resolved",
		zap.Int("entries", len(filtered)),
		zap.Int("canonical", len(kept)),
		zap.Int("cap_dropped", len(dropped)))

	if mode == reconcile.ModeReplace && len(kept) == 0 {
		return nil, errors.NewValidationError("snapshot", len(records),
			"replace run resolved no canonical honors; refusing to strip the award from every game")
	}
	if mode == reconcile.ModeReplace && partial {
		l.Warn("Limit truncated the snapshot; stale cleanup is skipped", zap.Int("limit", opts.Limit))
	}

	plan, summary, err := reconcile.Reconcile(ctx, s.store, kept, reconcile.Options{
		Mode:               mode,
		Scope:              reconcile.Scope{AwardType: award.Name, Since: opts.Since, Until: opts.Until},
		DryRun:             opts.DryRun,
		AutoCreateMissing:  opts.AutoCreateMissing,
		ReportMissingGames: opts.ReportMissingGames,
		SkipStaleCleanup:   partial,
		Workers:            s.workers(opts),
		PageSize:           s.cfg.PageSize,
		Retry:              s.cfg.Retry,
		Logger:             l,
	})
	if err != nil {
		return nil, err
	}
	rep.FromSummary(summary, plan, s.cfg.PreviewLimit)

	if key := s.reportKey(opts); key != "" {
		if err := s.upload(ctx, rep, key); err != nil {
			// The sync itself has completed; a missing upload is logged only.
			l.Error("Failed to upload sync report", zap.Error(err))
		}
	}
	return rep, nil
}

func (s *Service) reportKey(opts RunOptions) string {
	if opts.ReportObject != "" {
		return opts.ReportObject
	}
	if opts.UploadReport {
		return s.cfg.ReportPrefix
	}
	return ""
}

func (s *Service) caps(award *awards.Award, opts RunOptions) resolve.Caps {
	caps := award.Caps()
	if opts.NomineeCap != nil {
		caps.NomineeDefault = *opts.NomineeCap
		caps.NomineeByYear = nil
	}
	if opts.SpecialCap != nil {
		caps.Special = *opts.SpecialCap
	}
	return caps
}

func (s *Service) workers(opts RunOptions) int {
	if opts.Workers > 0 {
		return opts.Workers
	}
	return s.cfg.Workers
}

// describer prefers the page title and falls back to the award description.
func describer(award *awards.Award) func(resolve.Classified) string {
	return func(c resolve.Classified) string {
		if c.Entry.Title != "" {
			return c.Entry.Title
		}
		return award.Description
	}
}

func (s *Service) upload(ctx context.Context, rep *report.Report, key string) error {
	if s.client == nil {
		return fmt.Errorf("object storage is not configured")
	}
	if strings.HasSuffix(key, "/") {
		key = fmt.Sprintf("%s%s-%s.json", key, slug(rep.Award), s.now().UTC().Format("20060102T150405Z"))
	}
	data, err := rep.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload report %s: %w", key, err)
	}
	s.logger.Info("Uploaded sync report", zap.String("object", key))
	return nil
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
