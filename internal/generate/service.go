// Package generate runs the documentation pipeline: start the database,
// discover its beans, render each one and write the documents.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/beandoc/internal/config"
	"git.home.luguber.info/inful/beandoc/internal/discovery"
	"git.home.luguber.info/inful/beandoc/internal/emit"
	dberrors "git.home.luguber.info/inful/beandoc/internal/foundation/errors"
	"git.home.luguber.info/inful/beandoc/internal/graphdb"
	"git.home.luguber.info/inful/beandoc/internal/logfields"
	"git.home.luguber.info/inful/beandoc/internal/manifest"
	"git.home.luguber.info/inful/beandoc/internal/metrics"
	"git.home.luguber.info/inful/beandoc/internal/mgmt"
	"git.home.luguber.info/inful/beandoc/internal/typename"
	"git.home.luguber.info/inful/beandoc/internal/version"
)

// Stage names used in logs and metrics.
const (
	StageDatabase = "database"
	StageDiscover = "discover"
	StageRender   = "render"
	StageSummary  = "summary"
	StageManifest = "manifest"
)

// Database is the embedded database a run documents.
type Database interface {
	Registry() *mgmt.Registry
	Shutdown(ctx context.Context) error
}

// DatabaseOpener starts the database for a run.
type DatabaseOpener func(ctx context.Context, cfg config.DatabaseConfig) (Database, error)

// OpenGraphDB starts the embedded graph database.
func OpenGraphDB(ctx context.Context, cfg config.DatabaseConfig) (Database, error) {
	db, err := graphdb.NewBuilder(cfg.StoreDir).SetConfigMap(cfg.Settings).Open(ctx)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Result describes a finished run.
type Result struct {
	RunID string
	// Documented are the entries with a detail document, in summary order.
	Documented []discovery.Entry
	// Skipped are entries with neither attributes nor operations.
	Skipped   []discovery.Entry
	Excluded  []string
	Artifacts []emit.Artifact
	// ManifestPath is empty when the manifest is disabled.
	ManifestPath string
	Duration     time.Duration
}

// Service runs the pipeline.
type Service struct {
	recorder metrics.Recorder
	stdout   io.Writer
	openDB   DatabaseOpener
}

// NewService creates a service that prints progress to stdout and records
// no metrics.
func NewService() *Service {
	return &Service{
		recorder: metrics.NoopRecorder{},
		stdout:   os.Stdout,
		openDB:   OpenGraphDB,
	}
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	s.recorder = r
	return s
}

// WithStdout sets the writer progress lines are printed to.
func (s *Service) WithStdout(w io.Writer) *Service {
	s.stdout = w
	return s
}

// WithDatabaseOpener replaces the embedded database (for testing).
func (s *Service) WithDatabaseOpener(fn DatabaseOpener) *Service {
	s.openDB = fn
	return s
}

type textfileWriter interface {
	WriteTextfile(path string) error
}

// Run executes one documentation run. Any error aborts the run after the
// database has been shut down.
func (s *Service) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	start := time.Now()
	m := manifest.New(version.Version)
	result := &Result{RunID: m.ID}
	logger := slog.Default().With(logfields.RunID(m.ID))

	err := s.run(ctx, cfg, result, logger)
	if cfg.Output.ManifestEnabled() {
		// Written after the database is released so the status reflects a
		// failed shutdown too.
		stageStart := time.Now()
		if merr := s.writeManifest(cfg, m, result, err, logger); merr != nil {
			s.recorder.IncStageResult(StageManifest, metrics.ResultFatal)
			err = merr
		} else if err == nil {
			s.recorder.ObserveStageDuration(StageManifest, time.Since(stageStart))
			s.recorder.IncStageResult(StageManifest, metrics.ResultSuccess)
		}
	}
	result.Duration = time.Since(start)

	outcome := metrics.RunSuccess
	if err != nil {
		outcome = metrics.RunFailed
	}
	s.recorder.IncRunOutcome(outcome)
	s.recorder.ObserveRunDuration(result.Duration)
	if cfg.Metrics.Textfile != "" {
		if tw, ok := s.recorder.(textfileWriter); ok {
			if werr := tw.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
				logger.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(werr))
			}
		}
	}

	if err != nil {
		logger.Error("Run failed", logfields.Error(err), logfields.DurationMS(float64(result.Duration.Milliseconds())))
		return result, err
	}
	logger.Info("Run complete",
		logfields.Count(len(result.Documented)),
		logfields.Path(cfg.Output.Directory),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

func (s *Service) run(ctx context.Context, cfg *config.Config, result *Result, logger *slog.Logger) (err error) {
	stageStart := time.Now()
	db, err := s.openDB(ctx, cfg.Database)
	if err != nil {
		s.recorder.IncStageResult(StageDatabase, metrics.ResultFatal)
		return dberrors.WrapError(err, dberrors.CategoryDatabase, "failed to start database").
			WithContext("store_dir", cfg.Database.StoreDir).Fatal().Build()
	}
	defer func() {
		if serr := db.Shutdown(context.WithoutCancel(ctx)); serr != nil {
			logger.Warn("Database shutdown failed", logfields.Error(serr))
			if err == nil {
				err = dberrors.WrapError(serr, dberrors.CategoryDatabase, "failed to shut down database").Build()
			}
		}
	}()
	s.recorder.ObserveStageDuration(StageDatabase, time.Since(stageStart))
	s.recorder.IncStageResult(StageDatabase, metrics.ResultSuccess)
	reg := db.Registry()

	// Discovery
	stageStart = time.Now()
	found, err := discovery.Run(reg, discovery.Options{
		Queries:  cfg.Registry.Queries,
		Excludes: cfg.Registry.Excludes,
	})
	if err != nil {
		s.recorder.IncStageResult(StageDiscover, metrics.ResultFatal)
		return classifyDiscovery(err)
	}
	result.Excluded = found.Excluded
	s.recorder.AddEntries(metrics.EntryExcluded, len(found.Excluded))
	s.recorder.ObserveStageDuration(StageDiscover, time.Since(stageStart))
	s.recorder.IncStageResult(StageDiscover, metrics.ResultSuccess)
	fmt.Fprintf(s.stdout, "  [+] number of beans found: %d\n", len(found.Entries))
	logger.Info("Discovered beans", logfields.Stage(StageDiscover), logfields.Count(len(found.Entries)))

	// Rendering
	stageStart = time.Now()
	em := emit.New(cfg.Output.Directory, NewRenderer(cfg), emit.Options{
		Clean:       cfg.Output.Clean,
		HTMLPreview: cfg.Output.HTMLPreview,
		Logger:      logger,
	})
	if err := em.Prepare(); err != nil {
		s.recorder.IncStageResult(StageRender, metrics.ResultFatal)
		return dberrors.WrapError(err, dberrors.CategoryFileSystem, "failed to prepare output directory").
			WithContext("path", cfg.Output.Directory).Build()
	}
	for _, entry := range found.Entries {
		if err := ctx.Err(); err != nil {
			return dberrors.WrapError(err, dberrors.CategoryInternal, "run canceled").Build()
		}
		bean, err := discovery.Describe(reg, entry)
		if err != nil {
			s.recorder.IncStageResult(StageRender, metrics.ResultFatal)
			return dberrors.WrapError(err, dberrors.CategoryRegistry, "failed to describe entry").
				WithContext("entry", entry.Name).Build()
		}
		fmt.Fprintf(s.stdout, "    [*] name: %s\n", bean.Name)
		fmt.Fprintf(s.stdout, "        id: %s\n", bean.ID)
		fmt.Fprintf(s.stdout, "        description: %s\n", bean.Description)

		_, written, err := em.WriteDetail(bean)
		if err != nil {
			s.recorder.IncStageResult(StageRender, metrics.ResultFatal)
			return classifyRender(err, bean.Entry)
		}
		if !written {
			logger.Debug("Nothing to document", logfields.Entry(bean.Name), logfields.EntryID(bean.ID))
			result.Skipped = append(result.Skipped, bean.Entry)
			continue
		}
		result.Documented = append(result.Documented, bean.Entry)
	}
	s.recorder.AddEntries(metrics.EntryDocumented, len(result.Documented))
	s.recorder.AddEntries(metrics.EntrySkipped, len(result.Skipped))
	s.recorder.ObserveStageDuration(StageRender, time.Since(stageStart))
	s.recorder.IncStageResult(StageRender, metrics.ResultSuccess)

	// Summary
	stageStart = time.Now()
	if _, err := em.WriteSummary(result.Documented); err != nil {
		s.recorder.IncStageResult(StageSummary, metrics.ResultFatal)
		return dberrors.WrapError(err, dberrors.CategoryFileSystem, "failed to write summary").Build()
	}
	if err := em.Verify(); err != nil {
		s.recorder.IncStageResult(StageSummary, metrics.ResultFatal)
		return dberrors.WrapError(err, dberrors.CategoryFormat, "generated documents failed verification").Build()
	}
	result.Artifacts = em.Artifacts()
	s.recorder.ObserveStageDuration(StageSummary, time.Since(stageStart))
	s.recorder.IncStageResult(StageSummary, metrics.ResultSuccess)
	return nil
}

// writeManifest fills in and writes the run manifest. After a failed run
// it is written on a best-effort basis and errors are only logged.
func (s *Service) writeManifest(cfg *config.Config, m *manifest.RunManifest, result *Result, runErr error, logger *slog.Logger) error {
	m.Inputs.Queries = cfg.Registry.Queries
	m.Inputs.Excludes = cfg.Registry.Excludes
	m.Inputs.Format = string(cfg.Output.Format)
	if hash, err := cfg.Hash(); err == nil {
		m.Inputs.ConfigHash = hash
	}
	if src, err := manifest.DetectSource("."); err != nil {
		logger.Debug("No source revision recorded", logfields.Error(err))
	} else {
		m.Inputs.Source = src
	}

	m.Outputs = manifest.Outputs{Directory: cfg.Output.Directory}
	for _, a := range result.Artifacts {
		rel, err := filepath.Rel(cfg.Output.Directory, a.Path)
		if err != nil {
			rel = a.Path
		}
		m.AddFile(rel, string(a.Kind), a.EntryID, a.Body)
	}
	m.EntryCount = len(result.Documented)
	m.Finish(runErr, time.Since(m.Timestamp))
	if hash, err := m.Hash(); err == nil {
		m.OutputHash = hash
	}

	path := filepath.Join(cfg.Output.Directory, manifest.FileName)
	err := func() error {
		data, err := m.ToJSON()
		if err != nil {
			return err
		}
		if runErr != nil {
			if _, statErr := os.Stat(cfg.Output.Directory); statErr != nil {
				return statErr
			}
		}
		return emit.WriteFileAtomic(path, data)
	}()
	if err != nil {
		if runErr != nil {
			logger.Debug("Manifest of failed run not written", logfields.Error(err))
			return nil
		}
		return dberrors.WrapError(err, dberrors.CategoryFileSystem, "failed to write manifest").
			WithContext("path", path).Build()
	}
	result.ManifestPath = path
	return nil
}

func classifyDiscovery(err error) error {
	if errors.Is(err, mgmt.ErrMalformedName) {
		return dberrors.WrapError(err, dberrors.CategoryConfig, "malformed registry query").Build()
	}
	return dberrors.WrapError(err, dberrors.CategoryRegistry, "registry discovery failed").Build()
}

func classifyRender(err error, e discovery.Entry) error {
	if errors.Is(err, typename.ErrUnknownEncoding) {
		return dberrors.WrapError(err, dberrors.CategoryFormat, "failed to render entry").
			WithContext("entry", e.Name).Build()
	}
	return dberrors.WrapError(err, dberrors.CategoryFileSystem, "failed to write entry").
		WithContext("entry", e.Name).
		WithContext("id", e.ID).Build()
}
