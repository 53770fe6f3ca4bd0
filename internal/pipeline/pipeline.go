// Package pipeline orchestrates one aggregation run end to end: load
// scanner output, normalize, merge against the previous baseline, compute
// statistics, attach remediation guidance, and write artifacts.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/voleary/stratus/internal/adapter"
	"github.com/voleary/stratus/internal/config"
	"github.com/voleary/stratus/internal/merge"
	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/internal/normalize"
	"github.com/voleary/stratus/internal/remediation"
	"github.com/voleary/stratus/internal/stats"
	"github.com/voleary/stratus/internal/storage"
	"github.com/voleary/stratus/pkg/logger"
)

// Pipeline runs the aggregation flow for one configuration.
type Pipeline struct {
	cfg        *config.Config
	logger     logger.Logger
	registry   *adapter.Registry
	normalizer *normalize.Normalizer
	resolver   *remediation.Resolver
	store      *storage.Store
	clock      func() time.Time
}

// New builds a pipeline from a validated configuration. Scanner names and
// remediation tables are resolved here so a bad config fails before any
// input is read.
func New(cfg *config.Config, log logger.Logger) (*Pipeline, error) {
	registry := adapter.NewRegistry(log)
	for _, input := range cfg.Inputs {
		if _, err := registry.Get(input.Scanner); err != nil {
			return nil, WrapConfigError(err, "input scanner %q is not supported", input.Scanner)
		}
	}

	resolver, err := remediation.NewResolver(log, cfg.RemediationTables...)
	if err != nil {
		return nil, WrapConfigError(err, "building remediation resolver")
	}

	store, err := storage.NewStore(cfg.OutputDir, log)
	if err != nil {
		return nil, WrapConfigError(err, "opening output directory")
	}

	return &Pipeline{
		cfg:        cfg,
		logger:     log,
		registry:   registry,
		normalizer: normalize.New(log, cfg.Overrides()),
		resolver:   resolver,
		store:      store,
		clock:      time.Now,
	}, nil
}

// Store exposes the artifact store, used by the list and remediate
// commands to read what aggregate wrote.
func (p *Pipeline) Store() *storage.Store { return p.store }

// RunSummary reports what one completed run did. Skip counts are always
// present so operators can tell a clean run from a lossy one.
type RunSummary struct {
	StartTime         time.Time
	Statistics        models.Statistics
	RunID             string
	Artifacts         storage.Artifacts
	Duration          time.Duration
	FilesParsed       int
	FilesSkipped      int
	RecordsSkipped    int
	UnknownSeverities int
	NewFindings       int
	UpdatedFindings   int
	StaleFindings     int
	TotalFindings     int
}

// Run executes one aggregation run. Configuration problems abort before
// anything is written; per-file and per-record problems are absorbed into
// the summary counts.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	runTime := p.clock().UTC().Truncate(time.Second)
	runID := uuid.New().String()
	log := p.logger.With("run_id", runID)
	started := time.Now()

	// Every input root must exist before the run touches the output dir.
	for _, input := range p.cfg.Inputs {
		info, err := os.Stat(input.Root)
		if err != nil {
			return nil, WrapConfigError(err, "input root %q for scanner %s", input.Root, input.Scanner)
		}
		if !info.IsDir() {
			return nil, NewConfigError("input root %q for scanner %s is not a directory", input.Root, input.Scanner)
		}
	}

	summary := &RunSummary{RunID: runID, StartTime: runTime}

	var records []adapter.Record
	for _, input := range p.cfg.Inputs {
		a, err := p.registry.Get(input.Scanner)
		if err != nil {
			return nil, WrapConfigError(err, "input scanner %q is not supported", input.Scanner)
		}

		result, err := adapter.Load(ctx, a, input.Root, log)
		if err != nil {
			return nil, fmt.Errorf("loading %s output from %s: %w", input.Scanner, input.Root, err)
		}

		records = append(records, result.Records...)
		summary.FilesParsed += result.FilesParsed
		summary.FilesSkipped += result.FilesSkipped
		summary.RecordsSkipped += result.RecordsSkipped
		log.Info("Loaded scanner output",
			"scanner", input.Scanner, "root", input.Root,
			"files", result.FilesParsed, "records", len(result.Records))
	}

	findings, nstats := p.normalizer.NormalizeAll(records, runTime)
	summary.RecordsSkipped += nstats.Invalid
	summary.UnknownSeverities = nstats.UnknownSeverities
	log.Info("Normalized findings",
		"kept", nstats.Kept, "filtered_passing", nstats.Filtered,
		"invalid", nstats.Invalid, "unknown_severities", nstats.UnknownSeverities)

	baseline, baselinePath, err := p.store.LoadLatest()
	if err != nil {
		// A corrupt baseline should not block a fresh run.
		log.Warn("Could not load previous run, merging against empty baseline", "error", err)
		baseline = nil
	} else if baselinePath != "" {
		log.Debug("Merging against baseline", "path", baselinePath, "findings", len(baseline))
	}

	merged, mstats := merge.Merge(baseline, findings, runTime, p.cfg.StalePolicy())
	summary.NewFindings = mstats.New
	summary.UpdatedFindings = mstats.Updated
	summary.StaleFindings = mstats.Stale
	summary.TotalFindings = len(merged)

	p.resolver.Attach(merged)
	summary.Statistics = stats.Compute(merged, runTime)

	artifacts, err := p.store.SaveArtifacts(merged, summary.Statistics, runTime)
	if err != nil {
		return nil, WrapExportError(err)
	}
	summary.Artifacts = *artifacts
	summary.Duration = time.Since(started)

	log.Info("Aggregation run complete",
		"total", summary.TotalFindings, "new", summary.NewFindings,
		"updated", summary.UpdatedFindings, "stale", summary.StaleFindings,
		"duration", summary.Duration)
	return summary, nil
}
