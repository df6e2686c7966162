package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/rainfall-recurrence/internal/domain"
	"github.com/couchcryptid/rainfall-recurrence/internal/observability"
	"github.com/google/uuid"
)

// Extractor reads every rainfall observation from the source.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.Observation, error)
}

// Analyzer turns observations into annual totals and a fitted recurrence model.
type Analyzer interface {
	Analyze(ctx context.Context, obs []domain.Observation) (Analysis, error)
}

// Exporter writes a finished report to one destination.
type Exporter interface {
	Name() string
	Export(ctx context.Context, report domain.Report) error
}

// sourcer is implemented by extractors that can name their input.
type sourcer interface {
	Source() string
}

// Pipeline orchestrates one extract-analyze-export run.
type Pipeline struct {
	extractor Extractor
	analyzer  Analyzer
	exporters []Exporter
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline with the given stages and observability.
// Exporters run in the order given.
func New(e Extractor, a Analyzer, exporters []Exporter, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor: e,
		analyzer:  a,
		exporters: exporters,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes a single analysis. Input and fit errors abort the run before
// anything is exported. Every exporter is attempted; their failures are
// joined into the returned error alongside the report.
func (p *Pipeline) Run(ctx context.Context) (domain.Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)

	source := ""
	if s, ok := p.extractor.(sourcer); ok {
		source = s.Source()
	}
	logger.Info("run started", "source", source, "exporters", len(p.exporters))

	obs, err := p.extractor.Extract(ctx)
	if err != nil {
		return domain.Report{}, p.fail(logger, start, domain.FailureKind(err), fmt.Errorf("extract observations: %w", err))
	}
	p.metrics.ObservationsRead.Add(float64(len(obs)))
	logger.Debug("observations read", "count", len(obs))

	analysis, err := p.analyzer.Analyze(ctx, obs)
	if err != nil {
		return domain.Report{}, p.fail(logger, start, domain.FailureKind(err), err)
	}
	if analysis.SelectionFallback {
		p.metrics.SelectionFallbacks.Inc()
	}

	res := analysis.Result
	p.metrics.YearsAnalyzed.Set(float64(res.N))
	p.metrics.GumbelLocation.Set(res.Gumbel.Loc)
	p.metrics.GumbelScale.Set(res.Gumbel.Scale)
	logger.Info("gumbel fitted",
		"years", res.N,
		"mean", res.Mean,
		"std_dev", res.StdDev,
		"loc", res.Gumbel.Loc,
		"scale", res.Gumbel.Scale,
	)

	report := domain.NewReport(runID, source, analysis.Selection, analysis.SelectionFallback,
		analysis.Observations, analysis.Annual, res)

	if err := p.export(ctx, logger, report); err != nil {
		return report, p.fail(logger, start, "export", err)
	}

	p.metrics.RunDuration.Set(time.Since(start).Seconds())
	p.metrics.LastSuccess.SetToCurrentTime()
	logger.Info("run finished", "duration", time.Since(start))
	return report, nil
}

// export runs each exporter in turn. A cancelled context stops the loop.
func (p *Pipeline) export(ctx context.Context, logger *slog.Logger, report domain.Report) error {
	var errs []error
	for _, e := range p.exporters {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := e.Export(ctx, report); err != nil {
			logger.Error("export failed", "exporter", e.Name(), "error", err)
			p.metrics.Exports.WithLabelValues(e.Name(), "error").Inc()
			errs = append(errs, fmt.Errorf("export %s: %w", e.Name(), err))
			continue
		}
		p.metrics.Exports.WithLabelValues(e.Name(), "success").Inc()
		logger.Debug("export done", "exporter", e.Name())
	}
	return errors.Join(errs...)
}

func (p *Pipeline) fail(logger *slog.Logger, start time.Time, kind string, err error) error {
	p.metrics.AnalysisFailures.WithLabelValues(kind).Inc()
	p.metrics.RunDuration.Set(time.Since(start).Seconds())
	logger.Error("run failed", "kind", kind, "error", err)
	return err
}
