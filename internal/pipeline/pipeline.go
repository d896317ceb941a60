package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// SourceReader returns the raw contents of a named source file.
type SourceReader interface {
	ReadSource(ctx context.Context, fileName string) ([]byte, error)
}

// Loader writes the assembled dataset document to a destination.
type Loader interface {
	Load(ctx context.Context, datasets []*domain.Dataset) error
}

// MultiLoader runs loaders in order and stops at the first failure.
type MultiLoader []Loader

func (m MultiLoader) Load(ctx context.Context, datasets []*domain.Dataset) error {
	for _, l := range m {
		if err := l.Load(ctx, datasets); err != nil {
			return err
		}
	}
	return nil
}

// Pipeline assembles every registered source into one dataset document and
// hands it to the loader.
type Pipeline struct {
	reader  SourceReader
	loader  Loader
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	done    atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(r SourceReader, l Loader, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		reader:  r,
		loader:  l,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Completed reports whether a run has loaded a document.
func (p *Pipeline) Completed() bool {
	return p.done.Load()
}

// Run assembles sources and loads the result. Nothing is loaded when any
// source cannot be read.
func (p *Pipeline) Run(ctx context.Context, sources []domain.Source) error {
	start := p.clock.Now()
	p.logger.Info("pipeline started", "sources", len(sources))
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	datasets, err := p.Assemble(ctx, sources)
	if err != nil {
		return err
	}

	if err := p.loader.Load(ctx, datasets); err != nil {
		return fmt.Errorf("load datasets: %w", err)
	}

	elapsed := p.clock.Since(start)
	p.metrics.RunDuration.Observe(elapsed.Seconds())
	p.done.Store(true)
	p.logger.Info("pipeline finished", "datasets", len(datasets), "duration", elapsed)
	return nil
}

// Assemble parses sources in order with a resolver scoped to this call and
// returns the flattened datasets.
func (p *Pipeline) Assemble(ctx context.Context, sources []domain.Source) ([]*domain.Dataset, error) {
	for _, src := range sources {
		if err := src.Validate(); err != nil {
			return nil, err
		}
	}

	resolver := domain.NewCityResolver()
	datasets := make([]*domain.Dataset, 0, len(sources))

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("assemble cancelled before %s: %w", src.FileName, err)
		}

		parsed, err := p.parseSource(ctx, src, resolver)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, parsed...)
	}

	p.metrics.DatasetsEmitted.Set(float64(len(datasets)))
	p.metrics.CitiesResolved.Set(float64(resolver.Len()))
	p.logger.Info("datasets assembled",
		"datasets", len(datasets),
		"cities", resolver.Len(),
		"id_substitutions", resolver.Substitutions(),
	)
	return datasets, nil
}

// parseSource reads and parses one file, recording stats.
func (p *Pipeline) parseSource(ctx context.Context, src domain.Source, resolver *domain.CityResolver) ([]*domain.Dataset, error) {
	start := p.clock.Now()
	format := src.Format.String()

	contents, err := p.reader.ReadSource(ctx, src.FileName)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("source %q: %w", src.Title, err)
	}

	datasets, stats, err := domain.Parse(src, string(contents), resolver)
	if err != nil {
		return nil, err
	}

	elapsed := p.clock.Since(start)
	p.metrics.FilesParsed.WithLabelValues(format).Inc()
	p.metrics.RecordsParsed.WithLabelValues(format).Add(float64(stats.Records))
	p.metrics.BlankLines.Add(float64(stats.BlankLines))
	p.metrics.RaggedRows.Add(float64(stats.RaggedRows))
	p.metrics.IDSubstitutions.Add(float64(stats.Substituted))
	p.metrics.ParseDuration.WithLabelValues(format).Observe(elapsed.Seconds())

	p.logger.Info("source parsed",
		"file", src.FileName,
		"format", format,
		"datasets", len(datasets),
		"records", stats.Records,
		"blank_lines", stats.BlankLines,
		"id_substitutions", stats.Substituted,
		"duration", elapsed,
	)
	if stats.RaggedRows > 0 {
		p.logger.Warn("rows without twelve monthly values",
			"file", src.FileName,
			"ragged_rows", stats.RaggedRows,
		)
	}

	return datasets, nil
}
