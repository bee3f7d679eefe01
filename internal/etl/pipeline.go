// Package etl runs one extract, transform, load pass from the MongoDB
// fruits collection into the PostgreSQL fruit table.
package etl

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/fruitdb/etl/internal/config"
	"github.com/fruitdb/etl/internal/fruits"
	"github.com/fruitdb/etl/internal/fruits/fruitsink"
	"github.com/fruitdb/etl/internal/fruits/fruitsource"
	"golang.org/x/exp/slog"
)

type Source interface {
	Ping(ctx context.Context) error
	FetchAll(ctx context.Context) ([]fruits.Document, error)
	Close(ctx context.Context) error
}

type Sink interface {
	Ping(ctx context.Context) error
	StoreAll(ctx context.Context, records []fruits.Fruit) error
	Close() error
}

type SourceOpener func(ctx context.Context, settings config.Settings) (Source, error)

type SinkOpener func(ctx context.Context, settings config.Settings) (Sink, error)

// Report summarises one run. Phase is always terminal.
type Report struct {
	Phase     Phase
	Extracted int
	Loaded    int
}

type Pipeline struct {
	Config     *config.Config
	OpenSource SourceOpener
	OpenSink   SinkOpener
}

func New(cfg *config.Config, options ...func(*Pipeline)) *Pipeline {
	p := &Pipeline{Config: cfg}
	p.OpenSource = openMongo
	p.OpenSink = p.openPostgres
	for _, option := range options {
		option(p)
	}
	return p
}

func WithSourceOpener(opener SourceOpener) func(*Pipeline) {
	return func(p *Pipeline) {
		p.OpenSource = opener
	}
}

func WithSinkOpener(opener SinkOpener) func(*Pipeline) {
	return func(p *Pipeline) {
		p.OpenSink = opener
	}
}

func openMongo(ctx context.Context, settings config.Settings) (Source, error) {
	h, err := fruitsource.NewHandler(ctx, settings.MongoURI)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (p *Pipeline) openPostgres(_ context.Context, settings config.Settings) (Sink, error) {
	h, err := fruitsink.Open(fruitsink.Options{
		Host:     settings.PostgresHost,
		Port:     p.Config.PostgresPort,
		Database: settings.PostgresDB,
		User:     settings.PostgresUser,
		Password: settings.PostgresPassword,
		SSLMode:  p.Config.PostgresSSLMode,
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// run holds the state of a single invocation.
type run struct {
	pipeline *Pipeline
	phase    Phase
	report   Report

	source Source
	sink   Sink
}

// Run executes every phase in order. Any error moves the run to FAILED and
// is returned as a *PhaseError; connections opened so far are closed
// before returning.
func (p *Pipeline) Run(ctx context.Context, overrides config.Overrides) (Report, error) {
	r := &run{pipeline: p, phase: PhaseConfiguring}
	defer r.release(ctx)

	settings := p.Config.Resolve(overrides)
	slog.Info("Resolved configuration",
		"postgres_host", settings.PostgresHost,
		"postgres_db", settings.PostgresDB,
		"postgres_user", settings.PostgresUser,
	)

	var documents []fruits.Document
	var records []fruits.Fruit

	steps := []struct {
		phase Phase
		fn    func(ctx context.Context) error
	}{
		{PhaseExtracting, func(ctx context.Context) (err error) {
			documents, err = r.extract(ctx, settings)
			return err
		}},
		{PhaseTransforming, func(ctx context.Context) error {
			records = r.transform(ctx, documents)
			return nil
		}},
		{PhaseLoading, func(ctx context.Context) error {
			return r.load(ctx, settings, records)
		}},
		{PhaseClosing, r.close},
	}

	for _, step := range steps {
		if err := r.step(ctx, step.phase, step.fn); err != nil {
			return r.report, err
		}
	}

	r.enter(PhaseSucceeded)
	return r.report, nil
}

func (r *run) enter(phase Phase) {
	slog.Info("Entering phase", "from", r.phase.String(), "to", phase.String())
	r.phase = phase
	r.report.Phase = phase
	if phase.Terminal() {
		slog.Info("ETL run finished", "phase", phase.String(), "extracted", r.report.Extracted, "loaded", r.report.Loaded)
	}
}

func (r *run) step(ctx context.Context, phase Phase, fn func(ctx context.Context) error) error {
	if r.phase.Terminal() {
		return &PhaseError{Phase: phase, Err: fmt.Errorf("run already %s", r.phase)}
	}
	r.enter(phase)
	err := xray.Capture(ctx, phase.segmentName(), fn)
	if err == nil {
		return nil
	}

	slog.Error("Error occurred during ETL process", "phase", phase.String(), "error", err)
	r.enter(PhaseFailed)
	return &PhaseError{Phase: phase, Err: err}
}

// checkConnection applies the connect-failure policy: fail, or log and
// carry on with a client that may not work.
func (r *run) checkConnection(ctx context.Context, store string, ping func(context.Context) error) error {
	err := ping(ctx)
	if err == nil {
		return nil
	}
	if !r.pipeline.Config.TolerateConnectErrors {
		return err
	}
	slog.Error("Error connecting, continuing anyway", "store", store, "error", err)
	return nil
}

func (r *run) extract(ctx context.Context, settings config.Settings) ([]fruits.Document, error) {
	source, err := r.pipeline.OpenSource(ctx, settings)
	if err != nil {
		return nil, err
	}
	r.source = source

	if err := r.checkConnection(ctx, "mongo", source.Ping); err != nil {
		return nil, err
	}

	documents, err := source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	r.report.Extracted = len(documents)
	_ = xray.AddAnnotation(ctx, "extracted", len(documents))
	slog.Info("Extracted fruits data", "count", len(documents), "documents", documents)
	return documents, nil
}

func (r *run) transform(_ context.Context, documents []fruits.Document) []fruits.Fruit {
	records := fruits.Transform(documents)
	slog.Info("Transformed fruits data", "count", len(records), "records", records)
	return records
}

func (r *run) load(ctx context.Context, settings config.Settings, records []fruits.Fruit) error {
	sink, err := r.pipeline.OpenSink(ctx, settings)
	if err != nil {
		return err
	}
	r.sink = sink

	if err := r.checkConnection(ctx, "postgres", sink.Ping); err != nil {
		return err
	}

	if err := sink.StoreAll(ctx, records); err != nil {
		return err
	}

	r.report.Loaded = len(records)
	_ = xray.AddAnnotation(ctx, "loaded", len(records))
	slog.Info("Data loaded into PostgreSQL successfully", "count", len(records))
	return nil
}

func (r *run) close(ctx context.Context) error {
	if r.sink != nil {
		err := r.sink.Close()
		r.sink = nil
		if err != nil {
			return fmt.Errorf("could not close postgres: %w", err)
		}
	}
	if r.source != nil {
		err := r.source.Close(ctx)
		r.source = nil
		if err != nil {
			return fmt.Errorf("could not close mongo: %w", err)
		}
	}
	return nil
}

// release closes whatever a failed run left open.
func (r *run) release(ctx context.Context) {
	if r.sink != nil {
		if err := r.sink.Close(); err != nil {
			slog.Error("Failed to close postgres", "error", err)
		}
	}
	if r.source != nil {
		if err := r.source.Close(ctx); err != nil {
			slog.Error("Failed to close mongo", "error", err)
		}
	}
}
