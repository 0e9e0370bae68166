package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/lw-directory-scraper/internal/domain"
)

// Sink receives the finished export bundle.
type Sink interface {
	Name() string
	Write(ctx context.Context, bundle domain.ExportBundle) error
}

// Exporter hands one bundle to every sink. Sinks write independent outputs
// and run side by side; a failing sink does not stop the others.
type Exporter struct {
	sinks  []Sink
	logger *zap.Logger
}

func NewExporter(logger *zap.Logger, sinks ...Sink) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		sinks:  sinks,
		logger: logger,
	}
}

// Export builds the bundle from records and writes it to every sink. Each
// failing sink is reported as an export-stage failure; the returned error
// joins them.
func (e *Exporter) Export(ctx context.Context, records []domain.Record) (domain.ExportBundle, []domain.Failure, error) {
	bundle := domain.NewExportBundle(records)
	if len(e.sinks) == 0 {
		return bundle, nil, nil
	}

	var (
		mu       sync.Mutex
		failures []domain.Failure
	)

	p := pool.New().WithMaxGoroutines(len(e.sinks)).WithContext(ctx)
	for _, sink := range e.sinks {
		sink := sink
		p.Go(func(ctx context.Context) error {
			if err := sink.Write(ctx, bundle); err != nil {
				e.logger.Error("Export sink failed",
					zap.String("sink", sink.Name()),
					zap.Error(err))
				mu.Lock()
				failures = append(failures, domain.Failure{
					Stage:  domain.StageExport,
					Target: sink.Name(),
					Err:    err,
				})
				mu.Unlock()
				return fmt.Errorf("%s sink: %w", sink.Name(), err)
			}
			e.logger.Info("Export sink written",
				zap.String("sink", sink.Name()),
				zap.Int("records", len(bundle.Records)),
				zap.Int("columns", len(bundle.Columns)))
			return nil
		})
	}

	err := p.Wait()
	return bundle, failures, err
}
