// Package dataset loads the accident-hotspot source file into the derived
// in-memory table the rest of the service reads from.
//
// Portal files arrive in one of three encodings; Load tries CP949, EUC-KR,
// and UTF-8 in that order and keeps the first interpretation that both
// decodes and parses. The attempts reinterpret the same bytes, so there is
// no retry or backoff involved.
package dataset

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/roadwatch/accident-insight/internal/domain"
	"github.com/roadwatch/accident-insight/internal/observability"
)

// ErrDataUnavailable marks a source file that is missing or unreadable
// under every attempted encoding. The dashboard blocks on it; there is no
// partial rendering.
var ErrDataUnavailable = errors.New("dataset unavailable")

// Loader reads and derives the dataset, memoizing the result. The cache
// lifetime is explicit and injectable rather than hidden process-wide state:
// a zero TTL keeps the first successful load for the life of the process.
type Loader struct {
	path    string
	ttl     time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics

	mu     sync.RWMutex
	cached *Table
}

// NewLoader creates a memoizing Loader. A nil clock uses real time.
func NewLoader(path string, ttl time.Duration, clk clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Loader{
		path:    path,
		ttl:     ttl,
		clock:   clk,
		logger:  logger,
		metrics: metrics,
	}
}

// Load returns the cached derived table, reading the source file when the
// cache is empty or past its TTL.
func (l *Loader) Load(ctx context.Context) (*Table, error) {
	l.mu.RLock()
	if t := l.cached; t != nil && !l.expired(t) {
		l.mu.RUnlock()
		return t, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if t := l.cached; t != nil && !l.expired(t) {
		return t, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := l.load()
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		return nil, err
	}

	l.metrics.DatasetLoads.WithLabelValues("success").Inc()
	l.metrics.DatasetReady.Set(1)
	l.metrics.DatasetRecords.Set(float64(len(t.Records)))
	l.cached = t
	return t, nil
}

// Invalidate drops the cached table so the next Load re-reads the file.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

// CheckReadiness returns nil once a derived table is being served.
func (l *Loader) CheckReadiness(_ context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.cached == nil {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

func (l *Loader) expired(t *Table) bool {
	if l.ttl <= 0 {
		return false
	}
	return l.clock.Since(t.Meta.LoadedAt) >= l.ttl
}

func (l *Loader) load() (*Table, error) {
	start := time.Now()

	records, encoding, skipped, err := l.readRecords()
	if err != nil {
		return nil, err
	}

	derived, stats := domain.DeriveTable(records)
	if stats.MalformedRegions > 0 {
		l.metrics.MalformedRegions.Add(float64(stats.MalformedRegions))
		l.logger.Warn("records with unattributable region kept under default province",
			"count", stats.MalformedRegions,
			"province", domain.ProvinceUnknown,
		)
	}

	t := &Table{
		Records: derived,
		Meta: Meta{
			Path:             l.path,
			Encoding:         encoding,
			Rows:             len(derived),
			SkippedRows:      skipped,
			MalformedRegions: stats.MalformedRegions,
			LoadedAt:         l.clock.Now(),
		},
	}

	l.metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	l.logger.Info("dataset loaded",
		"path", l.path,
		"encoding", encoding,
		"rows", len(derived),
		"skipped_rows", skipped,
	)
	return t, nil
}

// readRecords reads the source file and returns raw records plus the name of
// the interpretation that succeeded.
func (l *Loader) readRecords() ([]domain.AccidentRecord, string, int, error) {
	if strings.EqualFold(filepath.Ext(l.path), ".xlsx") {
		records, skipped, err := l.readXLSX()
		if err != nil {
			l.metrics.DecodeAttempts.WithLabelValues("xlsx", "error").Inc()
			return nil, "", 0, err
		}
		l.metrics.DecodeAttempts.WithLabelValues("xlsx", "success").Inc()
		return records, "xlsx", skipped, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, "", 0, errors.Join(ErrDataUnavailable, err)
	}

	var lastErr error
	for _, attempt := range decodeAttempts {
		text, err := attempt.decode(data)
		if err == nil {
			var records []domain.AccidentRecord
			var skipped int
			records, skipped, err = parseCSV(text)
			if err == nil {
				l.metrics.DecodeAttempts.WithLabelValues(attempt.name, "success").Inc()
				return records, attempt.name, skipped, nil
			}
		}

		l.metrics.DecodeAttempts.WithLabelValues(attempt.name, "error").Inc()
		l.logger.Debug("decode attempt failed", "encoding", attempt.name, "error", err)
		lastErr = err
	}

	return nil, "", 0, errors.Join(ErrDataUnavailable, lastErr)
}
