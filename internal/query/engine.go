package query

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/roadwatch/accident-insight/internal/dataset"
	"github.com/roadwatch/accident-insight/internal/domain"
	"github.com/roadwatch/accident-insight/internal/observability"
)

// View is everything the presentation layer needs for one filter selection.
// A View is computed from the derived table and never mutated afterwards.
type View struct {
	Filter     Filter                 `json:"-"`
	Rows       []domain.DerivedRecord `json:"rows"`
	Summary    Summary                `json:"summary"`
	Categories []Aggregate            `json:"categories"`
	TopRegions []Aggregate            `json:"top_regions"`
	Points     []MapPoint             `json:"points"`
}

// Engine computes Views, caching results per (table, filter). Each user
// interaction recomputes the full filter-aggregate chain from the cached
// derived table; the LRU just short-circuits repeated selections.
type Engine struct {
	topN    int
	cache   *lruCache
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewEngine creates an Engine keeping up to cacheSize views.
func NewEngine(topN, cacheSize int, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		topN:    topN,
		cache:   newLRUCache(cacheSize),
		logger:  logger,
		metrics: metrics,
	}
}

// View computes (or recalls) the filtered view of a table.
func (e *Engine) View(table *dataset.Table, f Filter) *View {
	e.metrics.QueryRequests.Inc()

	// LoadedAt in the key invalidates cached views when the table reloads.
	key := fmt.Sprintf("%d|%s", table.Meta.LoadedAt.UnixNano(), f.Key())
	if v, ok := e.cache.get(key); ok {
		e.metrics.QueryCache.WithLabelValues("hit").Inc()
		return v
	}
	e.metrics.QueryCache.WithLabelValues("miss").Inc()

	start := time.Now()
	rows := Apply(table.Records, f)
	v := &View{
		Filter:     f,
		Rows:       rows,
		Summary:    Summarize(rows),
		Categories: ByCategory(rows),
		TopRegions: TopRegions(rows, e.topN),
		Points:     MapPoints(rows),
	}
	e.metrics.QueryDuration.Observe(time.Since(start).Seconds())

	e.cache.put(key, v)
	e.logger.Debug("view computed", "filter", f.Key(), "rows", len(rows))
	return v
}
