package search

import (
	"log/slog"

	"github.com/poiesic/matchmaker/core"
)

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(q Query)
	AfterStructuredFilter(candidateIDs []string)
	AfterVectorSearch(hits []core.ScoredID, fallback bool)
	AfterHydration(matches []core.RankedCommunity)
	CacheHit(key string)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Query)                               {}
func (n *noopMonitor) AfterStructuredFilter(_ []string)            {}
func (n *noopMonitor) AfterVectorSearch(_ []core.ScoredID, _ bool) {}
func (n *noopMonitor) AfterHydration(_ []core.RankedCommunity)     {}
func (n *noopMonitor) CacheHit(_ string)                           {}
func (n *noopMonitor) Finish(_ *Result)                            {}

// LogMonitor reports each search phase as a debug log record.
type LogMonitor struct {
	logger *slog.Logger
}

var _ Monitor = (*LogMonitor)(nil)

// NewLogMonitor creates a LogMonitor writing to logger.
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger.With("component", "search-monitor")}
}

func (m *LogMonitor) Start(q Query) {
	m.logger.Debug("search started", "city", q.City, "timezone", q.Timezone, "top_k", q.TopK)
}

func (m *LogMonitor) AfterStructuredFilter(candidateIDs []string) {
	m.logger.Debug("structured filter", "candidates", len(candidateIDs))
}

func (m *LogMonitor) AfterVectorSearch(hits []core.ScoredID, fallback bool) {
	m.logger.Debug("vector search", "hits", len(hits), "fallback", fallback)
}

func (m *LogMonitor) AfterHydration(matches []core.RankedCommunity) {
	m.logger.Debug("hydrated", "matches", len(matches))
}

func (m *LogMonitor) CacheHit(key string) {
	m.logger.Debug("served from cache", "key", key)
}

func (m *LogMonitor) Finish(result *Result) {
	top := 0.0
	if len(result.Matches) > 0 {
		top = result.Matches[0].Score
	}
	m.logger.Debug("search finished", "matches", len(result.Matches), "top_score", top, "fallback", result.Fallback)
}
