package driver

import (
	"fmt"
	"sync/atomic"
)

// metrics tracks counters for one pipeline run
type metrics struct {
	parsed        atomic.Int64 // modules handed to the parser
	parseErrors   atomic.Int64 // load and parse failures
	cacheHits     atomic.Int64 // dependency lists read from disk
	cacheMisses   atomic.Int64
	resolved      atomic.Int64
	resolveErrors atomic.Int64
	skipped       atomic.Int64 // modules with errors or unresolved imports

	batches  atomic.Int64
	batchMax atomic.Int64 // largest batch size
}

func (m *metrics) observeBatch(size int64) {
	for {
		cur := m.batchMax.Load()
		if size <= cur || m.batchMax.CompareAndSwap(cur, size) {
			return
		}
	}
}

func (m *metrics) snapshot() Stats {
	return Stats{
		Parsed:        m.parsed.Load(),
		ParseErrors:   m.parseErrors.Load(),
		CacheHits:     m.cacheHits.Load(),
		CacheMisses:   m.cacheMisses.Load(),
		Resolved:      m.resolved.Load(),
		ResolveErrors: m.resolveErrors.Load(),
		Skipped:       m.skipped.Load(),
		Batches:       m.batches.Load(),
		BatchMax:      m.batchMax.Load(),
	}
}

// Stats is a snapshot of the counters of a finished run.
type Stats struct {
	Parsed        int64
	ParseErrors   int64
	CacheHits     int64
	CacheMisses   int64
	Resolved      int64
	ResolveErrors int64
	Skipped       int64
	Batches       int64
	BatchMax      int64
}

func (s Stats) String() string {
	lookups := s.CacheHits + s.CacheMisses
	hitRate := 0.0
	if lookups > 0 {
		hitRate = float64(s.CacheHits) / float64(lookups) * 100
	}
	return fmt.Sprintf(
		"parse: %d (%d errors) | "+
			"cache: %d/%d (%.1f%%) | "+
			"resolve: %d (%d errors, %d skipped) | "+
			"batches: %d (max=%d)",
		s.Parsed, s.ParseErrors,
		s.CacheHits, lookups, hitRate,
		s.Resolved, s.ResolveErrors, s.Skipped,
		s.Batches, s.BatchMax,
	)
}
