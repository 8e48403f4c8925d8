package server

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/matzehuels/linkagesim/pkg/observability"
)

// Stats counts solver and cache events. Register it with
// observability.SetSolverHooks and observability.SetCacheHooks; the
// server reports a snapshot on /healthz.
type Stats struct {
	solves      atomic.Int64
	solveErrors atomic.Int64
	sweeps      atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	solveNanos  atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Solves        int64   `json:"solves"`
	SolveErrors   int64   `json:"solve_errors"`
	Sweeps        int64   `json:"sweeps"`
	CacheHits     int64   `json:"cache_hits"`
	CacheMisses   int64   `json:"cache_misses"`
	MeanSolveMsec float64 `json:"mean_solve_ms"`
}

// NewStats returns zeroed counters.
func NewStats() *Stats { return &Stats{} }

// Snapshot returns the current counts.
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		Solves:      s.solves.Load(),
		SolveErrors: s.solveErrors.Load(),
		Sweeps:      s.sweeps.Load(),
		CacheHits:   s.cacheHits.Load(),
		CacheMisses: s.cacheMisses.Load(),
	}
	if snap.Solves > 0 {
		snap.MeanSolveMsec = float64(s.solveNanos.Load()) / float64(snap.Solves) / 1e6
	}
	return snap
}

func (s *Stats) OnSolveStart(context.Context, int, float64) {}

func (s *Stats) OnSolveComplete(_ context.Context, _ int, d time.Duration, err error) {
	s.solves.Add(1)
	s.solveNanos.Add(int64(d))
	if err != nil {
		s.solveErrors.Add(1)
	}
}

func (s *Stats) OnSweepComplete(context.Context, int, int, time.Duration) { s.sweeps.Add(1) }

func (s *Stats) OnCacheHit(context.Context, string) { s.cacheHits.Add(1) }

func (s *Stats) OnCacheMiss(context.Context, string) { s.cacheMisses.Add(1) }

func (s *Stats) OnCacheSet(context.Context, string, int) {}

var (
	_ observability.SolverHooks = (*Stats)(nil)
	_ observability.CacheHooks  = (*Stats)(nil)
)
