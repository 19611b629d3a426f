// Package sampler turns raw cumulative-counter snapshots into per-interval
// rate metrics. It keeps exactly one previous snapshot per host; no time
// series is retained beyond what the current interval needs.
package sampler

import (
	"context"
	"errors"

	"github.com/weka/wtop/internal/logger"
	"github.com/weka/wtop/internal/weka"
)

// Defaults for staleness and host removal, in consecutive missed polls.
const (
	DefaultStaleAfter  = 2
	DefaultRemoveAfter = 5
)

// SnapshotSource provides raw per-host counter readings.
type SnapshotSource interface {
	Snapshots(ctx context.Context) ([]weka.RawSnapshot, error)
}

// Sampler polls a SnapshotSource and derives rate metrics per host.
// It is the sole owner of the previous-snapshot cache and the sole writer
// of DerivedMetric records. Not safe for concurrent use; the dashboard
// invokes Poll from a single command goroutine at a time.
type Sampler struct {
	source      SnapshotSource
	staleAfter  int
	removeAfter int

	prev    map[string]weka.RawSnapshot
	metrics map[string]*DerivedMetric
	misses  map[string]int

	log logger.Logger
}

// New creates a sampler. staleAfter is how many consecutive missed polls mark
// a host stale; removeAfter is how many drop it entirely. Zero values take
// the defaults.
func New(source SnapshotSource, staleAfter, removeAfter int) *Sampler {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if removeAfter <= 0 {
		removeAfter = DefaultRemoveAfter
	}
	return &Sampler{
		source:      source,
		staleAfter:  staleAfter,
		removeAfter: removeAfter,
		prev:        make(map[string]weka.RawSnapshot),
		metrics:     make(map[string]*DerivedMetric),
		misses:      make(map[string]int),
		log:         logger.Noop(),
	}
}

// SetLogger installs a logger for diagnostics.
func (s *Sampler) SetLogger(l logger.Logger) {
	if l != nil {
		s.log = l
	}
}

// Poll fetches a snapshot set and returns the complete derived-metric table.
// The returned map is a fresh copy on every call, so publishing it to the
// renderer is atomic: a reader holding an old table never observes a
// partially applied update.
//
// On source failure the existing table is retained, marked stale, and
// returned alongside a *PollError; records are never cleared by a failure.
func (s *Sampler) Poll(ctx context.Context) (map[string]*DerivedMetric, error) {
	snapshots, err := s.source.Snapshots(ctx)
	if err != nil {
		s.log.Debug("poll failed: %v", err)
		for _, m := range s.metrics {
			m.Stale = true
		}
		return s.publish(), classify(err)
	}

	seen := make(map[string]bool, len(snapshots))
	for _, snap := range snapshots {
		seen[snap.HostID] = true
		s.apply(snap)
	}

	// Hosts absent from this poll accumulate misses; past staleAfter they
	// render stale, past removeAfter they are dropped (host left the cluster).
	for hostID := range s.prev {
		if seen[hostID] {
			continue
		}
		s.misses[hostID]++
		if s.misses[hostID] >= s.removeAfter {
			s.log.Debug("host %s absent for %d polls, removing", hostID, s.misses[hostID])
			delete(s.prev, hostID)
			delete(s.metrics, hostID)
			delete(s.misses, hostID)
			continue
		}
		if m, ok := s.metrics[hostID]; ok && s.misses[hostID] >= s.staleAfter {
			m.Stale = true
		}
	}

	return s.publish(), nil
}

// apply folds one host's new snapshot into the derived table.
func (s *Sampler) apply(snap weka.RawSnapshot) {
	prev, hasPrev := s.prev[snap.HostID]
	s.misses[snap.HostID] = 0

	if !hasPrev {
		// First sighting: no baseline, so rates start at zero.
		s.prev[snap.HostID] = snap
		s.metrics[snap.HostID] = newMetric(snap)
		return
	}

	elapsed := snap.Timestamp.Sub(prev.Timestamp).Seconds()
	if elapsed <= 0 {
		// Clock went nowhere (or backwards): the sample is unusable.
		// Keep the previous snapshot and derived record untouched.
		s.log.Debug("host %s: non-positive elapsed %.3fs, sample skipped", snap.HostID, elapsed)
		if m, ok := s.metrics[snap.HostID]; ok {
			m.Stale = false
		}
		return
	}

	m := newMetric(snap)
	m.OpsPerSec = rate(prev, snap, weka.CounterOps, elapsed)
	m.ReadsPerSec = rate(prev, snap, weka.CounterReads, elapsed)
	m.WritesPerSec = rate(prev, snap, weka.CounterWrites, elapsed)
	m.RecvBytesPerSec = rate(prev, snap, weka.CounterBytesRecv, elapsed)
	m.SentBytesPerSec = rate(prev, snap, weka.CounterBytesSent, elapsed)

	s.prev[snap.HostID] = snap
	s.metrics[snap.HostID] = m
}

// rate computes delta/elapsed for one counter. A negative delta means the
// host restarted and its counters reset; the rate for that interval is zero,
// never negative.
func rate(prev, cur weka.RawSnapshot, counter string, elapsed float64) float64 {
	delta := cur.Counters[counter] - prev.Counters[counter]
	if delta < 0 {
		return 0
	}
	return delta / elapsed
}

// newMetric builds a derived record with gauges copied and rates zeroed.
func newMetric(snap weka.RawSnapshot) *DerivedMetric {
	return &DerivedMetric{
		HostID:         snap.HostID,
		Role:           snap.Role,
		CPUPct:         snap.Gauges[weka.GaugeCPUPct],
		ReadLatencyUS:  snap.Gauges[weka.GaugeReadLatencyUS],
		WriteLatencyUS: snap.Gauges[weka.GaugeWriteLatencyUS],
		LastUpdated:    snap.Timestamp,
	}
}

// publish returns a snapshot copy of the derived table. Records are copied
// by value so later polls never mutate what a renderer already holds.
func (s *Sampler) publish() map[string]*DerivedMetric {
	out := make(map[string]*DerivedMetric, len(s.metrics))
	for hostID, m := range s.metrics {
		copied := *m
		out[hostID] = &copied
	}
	return out
}

// classify maps source errors onto PollError kinds.
func classify(err error) *PollError {
	kind := KindUnreachable
	switch {
	case errors.Is(err, weka.ErrNotLoggedIn):
		kind = KindAuth
	case errors.Is(err, weka.ErrMalformed):
		kind = KindMalformed
	}
	return &PollError{Kind: kind, Message: err.Error()}
}
