package sampler

import (
	"time"

	"github.com/weka/wtop/internal/weka"
)

// DerivedMetric is the per-host record the dashboard renders, recomputed
// every sampling interval from consecutive raw snapshots.
type DerivedMetric struct {
	HostID string
	Role   weka.Role

	// Gauges, read directly from the latest snapshot.
	CPUPct         float64
	ReadLatencyUS  float64
	WriteLatencyUS float64

	// Rates, derived from counter deltas over the actual wall-clock gap.
	OpsPerSec       float64
	ReadsPerSec     float64
	WritesPerSec    float64
	RecvBytesPerSec float64
	SentBytesPerSec float64

	LastUpdated time.Time
	Stale       bool
}

// PollError kinds.
const (
	KindAuth        = "auth"
	KindUnreachable = "unreachable"
	KindMalformed   = "malformed"
)

// PollError describes a failed poll. The dashboard surfaces it as a status
// line; existing metrics stay on screen marked stale.
type PollError struct {
	Kind    string
	Message string
}

func (e *PollError) Error() string {
	return e.Message
}
