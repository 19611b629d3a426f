package weka

import (
	"errors"
	"time"
)

// Role classifies a monitored host.
type Role string

const (
	// RoleFrontend is a client-facing host (weka mode=client).
	RoleFrontend Role = "frontend"
	// RoleBackend is a storage host (weka mode=backend).
	RoleBackend Role = "backend"
)

// Counter names present in RawSnapshot.Counters. All are cumulative since
// host process start and monotonically non-decreasing except across restarts.
const (
	CounterOps       = "ops"
	CounterReads     = "reads"
	CounterWrites    = "writes"
	CounterBytesRecv = "bytes_recv"
	CounterBytesSent = "bytes_sent"
)

// Gauge names present in RawSnapshot.Gauges. Instantaneous values, read
// directly rather than derived from deltas.
const (
	GaugeCPUPct         = "cpu_pct"
	GaugeReadLatencyUS  = "read_latency_us"
	GaugeWriteLatencyUS = "write_latency_us"
)

// RawSnapshot is one poll's reading for a single host.
type RawSnapshot struct {
	HostID    string
	Role      Role
	Timestamp time.Time
	Counters  map[string]float64
	Gauges    map[string]float64
}

// ClusterStatus is the cluster-wide summary from `weka status -J`.
type ClusterStatus struct {
	Release       string
	Name          string
	Status        string
	TotalBytes    int64
	UsedBytes     int64
	ActiveClients int
	ActiveIONodes int
	ActiveAlerts  int
	TotalOps      float64
	ReadOps       float64
	WriteOps      float64
	ReadBytes     float64
	WriteBytes    float64
}

// Typed source failures. Callers match with errors.Is; the dashboard only
// surfaces these as a status string, never as a crash.
var (
	// ErrNotLoggedIn indicates the weka CLI rejected the request because no
	// cluster login is active.
	ErrNotLoggedIn = errors.New("not logged in to the cluster")

	// ErrUnreachable indicates the weka CLI could not be run or the cluster
	// did not respond in time.
	ErrUnreachable = errors.New("cluster unreachable")

	// ErrMalformed indicates the weka CLI produced output that could not be
	// parsed.
	ErrMalformed = errors.New("malformed weka output")
)
