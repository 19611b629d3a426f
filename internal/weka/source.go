// Package weka wraps the weka CLI as a snapshot source for the dashboard.
// It runs `weka stats realtime` and `weka status -J` through a Runner and
// parses the output into per-host snapshots and a cluster summary.
package weka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/weka/wtop/internal/logger"
)

// DefaultBinary is the weka CLI executable name.
const DefaultBinary = "weka"

// statsFields selects the realtime stat columns the dashboard consumes.
// hostname and mode identify the row; the rest are counters and gauges.
const statsFields = "hostname,mode,cpu,ops,reads,writes,l6recv,l6send,rlatency,wlatency"

// Source retrieves raw metric snapshots from a WEKA cluster via the CLI.
type Source struct {
	runner  Runner
	binary  string
	timeout time.Duration
	log     logger.Logger
}

// NewSource creates a snapshot source using the given runner and binary path.
// An empty binary defaults to "weka".
func NewSource(runner Runner, binary string) *Source {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Source{
		runner: runner,
		binary: binary,
		log:    logger.Noop(),
	}
}

// SetLogger installs a logger for diagnostics.
func (s *Source) SetLogger(l logger.Logger) {
	if l != nil {
		s.log = l
	}
}

// SetTimeout bounds each CLI invocation. Zero means no bound beyond the
// caller's context.
func (s *Source) SetTimeout(d time.Duration) {
	s.timeout = d
}

// invokeCtx applies the per-invocation timeout on top of the caller's context.
func (s *Source) invokeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Snapshots fetches one RawSnapshot per host across all roles.
// An empty cluster yields an empty slice and a nil error.
func (s *Source) Snapshots(ctx context.Context) ([]RawSnapshot, error) {
	ctx, cancel := s.invokeCtx(ctx)
	defer cancel()

	out, err := s.runner.Run(ctx, s.binary,
		"stats", "realtime", "-f", "csv", "-R", "-o", statsFields)
	if err != nil {
		s.log.Debug("stats realtime failed: %v", err)
		return nil, err
	}

	snapshots, err := ParseRealtimeCSV(out, time.Now())
	if err != nil {
		s.log.Debug("stats realtime parse failed: %v", err)
		return nil, err
	}
	return snapshots, nil
}

// ClusterStatus fetches the cluster-wide summary shown in the header line.
func (s *Source) ClusterStatus(ctx context.Context) (*ClusterStatus, error) {
	ctx, cancel := s.invokeCtx(ctx)
	defer cancel()

	out, err := s.runner.Run(ctx, s.binary, "status", "-J")
	if err != nil {
		return nil, err
	}
	return parseClusterStatus(out)
}

// statusPayload mirrors the subset of `weka status -J` the dashboard uses.
type statusPayload struct {
	Release  string `json:"release"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Capacity struct {
		TotalBytes         int64 `json:"total_bytes"`
		UnprovisionedBytes int64 `json:"unprovisioned_bytes"`
	} `json:"capacity"`
	Clients struct {
		Active int `json:"active"`
	} `json:"clients"`
	IONodes struct {
		Active int `json:"active"`
	} `json:"io_nodes"`
	ActiveAlertsCount int `json:"active_alerts_count"`
	Activity          struct {
		NumOps          float64 `json:"num_ops"`
		NumReads        float64 `json:"num_reads"`
		NumWrites       float64 `json:"num_writes"`
		SumBytesRead    float64 `json:"sum_bytes_read"`
		SumBytesWritten float64 `json:"sum_bytes_written"`
	} `json:"activity"`
}

func parseClusterStatus(data []byte) (*ClusterStatus, error) {
	var payload statusPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return &ClusterStatus{
		Release:       payload.Release,
		Name:          payload.Name,
		Status:        payload.Status,
		TotalBytes:    payload.Capacity.TotalBytes,
		UsedBytes:     payload.Capacity.TotalBytes - payload.Capacity.UnprovisionedBytes,
		ActiveClients: payload.Clients.Active,
		ActiveIONodes: payload.IONodes.Active,
		ActiveAlerts:  payload.ActiveAlertsCount,
		TotalOps:      payload.Activity.NumOps,
		ReadOps:       payload.Activity.NumReads,
		WriteOps:      payload.Activity.NumWrites,
		ReadBytes:     payload.Activity.SumBytesRead,
		WriteBytes:    payload.Activity.SumBytesWritten,
	}, nil
}
