package weka

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// csvColumn binds a snapshot field to the CSV header names the weka CLI may
// emit for it. Header labels vary slightly between releases, so each column
// carries the known aliases.
type csvColumn struct {
	field   string // counter or gauge name, or "" for identity columns
	gauge   bool
	aliases []string
}

var realtimeColumns = []csvColumn{
	{field: CounterOps, aliases: []string{"Ops", "Ops/s", "Total Ops"}},
	{field: CounterReads, aliases: []string{"Reads", "Reads/s"}},
	{field: CounterWrites, aliases: []string{"Writes", "Writes/s"}},
	{field: CounterBytesRecv, aliases: []string{"L6 Recv", "Recv"}},
	{field: CounterBytesSent, aliases: []string{"L6 Sent", "Sent"}},
	{field: GaugeCPUPct, gauge: true, aliases: []string{"CPU%", "CPU %", "CPU"}},
	{field: GaugeReadLatencyUS, gauge: true, aliases: []string{"Read Latency(µs)", "Read Latency (µs)", "RLatency"}},
	{field: GaugeWriteLatencyUS, gauge: true, aliases: []string{"Write Latency(µs)", "Write Latency (µs)", "WLatency"}},
}

// hostAccumulator aggregates the per-process rows the weka CLI reports into
// a single per-host record: counters are summed, gauges averaged.
type hostAccumulator struct {
	role     Role
	counters map[string]float64
	gauges   map[string]float64
	rows     int
}

// ParseRealtimeCSV parses `weka stats realtime -f csv` output into one
// RawSnapshot per host, stamped with now. An empty payload (no rows) yields
// an empty slice and a nil error: an empty cluster is not a failure.
func ParseRealtimeCSV(data []byte, now time.Time) ([]RawSnapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	reader := csv.NewReader(bytes.NewReader(trimmed))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(records) < 2 {
		// Header only: no hosts reported.
		return nil, nil
	}

	header := records[0]
	hostIdx := headerIndex(header, "Hostname", "Host")
	modeIdx := headerIndex(header, "Mode")
	if hostIdx < 0 {
		return nil, fmt.Errorf("%w: no Hostname column in %q", ErrMalformed, strings.Join(header, ","))
	}

	type boundColumn struct {
		csvColumn
		idx int
	}
	var bound []boundColumn
	for _, col := range realtimeColumns {
		if idx := headerIndex(header, col.aliases...); idx >= 0 {
			bound = append(bound, boundColumn{csvColumn: col, idx: idx})
		}
	}

	hosts := make(map[string]*hostAccumulator)
	var order []string

	for _, row := range records[1:] {
		if hostIdx >= len(row) {
			continue
		}
		hostID := strings.TrimSpace(row[hostIdx])
		if hostID == "" {
			continue
		}

		acc, ok := hosts[hostID]
		if !ok {
			acc = &hostAccumulator{
				role:     RoleBackend,
				counters: make(map[string]float64),
				gauges:   make(map[string]float64),
			}
			hosts[hostID] = acc
			order = append(order, hostID)
		}

		if modeIdx >= 0 && modeIdx < len(row) {
			if strings.EqualFold(strings.TrimSpace(row[modeIdx]), "client") {
				acc.role = RoleFrontend
			}
		}

		for _, col := range bound {
			if col.idx >= len(row) {
				continue
			}
			v := parseValue(row[col.idx])
			if col.gauge {
				acc.gauges[col.field] += v
			} else {
				acc.counters[col.field] += v
			}
		}
		acc.rows++
	}

	snapshots := make([]RawSnapshot, 0, len(order))
	for _, hostID := range order {
		acc := hosts[hostID]
		if acc.rows > 1 {
			for k := range acc.gauges {
				acc.gauges[k] /= float64(acc.rows)
			}
		}
		snapshots = append(snapshots, RawSnapshot{
			HostID:    hostID,
			Role:      acc.role,
			Timestamp: now,
			Counters:  acc.counters,
			Gauges:    acc.gauges,
		})
	}

	return snapshots, nil
}

// headerIndex returns the index of the first header cell matching any alias,
// case-insensitively, or -1.
func headerIndex(header []string, aliases ...string) int {
	for i, cell := range header {
		cell = strings.TrimSpace(cell)
		for _, alias := range aliases {
			if strings.EqualFold(cell, alias) {
				return i
			}
		}
	}
	return -1
}

// parseValue converts a CSV cell to a float, tolerating unit suffixes like
// "123 B/s". Unparseable cells count as zero.
func parseValue(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	if idx := strings.IndexByte(cell, ' '); idx != -1 {
		cell = cell[:idx]
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0
	}
	return v
}
