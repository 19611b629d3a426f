package dashboard

import (
	"fmt"

	"github.com/weka/wtop/internal/sampler"
)

// Column describes one table column: how to extract its value from a metric
// record and how to format it for display.
type Column struct {
	ID          string
	Title       string
	Width       int
	Description string

	// Extract pulls the sortable numeric value from a record. ok is false
	// when the record has no value for this column.
	Extract func(m *sampler.DerivedMetric) (value float64, ok bool)

	// Format renders the value for a cell.
	Format func(value float64) string
}

// The column catalog. Order here is the order columns appear when added with
// the 'a' key; every column a host can report is listed whether or not it is
// visible by default.
var Columns = []Column{
	{
		ID:          "host",
		Title:       "Host",
		Width:       20,
		Description: "Host identifier",
		// Identity column: sorting by it compares host IDs as strings,
		// handled directly by the sorter.
		Extract: func(m *sampler.DerivedMetric) (float64, bool) { return 0, false },
		Format:  func(v float64) string { return "" },
	},
	{
		ID:          "cpu",
		Title:       "CPU%",
		Width:       7,
		Description: "CPU utilization percentage",
		Extract:     func(m *sampler.DerivedMetric) (float64, bool) { return m.CPUPct, true },
		Format:      func(v float64) string { return fmt.Sprintf("%.1f", v) },
	},
	{
		ID:          "ops",
		Title:       "Ops/s",
		Width:       10,
		Description: "Total operations per second",
		Extract:     func(m *sampler.DerivedMetric) (float64, bool) { return m.OpsPerSec, true },
		Format:      formatCount,
	},
	{
		ID:          "reads",
		Title:       "Reads/s",
		Width:       10,
		Description: "Read operations per second",
		Extract:     func(m *sampler.DerivedMetric) (float64, bool) { return m.ReadsPerSec, true },
		Format:      formatCount,
	},
	{
		ID:          "writes",
		Title:       "Writes/s",
		Width:       10,
		Description: "Write operations per second",
		Extract:     func(m *sampler.DerivedMetric) (float64, bool) { return m.WritesPerSec, true },
		Format:      formatCount,
	},
	{
		ID:          "rlat",
		Title:       "R Lat(µs)",
		Width:       10,
		Description: "Read latency in microseconds",
		Extract:     func(m *sampler.DerivedMetric) (float64, bool) { return m.ReadLatencyUS, true },
		Format:      func(v float64) string { return fmt.Sprintf("%.0f", v) },
	},
	{
		ID:          "wlat",
		Title:       "W Lat(µs)",
		Width:       10,
		Description: "Write latency in microseconds",
		Extract:     func(m *sampler.DerivedMetric) (float64, bool) { return m.WriteLatencyUS, true },
		Format:      func(v float64) string { return fmt.Sprintf("%.0f", v) },
	},
	{
		ID:          "recv",
		Title:       "Recv/s",
		Width:       11,
		Description: "Network bytes received per second",
		Extract:     func(m *sampler.DerivedMetric) (float64, bool) { return m.RecvBytesPerSec, true },
		Format:      FormatRate,
	},
	{
		ID:          "sent",
		Title:       "Sent/s",
		Width:       11,
		Description: "Network bytes sent per second",
		Extract:     func(m *sampler.DerivedMetric) (float64, bool) { return m.SentBytesPerSec, true },
		Format:      FormatRate,
	},
}

// DefaultColumnIDs is the visible column set on startup when the config does
// not override it. Recv/s and Sent/s stay hidden until added with 'a'.
var DefaultColumnIDs = []string{"host", "cpu", "ops", "reads", "writes", "rlat", "wlat"}

// ColumnByID looks a column up in the catalog.
func ColumnByID(id string) (Column, bool) {
	for _, c := range Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// ValidColumnIDs filters ids down to those present in the catalog, preserving
// order and dropping duplicates. The host column is always first.
func ValidColumnIDs(ids []string) []string {
	out := []string{"host"}
	seen := map[string]bool{"host": true}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if _, ok := ColumnByID(id); !ok {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// NextHiddenColumn returns the first catalog column not in visible, or ""
// when every column is already shown.
func NextHiddenColumn(visible []string) string {
	shown := make(map[string]bool, len(visible))
	for _, id := range visible {
		shown[id] = true
	}
	for _, c := range Columns {
		if !shown[c.ID] {
			return c.ID
		}
	}
	return ""
}

// formatCount renders an operations-per-second value, compacting large
// numbers to k/M suffixes.
func formatCount(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 10_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

// FormatRate formats a bytes-per-second rate as a human-readable string.
func FormatRate(bytesPerSecond float64) string {
	if bytesPerSecond < 1024 {
		return fmt.Sprintf("%.0f B/s", bytesPerSecond)
	} else if bytesPerSecond < 1024*1024 {
		return fmt.Sprintf("%.1f KB/s", bytesPerSecond/1024)
	} else if bytesPerSecond < 1024*1024*1024 {
		return fmt.Sprintf("%.1f MB/s", bytesPerSecond/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB/s", bytesPerSecond/(1024*1024*1024))
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), units[exp])
}
