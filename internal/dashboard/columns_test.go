package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnCatalog(t *testing.T) {
	// Every default column must exist in the catalog.
	for _, id := range DefaultColumnIDs {
		_, ok := ColumnByID(id)
		assert.True(t, ok, "default column %q missing from catalog", id)
	}

	// IDs are unique.
	seen := make(map[string]bool)
	for _, c := range Columns {
		assert.False(t, seen[c.ID], "duplicate column id %q", c.ID)
		seen[c.ID] = true
		assert.NotEmpty(t, c.Title)
		assert.NotEmpty(t, c.Description)
		assert.Greater(t, c.Width, 0)
	}
}

func TestColumnByIDUnknown(t *testing.T) {
	_, ok := ColumnByID("bogus")
	assert.False(t, ok)
}

func TestValidColumnIDs(t *testing.T) {
	tests := []struct {
		name   string
		in     []string
		expect []string
	}{
		{"host always first", []string{"cpu", "ops"}, []string{"host", "cpu", "ops"}},
		{"drops unknown", []string{"cpu", "bogus"}, []string{"host", "cpu"}},
		{"drops duplicates", []string{"cpu", "cpu", "host"}, []string{"host", "cpu"}},
		{"empty", nil, []string{"host"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ValidColumnIDs(tt.in))
		})
	}
}

func TestNextHiddenColumn(t *testing.T) {
	assert.Equal(t, "recv", NextHiddenColumn(DefaultColumnIDs))

	all := make([]string, 0, len(Columns))
	for _, c := range Columns {
		all = append(all, c.ID)
	}
	assert.Equal(t, "", NextHiddenColumn(all))
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		name   string
		in     float64
		expect string
	}{
		{"small", 42.25, "42.2"},
		{"thousands kept plain", 9999, "9999.0"},
		{"ten thousands", 25_000, "25.0k"},
		{"millions", 3_500_000, "3.5M"},
		{"zero", 0, "0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, formatCount(tt.in))
		})
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		name   string
		in     float64
		expect string
	}{
		{"bytes", 512, "512 B/s"},
		{"kilobytes", 10 * 1024, "10.0 KB/s"},
		{"megabytes", 50 * 1024 * 1024, "50.0 MB/s"},
		{"gigabytes", 2 * 1024 * 1024 * 1024, "2.0 GB/s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, FormatRate(tt.in))
		})
	}
}

func TestColumnExtractors(t *testing.T) {
	m := metric("wk-1", "backend", 55, 123)
	m.ReadsPerSec = 60
	m.WritesPerSec = 63
	m.ReadLatencyUS = 150
	m.WriteLatencyUS = 300
	m.RecvBytesPerSec = 2048
	m.SentBytesPerSec = 1024

	expected := map[string]float64{
		"cpu":    55,
		"ops":    123,
		"reads":  60,
		"writes": 63,
		"rlat":   150,
		"wlat":   300,
		"recv":   2048,
		"sent":   1024,
	}

	for id, want := range expected {
		c, ok := ColumnByID(id)
		require.True(t, ok)
		got, ok := c.Extract(m)
		assert.True(t, ok)
		assert.Equal(t, want, got, "column %s", id)
	}

	// The host column has no numeric value.
	host, _ := ColumnByID("host")
	_, ok := host.Extract(m)
	assert.False(t, ok)
}

func TestFormatCountBoundary(t *testing.T) {
	assert.Equal(t, "10.0k", formatCount(10_000))
	assert.Equal(t, "1.0M", formatCount(1_000_000))
}
