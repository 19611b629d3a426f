package weka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parseTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestParseRealtimeCSVBasic(t *testing.T) {
	csv := `Hostname,Mode,CPU%,Ops,Reads,Writes,L6 Recv,L6 Sent,Read Latency(µs),Write Latency(µs)
wk-be-01,backend,42.5,1000,600,400,2048,1024,120,250
wk-cl-01,client,10.0,50,30,20,512,256,80,90
`
	snaps, err := ParseRealtimeCSV([]byte(csv), parseTime)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	be := snaps[0]
	assert.Equal(t, "wk-be-01", be.HostID)
	assert.Equal(t, RoleBackend, be.Role)
	assert.Equal(t, parseTime, be.Timestamp)
	assert.Equal(t, 1000.0, be.Counters[CounterOps])
	assert.Equal(t, 600.0, be.Counters[CounterReads])
	assert.Equal(t, 400.0, be.Counters[CounterWrites])
	assert.Equal(t, 2048.0, be.Counters[CounterBytesRecv])
	assert.Equal(t, 42.5, be.Gauges[GaugeCPUPct])
	assert.Equal(t, 120.0, be.Gauges[GaugeReadLatencyUS])

	cl := snaps[1]
	assert.Equal(t, "wk-cl-01", cl.HostID)
	assert.Equal(t, RoleFrontend, cl.Role)
}

func TestParseRealtimeCSVAggregatesProcessRows(t *testing.T) {
	// Two processes on the same host: counters sum, gauges average.
	csv := `Hostname,Mode,CPU%,Ops
wk-be-01,backend,40,100
wk-be-01,backend,60,300
`
	snaps, err := ParseRealtimeCSV([]byte(csv), parseTime)
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	assert.Equal(t, 400.0, snaps[0].Counters[CounterOps])
	assert.Equal(t, 50.0, snaps[0].Gauges[GaugeCPUPct])
}

func TestParseRealtimeCSVPreservesFirstSeenOrder(t *testing.T) {
	csv := `Hostname,Mode,Ops
wk-c,backend,1
wk-a,backend,2
wk-b,backend,3
wk-a,backend,4
`
	snaps, err := ParseRealtimeCSV([]byte(csv), parseTime)
	require.NoError(t, err)
	require.Len(t, snaps, 3)

	assert.Equal(t, "wk-c", snaps[0].HostID)
	assert.Equal(t, "wk-a", snaps[1].HostID)
	assert.Equal(t, "wk-b", snaps[2].HostID)
	assert.Equal(t, 6.0, snaps[1].Counters[CounterOps])
}

func TestParseRealtimeCSVEmptyPayload(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "  \n  "},
		{"header only", "Hostname,Mode,Ops\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps, err := ParseRealtimeCSV([]byte(tt.data), parseTime)
			assert.NoError(t, err, "an empty cluster is not a failure")
			assert.Empty(t, snaps)
		})
	}
}

func TestParseRealtimeCSVMissingHostnameColumn(t *testing.T) {
	csv := `Mode,CPU%,Ops
backend,40,100
`
	_, err := ParseRealtimeCSV([]byte(csv), parseTime)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseRealtimeCSVHeaderAliases(t *testing.T) {
	// Older releases label columns differently.
	csv := `Host,Mode,CPU,Total Ops
wk-be-01,backend,33,500
`
	snaps, err := ParseRealtimeCSV([]byte(csv), parseTime)
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	assert.Equal(t, "wk-be-01", snaps[0].HostID)
	assert.Equal(t, 500.0, snaps[0].Counters[CounterOps])
	assert.Equal(t, 33.0, snaps[0].Gauges[GaugeCPUPct])
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name   string
		cell   string
		expect float64
	}{
		{"plain", "42.5", 42.5},
		{"unit suffix", "123 B/s", 123},
		{"empty", "", 0},
		{"garbage", "n/a", 0},
		{"padded", "  7  ", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, parseValue(tt.cell))
		})
	}
}

func TestParseClusterStatus(t *testing.T) {
	payload := `{
		"release": "4.2.1",
		"name": "prod-cluster",
		"status": "OK",
		"capacity": {"total_bytes": 1000, "unprovisioned_bytes": 250},
		"clients": {"active": 12},
		"io_nodes": {"active": 8},
		"active_alerts_count": 2,
		"activity": {"num_ops": 5000, "num_reads": 3000, "num_writes": 2000,
			"sum_bytes_read": 4096, "sum_bytes_written": 2048}
	}`

	status, err := parseClusterStatus([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, "prod-cluster", status.Name)
	assert.Equal(t, "4.2.1", status.Release)
	assert.Equal(t, "OK", status.Status)
	assert.Equal(t, int64(1000), status.TotalBytes)
	assert.Equal(t, int64(750), status.UsedBytes)
	assert.Equal(t, 12, status.ActiveClients)
	assert.Equal(t, 8, status.ActiveIONodes)
	assert.Equal(t, 2, status.ActiveAlerts)
	assert.Equal(t, 5000.0, status.TotalOps)
}

func TestParseClusterStatusMalformed(t *testing.T) {
	_, err := parseClusterStatus([]byte("not json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}
