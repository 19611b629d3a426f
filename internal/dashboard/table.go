package dashboard

import (
	"sort"

	"github.com/weka/wtop/internal/sampler"
	"github.com/weka/wtop/internal/weka"
)

// Placeholder fills cells with no value.
const Placeholder = "—"

// Row is one rendered table row.
type Row struct {
	HostID string
	Cells  []string // One formatted cell per visible column.
	Stale  bool
	CPUPct float64
}

// Table is the fully projected view of the metric set: filtered to one role,
// sorted, and formatted. It is plain data with no styling applied.
type Table struct {
	Columns []Column
	Rows    []Row
}

// BuildTable projects the metric table for display. It is a pure function of
// its inputs: the same metrics, role, column set, and sort produce the same
// table, so rendering can be repeated or tested without touching the sampler.
func BuildTable(metrics map[string]*sampler.DerivedMetric, role weka.Role, visibleIDs []string, sortID string, descending bool) Table {
	cols := make([]Column, 0, len(visibleIDs))
	for _, id := range visibleIDs {
		if c, ok := ColumnByID(id); ok {
			cols = append(cols, c)
		}
	}

	records := make([]*sampler.DerivedMetric, 0, len(metrics))
	for _, m := range metrics {
		if m.Role == role {
			records = append(records, m)
		}
	}

	sortRecords(records, sortID, descending)

	rows := make([]Row, 0, len(records))
	for _, m := range records {
		cells := make([]string, len(cols))
		for i, c := range cols {
			if c.ID == "host" {
				cells[i] = m.HostID
				continue
			}
			if v, ok := c.Extract(m); ok {
				cells[i] = c.Format(v)
			} else {
				cells[i] = Placeholder
			}
		}
		rows = append(rows, Row{
			HostID: m.HostID,
			Cells:  cells,
			Stale:  m.Stale,
			CPUPct: m.CPUPct,
		})
	}

	return Table{Columns: cols, Rows: rows}
}

// sortRecords orders records by the sort column. Ties, and hosts with no
// value for the column, fall back to host ID ascending regardless of the
// sort direction, so the ordering is total and stable across refreshes.
func sortRecords(records []*sampler.DerivedMetric, sortID string, descending bool) {
	if sortID == "" || sortID == "host" {
		sort.Slice(records, func(i, j int) bool {
			if descending {
				return records[i].HostID > records[j].HostID
			}
			return records[i].HostID < records[j].HostID
		})
		return
	}

	col, ok := ColumnByID(sortID)
	if !ok {
		sort.Slice(records, func(i, j int) bool {
			return records[i].HostID < records[j].HostID
		})
		return
	}

	sort.Slice(records, func(i, j int) bool {
		vi, oki := col.Extract(records[i])
		vj, okj := col.Extract(records[j])

		// Hosts without a value sort after hosts with one.
		if oki != okj {
			return oki
		}
		if oki && vi != vj {
			if descending {
				return vi > vj
			}
			return vi < vj
		}
		return records[i].HostID < records[j].HostID
	})
}
