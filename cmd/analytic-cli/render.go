package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/paveg/analytic/internal/dataframe"
	"github.com/paveg/analytic/internal/monitoring"
)

const missingCell = "NULL"

// renderTable prints at most limit rows of df; limit <= 0 prints every row
func renderTable(w io.Writer, df *dataframe.DataFrame, limit int) {
	if df.Width() == 0 || df.Len() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	names := df.Columns()
	header := make(table.Row, len(names))
	for i, name := range names {
		header[i] = name
	}
	t.AppendHeader(header)

	shown := df.Len()
	if limit > 0 && shown > limit {
		shown = limit
	}
	for i := 0; i < shown; i++ {
		row := make(table.Row, len(names))
		for j, name := range names {
			col, _ := df.Column(name)
			if col.IsNull(i) {
				row[j] = missingCell
			} else {
				row[j] = col.GetAsString(i)
			}
		}
		t.AppendRow(row)
	}

	t.Render()
	if shown < df.Len() {
		_, _ = fmt.Fprintf(w, "(%d of %d rows)\n", shown, df.Len())
		return
	}
	_, _ = fmt.Fprintf(w, "(%d rows)\n", df.Len())
}

func renderMetrics(w io.Writer, collector *monitoring.MetricsCollector) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"query", "rows", "partitions", "outputs", "parallel", "duration"})
	for _, m := range collector.GetMetrics() {
		t.AppendRow(table.Row{m.QueryID, m.RowsProcessed, m.Partitions, m.Outputs, m.Parallel, m.Duration})
	}
	summary := collector.GetSummary()
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d queries, %d failed", summary.TotalOperations, summary.FailedOperations),
		summary.TotalRows, "", "", summary.ParallelOperations, summary.TotalDuration,
	})
	t.Render()
}
