package stats

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func renderTable(headers []string, rows [][]string, rightAligned ...int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, col := range rightAligned {
		configs = append(configs, table.ColumnConfig{
			Number:      col,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// CountsTable renders speaker counts as a terminal table.
func CountsTable(counts []SpeakerCount) string {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{strconv.Itoa(c.Count), c.ID}
	}
	return renderTable([]string{"Talks", "Speaker"}, rows, 1)
}

// DatesTable renders speaker date ranges as a terminal table.
func DatesTable(ranges []SpeakerRange) string {
	rows := make([][]string, len(ranges))
	for i, r := range ranges {
		rows[i] = []string{strconv.Itoa(r.Days), r.ID, r.First, r.Last}
	}
	return renderTable([]string{"Days", "Speaker", "First", "Last"}, rows, 1)
}
