package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableColumn describes one column of a rendered table.
type tableColumn struct {
	Header   string
	Align    columnAlignment
	MaxWidth int
}

func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, col := range columns {
		header[i] = col.Header
		align := text.AlignLeft
		if col.Align == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:           i + 1,
			Align:            align,
			AlignHeader:      text.AlignLeft,
			WidthMax:         col.MaxWidth,
			WidthMaxEnforcer: text.Trim,
		})
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
