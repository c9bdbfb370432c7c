package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trezcool/shule/core/resource"
)

// renderTable prints the derived view; it only ever consumes VisibleItems,
// never the raw snapshot.
func renderTable(out io.Writer, schema resource.Schema, items []resource.Resource) {
	t := table.NewWriter()
	t.SetOutputMirror(out)

	header := table.Row{"ID"}
	for _, f := range schema.Fields {
		header = append(header, f.Label)
	}
	t.AppendHeader(header)

	for _, item := range items {
		row := table.Row{item.ID}
		for _, f := range schema.Fields {
			if f.Reference {
				row = append(row, item.RefID(f.Name))
				continue
			}
			row = append(row, item.Str(f.Name))
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleLight)
	t.Render()
}
