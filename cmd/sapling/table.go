package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pbanos/sapling/feature/yaml"
	"github.com/pbanos/sapling/tree"
)

/*
writeConfusionMatrix renders cm as a table with a row per actual
class and a column per predicted class.
*/
func writeConfusionMatrix(w io.Writer, cm *tree.ConfusionMatrix, md *yaml.Metadata) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("actual \\ predicted")
	classes := cm.Classes()
	header := table.Row{""}
	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for i, c := range classes {
		header = append(header, md.ClassName(c))
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)
	for _, actual := range classes {
		row := table.Row{md.ClassName(actual)}
		for _, predicted := range classes {
			row = append(row, cm.Count(actual, predicted))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"accuracy", cm.String()})
	t.Render()
}
