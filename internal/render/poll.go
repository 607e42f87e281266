package render

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"sylva/internal/textutil"
	"sylva/internal/treehollow"
)

const votedMarker = "[x] "

// PollRows returns the plain cells of a poll: the options row, followed by
// the results row only when the server disclosed results.
func PollRows(v *treehollow.Vote) [][]string {
	if v == nil || len(v.Options) == 0 {
		return nil
	}
	voted := v.VotedIndex()
	options := make([]string, len(v.Options))
	for i, opt := range v.Options {
		if i == voted {
			opt = votedMarker + opt
		}
		options[i] = opt
	}
	rows := [][]string{options}
	if v.ResultsVisible() {
		results := make([]string, len(v.Options))
		for i := range results {
			if i < len(v.Results) {
				results[i] = strconv.Itoa(v.Results[i])
			}
		}
		rows = append(rows, results)
	}
	return rows
}

// Poll writes a standalone poll table.
func (r *Renderer) Poll(v *treehollow.Vote) error {
	return r.write(r.pollTable(v, r.width))
}

func (r *Renderer) pollTable(v *treehollow.Vote, width int) string {
	rows := PollRows(v)
	if len(rows) == 0 {
		return ""
	}
	n := len(rows[0])
	cell := (width-(n-1))/n - 2
	if cell < 1 {
		cell = 1
	}
	voted := v.VotedIndex()

	tw := table.NewWriter()
	style := table.StyleLight
	style.Options = table.Options{SeparateColumns: true}
	tw.SetStyle(style)
	for ri, cells := range rows {
		row := make(table.Row, n)
		for i, c := range cells {
			c = textutil.Wrap(c, cell)
			if ri == 0 && i == voted {
				c = r.theme.paint(c, colorVoted)
			}
			row[i] = c
		}
		tw.AppendRow(row)
	}
	configs := make([]table.ColumnConfig, n)
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignCenter}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
