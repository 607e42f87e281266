package render

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"sylva/internal/command"
	"sylva/internal/history"
	"sylva/internal/textutil"
	"sylva/internal/treehollow"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
	alignCenter
)

// renderTable lays out a headed table. wrap gives per-column maximum widths
// (zero leaves a column unconstrained).
func renderTable(headers []string, rows [][]string, aligns []columnAlignment, wrap []int) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	style := table.StyleLight
	style.Options.DrawBorder = false
	tw.SetStyle(style)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i < len(wrap) && wrap[i] > 0 {
				cell = textutil.Wrap(cell, wrap[i])
			}
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) {
			switch aligns[i] {
			case alignRight:
				align = text.AlignRight
			case alignCenter:
				align = text.AlignCenter
			}
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: align,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// remaining returns the width left for the last column after fixed columns
// and the table chrome.
func (r *Renderer) remaining(fixed ...int) int {
	used := 0
	for _, w := range fixed {
		used += w + 3
	}
	left := r.width - used - 2
	if left < 10 {
		left = 10
	}
	return left
}

// Devices writes the logged-in device table.
func (r *Renderer) Devices(devices []treehollow.Device) error {
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{d.UUID, relativeTime(d.LoginTime.Time, r.now()), d.Name})
	}
	return r.write(renderTable(
		[]string{"UUID", "Login Time", "Name"},
		rows,
		[]columnAlignment{alignCenter, alignCenter, alignCenter},
		[]int{0, 0, r.remaining(36, 16)},
	))
}

// Notifications writes a notification or system message table.
func (r *Renderer) Notifications(items []treehollow.Notification) error {
	if len(items) == 0 {
		return r.Printf("no notifications")
	}
	rows := make([][]string, 0, len(items))
	for _, n := range items {
		pid := ""
		if n.PID != 0 {
			pid = n.PID.String()
		}
		content := n.Content
		if n.Title != "" {
			content = n.Title + ": " + content
		}
		rows = append(rows, []string{relativeTime(n.CreatedAt.Time, r.now()), n.Type, pid, content})
	}
	return r.write(renderTable(
		[]string{"Time", "Type", "Pid", "Content"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
		[]int{0, 0, 0, r.remaining(16, 12, 8)},
	))
}

// History writes recent input lines, oldest first.
func (r *Renderer) History(entries []history.Entry) error {
	if len(entries) == 0 {
		return r.Printf("history is empty")
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		outcome := e.Outcome
		if e.Error != "" {
			outcome += ": " + e.Error
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			relativeTime(e.CreatedAt, r.now()),
			e.Line,
			outcome,
		})
	}
	half := r.remaining(6, 16) / 2
	return r.write(renderTable(
		[]string{"#", "When", "Line", "Outcome"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
		[]int{0, 0, half, half},
	))
}

// Hollows writes the raw hollow list. Columns are the union of keys, with
// scalar fields first in name order.
func (r *Renderer) Hollows(items []map[string]any) error {
	if len(items) == 0 {
		return r.Printf("no hollows")
	}
	keySet := map[string]struct{}{}
	for _, item := range items {
		for k := range item {
			keySet[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := make([]string, len(keys))
		for i, k := range keys {
			row[i] = cellValue(item[k])
		}
		rows = append(rows, row)
	}
	wrap := make([]int, len(keys))
	per := r.width/len(keys) - 3
	for i := range wrap {
		wrap[i] = max(per, 8)
	}
	return r.write(renderTable(keys, rows, nil, wrap))
}

func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

// Help writes the command table, or one command's usage when topic is set.
func (r *Renderer) Help(specs []command.Spec, topic string) error {
	if topic != "" {
		for _, s := range specs {
			if s.Name == topic {
				lines := []string{"usage: " + s.Usage, "  " + s.Summary}
				if len(s.Aliases) > 0 {
					lines = append(lines, "  aliases: "+strings.Join(s.Aliases, ", "))
				}
				return r.write(strings.Join(lines, "\n"))
			}
		}
		return r.Printf("no help for %q", topic)
	}
	rows := make([][]string, 0, len(specs))
	for _, s := range specs {
		rows = append(rows, []string{s.Name, strings.Join(s.Aliases, ", "), s.Usage, s.Summary})
	}
	rest := r.remaining(14, 6)
	return r.write(renderTable(
		[]string{"Command", "Alias", "Usage", "Summary"},
		rows,
		nil,
		[]int{0, 0, rest * 3 / 5, rest * 2 / 5},
	))
}
