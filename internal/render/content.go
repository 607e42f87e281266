package render

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"sylva/internal/services"
	"sylva/internal/textutil"
	"sylva/internal/treehollow"
)

// ContentTable accumulates hole and reply rows in the two-column feed layout.
type ContentTable struct {
	r     *Renderer
	left  int
	right int
	rows  []table.Row
}

// Each column carries one cell of padding on both sides and the columns are
// split by a single separator rune.
const contentChrome = 2*2 + 1

// NewContentTable starts an empty content table.
func (r *Renderer) NewContentTable() *ContentTable {
	usable := r.width - contentChrome
	left := usable * 20 / 100
	return &ContentTable{r: r, left: left, right: usable - left}
}

// Len returns the number of rows added so far.
func (ct *ContentTable) Len() int { return len(ct.rows) }

// AddHole appends a post row.
func (ct *ContentTable) AddHole(h *treehollow.Hole) {
	th := ct.r.theme

	var left []string
	if label := ct.labels(h.TagText(), h.SchoolText()); label != "" {
		left = append(left, label)
	}
	markers := th.paint(textutil.Ternary(h.Image != nil, "i", ""), colorImage) +
		th.paint(textutil.Ternary(h.Vote != nil, "v", ""), colorVote)
	pid := th.paint(h.PID.String(), textutil.Ternary(h.Followed, colorFollowed, colorPID))
	left = append(left, strings.TrimSpace(markers+" "+pid))
	left = append(left, th.paint("*", colorStar)+" "+strconv.Itoa(h.FollowersCount)+" | "+th.paint(">", colorReply)+" "+strconv.Itoa(h.RepliesCount))
	left = append(left, th.paint(relativeTime(h.CreatedAt.Time, ct.r.now()), colorMuted))

	right := textutil.Wrap(h.Content, ct.right)
	if h.Vote != nil {
		right += "\n\n" + ct.r.pollTable(h.Vote, ct.right)
	}
	ct.rows = append(ct.rows, table.Row{ct.wrapLeft(left), right})
}

// AddReply appends a reply row. cites maps every reply of the same hole by
// cid; a citation whose target is absent is a data integrity error and no row
// is added.
func (ct *ContentTable) AddReply(reply *treehollow.Reply, cites map[treehollow.ID]*treehollow.Reply) error {
	th := ct.r.theme

	var body string
	if reply.ReplyCID != nil {
		cited, ok := cites[*reply.ReplyCID]
		if !ok || cited == nil {
			return &services.MissingCitationError{CID: int64(reply.CID), Target: int64(*reply.ReplyCID)}
		}
		body = ct.citation(cited) + "\n\n"
	}
	body += textutil.Wrap(reply.Content, ct.right)

	var left []string
	if label := ct.labels(reply.TagText(), reply.SchoolText()); label != "" {
		left = append(left, label)
	}
	who := th.paint(reply.Name, colorName) + th.paint("@", colorMuted) + th.paint(reply.CID.String(), colorMuted)
	left = append(left, strings.TrimSpace(th.paint(textutil.Ternary(reply.Image != nil, "i", ""), colorImage)+" "+who))
	left = append(left, th.paint(relativeTime(reply.CreatedAt.Time, ct.r.now()), colorMuted))

	ct.rows = append(ct.rows, table.Row{ct.wrapLeft(left), body})
	return nil
}

// CitationLine returns the one-line excerpt shown above a citing reply,
// truncated to width cells.
func CitationLine(cited *treehollow.Reply, width int) string {
	return textutil.Truncate("> "+cited.Name+": "+textutil.SingleLine(cited.Content), width)
}

func (ct *ContentTable) citation(cited *treehollow.Reply) string {
	line := CitationLine(cited, ct.right)
	if !ct.r.theme.enabled {
		return line
	}
	// Colour the marker and name only when they survived truncation.
	prefix := "> " + cited.Name + ":"
	if !strings.HasPrefix(line, prefix) {
		return line
	}
	th := ct.r.theme
	return th.paint(">", colorReply) + " " + th.paint(cited.Name, colorName) + ":" + strings.TrimPrefix(line, prefix)
}

func (ct *ContentTable) labels(tag, school string) string {
	th := ct.r.theme
	return th.paint(tag, colorTag) + th.paint(school, colorSchool)
}

func (ct *ContentTable) wrapLeft(lines []string) string {
	if ct.r.theme.enabled {
		// Coloured cells are short by construction; wrapping would split
		// escape sequences.
		return strings.Join(lines, "\n")
	}
	return textutil.Wrap(strings.Join(lines, "\n"), ct.left)
}

// String renders the table.
func (ct *ContentTable) String() string {
	if len(ct.rows) == 0 {
		return ""
	}
	tw := table.NewWriter()
	style := table.StyleLight
	style.Options = table.Options{
		DrawBorder:      false,
		SeparateColumns: true,
		SeparateRows:    true,
	}
	tw.SetStyle(style)
	for _, row := range ct.rows {
		tw.AppendRow(row)
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, VAlign: text.VAlignTop, WidthMin: ct.left},
		{Number: 2, Align: text.AlignLeft, VAlign: text.VAlignTop, WidthMin: ct.right},
	})
	return tw.Render()
}

// Render writes the table to the renderer's sink.
func (ct *ContentTable) Render() error {
	return ct.r.write(ct.String())
}
