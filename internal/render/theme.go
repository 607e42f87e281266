package render

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
)

type theme struct {
	enabled bool
}

var (
	colorTag      = text.Colors{text.FgMagenta}
	colorSchool   = text.Colors{text.FgCyan}
	colorImage    = text.Colors{text.FgYellow}
	colorVote     = text.Colors{text.FgGreen}
	colorFollowed = text.Colors{text.FgHiYellow, text.Bold}
	colorPID      = text.Colors{text.Bold}
	colorStar     = text.Colors{text.FgYellow}
	colorReply    = text.Colors{text.FgBlue}
	colorName     = text.Colors{text.FgGreen}
	colorMuted    = text.Colors{text.FgHiBlack}
	colorVoted    = text.Colors{text.FgHiGreen, text.Bold}
)

func (t theme) paint(s string, colors text.Colors) string {
	if !t.enabled || s == "" {
		return s
	}
	return colors.Sprint(s)
}

// relativeTime renders ts relative to now, e.g. "3 hours ago".
func relativeTime(ts, now time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return humanize.RelTime(ts, now, "ago", "from now")
}
