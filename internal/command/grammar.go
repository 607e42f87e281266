package command

import (
	"strings"

	"github.com/google/uuid"

	"sylva/internal/services"
	"sylva/internal/treehollow"
)

// Spec describes one command of the grammar.
type Spec struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string
	// Keys lists the accepted trailing key/value names.
	Keys  []string
	parse func(spec Spec, args []string) (Command, error)
}

const (
	keyTag       = "tag"
	keyHID       = "hid"
	keyOnlyWho   = "onlyWho"
	keyOnlyWhich = "onlyWhich"
	keyType      = "type"
	keyPerPage   = "perPage"
	keyAfter     = "after"
	keySearch    = "search"
)

var grammar = []Spec{
	{
		Name: "create", Aliases: []string{"c"},
		Usage:   `create <content> [tag <tag>] [hid <hid|global|school>]`,
		Summary: "publish a new hole",
		Keys:    []string{keyTag, keyHID},
		parse:   parseCreate,
	},
	{
		Name: "reply", Aliases: []string{"r"},
		Usage:   `reply <pid> <content> | reply <pid> <cid> <content> [onlyWho <name>] [onlyWhich <school>]`,
		Summary: "reply to a hole, optionally citing a reply",
		Keys:    []string{keyOnlyWho, keyOnlyWhich},
		parse:   parseReply,
	},
	{
		Name: "follow", Aliases: []string{"f"},
		Usage:   "follow <pid>",
		Summary: "follow a hole",
		parse: func(spec Spec, args []string) (Command, error) {
			pid, err := exactPID(spec, args)
			return Follow{PID: pid}, err
		},
	},
	{
		Name: "unfollow", Aliases: []string{"uf"},
		Usage:   "unfollow <pid>",
		Summary: "stop following a hole",
		parse: func(spec Spec, args []string) (Command, error) {
			pid, err := exactPID(spec, args)
			return Unfollow{PID: pid}, err
		},
	},
	{
		Name: "hole", Aliases: []string{"h"},
		Usage:   "hole <pid> [onlyWho <name>] [onlyWhich <school>]",
		Summary: "show a hole and its replies",
		Keys:    []string{keyOnlyWho, keyOnlyWhich},
		parse:   parseHole,
	},
	{
		Name: "list", Aliases: []string{"l"},
		Usage:   "list [perPage] | list [type <type>] [perPage <n>] [after <pid>] [search <text>] [hid <hid>] [onlyWhich <school>]",
		Summary: "list holes (types: " + strings.Join(treehollow.ListTypes(), ", ") + ")",
		Keys:    []string{keyType, keyPerPage, keyAfter, keySearch, keyHID, keyOnlyWhich},
		parse:   parseList,
	},
	{
		Name: "vote", Aliases: []string{"v"},
		Usage:   "vote <pid> <option>",
		Summary: "vote in a hole's poll",
		parse:   parseVote,
	},
	{
		Name: "devices", Aliases: []string{"d"},
		Usage:   "devices",
		Summary: "list logged-in devices",
		parse:   noArgs(Devices{}),
	},
	{
		Name: "kick", Aliases: []string{"kd"},
		Usage:   "kick <uuid>",
		Summary: "log out a device",
		parse:   parseKick,
	},
	{
		Name: "image", Aliases: []string{"i"},
		Usage:   "image <pid>",
		Summary: "download a hole's images",
		parse: func(spec Spec, args []string) (Command, error) {
			pid, err := exactPID(spec, args)
			return Image{PID: pid}, err
		},
	},
	{
		Name: "report", Aliases: []string{"rp"},
		Usage:   "report <pid> <reason>",
		Summary: "report a hole",
		parse:   parseReport,
	},
	{
		Name: "notifications", Aliases: []string{"n"},
		Usage:   "notifications",
		Summary: "show notifications",
		parse:   noArgs(Notifications{}),
	},
	{
		Name: "messages", Aliases: []string{"m"},
		Usage:   "messages",
		Summary: "show system messages",
		parse:   noArgs(Messages{}),
	},
	{
		Name: "read", Aliases: []string{"rd"},
		Usage:   "read",
		Summary: "mark notifications as read",
		parse:   noArgs(Read{}),
	},
	{
		Name: "hollows", Aliases: []string{"hl"},
		Usage:   "hollows",
		Summary: "list hollows",
		parse:   noArgs(Hollows{}),
	},
	{
		Name: "history", Aliases: []string{"hist"},
		Usage:   "history [limit]",
		Summary: "show recent input lines",
		parse:   parseHistory,
	},
	{
		Name:    "debug",
		Usage:   "debug [on|off]",
		Summary: "toggle diagnostic output",
		parse:   parseDebug,
	},
	{
		Name: "help", Aliases: []string{"?"},
		Usage:   "help [command]",
		Summary: "show this table",
	},
}

var index map[string]int

func init() {
	// help resolves its topic through Lookup, which reads grammar.
	grammar[len(grammar)-1].parse = parseHelp
	index = make(map[string]int)
	for i, spec := range grammar {
		index[spec.Name] = i
		for _, alias := range spec.Aliases {
			index[alias] = i
		}
	}
}

// Grammar returns the command table in display order.
func Grammar() []Spec {
	out := make([]Spec, len(grammar))
	copy(out, grammar)
	return out
}

// Lookup finds a command by name or alias.
func Lookup(name string) (Spec, bool) {
	i, ok := index[name]
	if !ok {
		return Spec{}, false
	}
	return grammar[i], true
}

func (s Spec) usageError() error {
	return services.Malformed("usage: %s", s.Usage)
}

func noArgs(cmd Command) func(Spec, []string) (Command, error) {
	return func(spec Spec, args []string) (Command, error) {
		if len(args) != 0 {
			return nil, spec.usageError()
		}
		return cmd, nil
	}
}

func exactPID(spec Spec, args []string) (treehollow.ID, error) {
	if len(args) != 1 {
		return 0, spec.usageError()
	}
	return parseID("pid", args[0])
}

func parseCreate(spec Spec, args []string) (Command, error) {
	if len(args) < 1 {
		return nil, spec.usageError()
	}
	pairs, err := parsePairs(spec, args[1:])
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(args[0]) == "" {
		return nil, services.Malformed("hole content must not be empty")
	}
	hid, err := resolveHID(pairs.last(keyHID))
	if err != nil {
		return nil, err
	}
	return Create{Content: args[0], Tag: pairs.last(keyTag), HID: hid}, nil
}

func parseReply(spec Spec, args []string) (Command, error) {
	switch {
	case len(args) < 2:
		return nil, spec.usageError()
	case len(args) == 2:
		pid, err := parseID("pid", args[0])
		if err != nil {
			return nil, err
		}
		return Reply{PID: pid, Content: args[1]}, nil
	}
	pid, err := parseID("pid", args[0])
	if err != nil {
		return nil, err
	}
	cid, err := parseID("cid", args[1])
	if err != nil {
		return nil, err
	}
	pairs, err := parsePairs(spec, args[3:])
	if err != nil {
		return nil, err
	}
	return Reply{PID: pid, CID: &cid, Content: args[2], Filter: pairs.filter()}, nil
}

func parseHole(spec Spec, args []string) (Command, error) {
	if len(args) < 1 {
		return nil, spec.usageError()
	}
	pid, err := parseID("pid", args[0])
	if err != nil {
		return nil, err
	}
	pairs, err := parsePairs(spec, args[1:])
	if err != nil {
		return nil, err
	}
	return Hole{PID: pid, Filter: pairs.filter()}, nil
}

func parseList(spec Spec, args []string) (Command, error) {
	if len(args) == 1 {
		n, err := parsePositive(keyPerPage, args[0])
		if err != nil {
			return nil, err
		}
		return List{Options: treehollow.ListOptions{PerPage: n}}, nil
	}
	pairs, err := parsePairs(spec, args)
	if err != nil {
		return nil, err
	}
	cmd := List{
		Options: treehollow.ListOptions{
			After:  pairs.last(keyAfter),
			Search: pairs.last(keySearch),
		},
		OnlyWhich: pairs.filter().OnlyWhich,
	}
	if v := pairs.last(keyType); v != "" {
		if !validListType(v) {
			return nil, services.Malformed("type must be one of %s, got %q", strings.Join(treehollow.ListTypes(), ", "), v)
		}
		cmd.Options.Type = v
	}
	if v, ok := pairs[keyPerPage]; ok {
		n, err := parsePositive(keyPerPage, v[len(v)-1])
		if err != nil {
			return nil, err
		}
		cmd.Options.PerPage = n
	}
	if cmd.Options.HID, err = resolveHID(pairs.last(keyHID)); err != nil {
		return nil, err
	}
	return cmd, nil
}

func parseVote(spec Spec, args []string) (Command, error) {
	if len(args) != 2 {
		return nil, spec.usageError()
	}
	pid, err := parseID("pid", args[0])
	if err != nil {
		return nil, err
	}
	return Vote{PID: pid, Option: args[1]}, nil
}

func parseKick(spec Spec, args []string) (Command, error) {
	if len(args) != 1 {
		return nil, spec.usageError()
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return nil, services.Malformed("device %q is not a uuid", args[0])
	}
	return Kick{UUID: id.String()}, nil
}

func parseReport(spec Spec, args []string) (Command, error) {
	if len(args) != 2 {
		return nil, spec.usageError()
	}
	pid, err := parseID("pid", args[0])
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(args[1]) == "" {
		return nil, services.Malformed("report reason must not be empty")
	}
	return Report{PID: pid, Reason: args[1]}, nil
}

// DefaultHistoryLimit is the number of entries history shows without an argument.
const DefaultHistoryLimit = 20

func parseHistory(spec Spec, args []string) (Command, error) {
	switch len(args) {
	case 0:
		return History{Limit: DefaultHistoryLimit}, nil
	case 1:
		n, err := parsePositive("limit", args[0])
		if err != nil {
			return nil, err
		}
		return History{Limit: n}, nil
	default:
		return nil, spec.usageError()
	}
}

func parseDebug(spec Spec, args []string) (Command, error) {
	switch len(args) {
	case 0:
		return Debug{}, nil
	case 1:
		var on bool
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			on = true
		case "off", "false", "0":
			on = false
		default:
			return nil, spec.usageError()
		}
		return Debug{Set: &on}, nil
	default:
		return nil, spec.usageError()
	}
}

func parseHelp(spec Spec, args []string) (Command, error) {
	switch len(args) {
	case 0:
		return Help{}, nil
	case 1:
		topic, ok := Lookup(args[0])
		if !ok {
			return nil, services.Malformed("no help for unknown command %q", args[0])
		}
		return Help{Topic: topic.Name}, nil
	default:
		return nil, spec.usageError()
	}
}
