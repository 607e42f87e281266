package command

import (
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"sylva/internal/services"
	"sylva/internal/treehollow"
)

// Parse maps tokens to a Command. An empty token list yields Empty.
func Parse(tokens []string) (Command, error) {
	if len(tokens) == 0 {
		return Empty{}, nil
	}
	spec, ok := Lookup(tokens[0])
	if !ok {
		return nil, &services.UnknownCommandError{Tokens: slices.Clone(tokens)}
	}
	return spec.parse(spec, tokens[1:])
}

// ParseLine tokenizes and parses line.
func ParseLine(line string) (Command, error) {
	return Parse(Tokenize(line))
}

type pairs map[string][]string

func (p pairs) last(key string) string {
	values := p[key]
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// filter gathers every onlyWho/onlyWhich value, splitting comma lists.
func (p pairs) filter() Filter {
	return Filter{
		OnlyWho:   splitValues(p[keyOnlyWho]),
		OnlyWhich: splitValues(p[keyOnlyWhich]),
	}
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parsePairs(spec Spec, args []string) (pairs, error) {
	if len(args)%2 != 0 {
		return nil, services.Malformed("%s: key/value arguments must come in pairs (usage: %s)", spec.Name, spec.Usage)
	}
	out := make(pairs, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key := args[i]
		if !slices.Contains(spec.Keys, key) {
			if len(spec.Keys) == 0 {
				return nil, services.Malformed("%s takes no options", spec.Name)
			}
			return nil, services.Malformed("%s: unknown option %q (accepted: %s)", spec.Name, key, strings.Join(spec.Keys, ", "))
		}
		out[key] = append(out[key], args[i+1])
	}
	return out, nil
}

func parseID(label, raw string) (treehollow.ID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v < 0 {
		return 0, services.Malformed("%s must be a non-negative integer, got %q", label, raw)
	}
	return treehollow.ID(v), nil
}

func parsePositive(label, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return 0, services.Malformed("%s must be a positive integer, got %q", label, raw)
	}
	return v, nil
}

func validListType(v string) bool {
	return slices.Contains(treehollow.ListTypes(), v)
}

// resolveHID expands the global/school shortcuts. Empty stays empty so the
// client applies its default.
func resolveHID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "":
		return "", nil
	case "global":
		return treehollow.GlobalHollow, nil
	case "school":
		return treehollow.SchoolHollow, nil
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", services.Malformed("hid must be global, school or a hollow uuid, got %q", raw)
	}
	return raw, nil
}
