package dispatch

import (
	"sylva/internal/command"
	"sylva/internal/textutil"
	"sylva/internal/treehollow"
)

// CitationIndex maps every reply by cid. It must be built from the full reply
// list so that filtered-out replies can still be cited.
func CitationIndex(replies []treehollow.Reply) map[treehollow.ID]*treehollow.Reply {
	index := make(map[treehollow.ID]*treehollow.Reply, len(replies))
	for i := range replies {
		index[replies[i].CID] = &replies[i]
	}
	return index
}

// FilterReplies keeps replies whose name is in OnlyWho and whose school is in
// OnlyWhich. Replies missing a filtered attribute are dropped.
func FilterReplies(replies []treehollow.Reply, f command.Filter) []treehollow.Reply {
	if !f.Active() {
		return replies
	}
	who := textutil.NormalizeSet(f.OnlyWho)
	which := textutil.NormalizeSet(f.OnlyWhich)
	kept := make([]treehollow.Reply, 0, len(replies))
	for _, r := range replies {
		if len(who) > 0 && !contains(who, &r.Name) {
			continue
		}
		if len(which) > 0 && !contains(which, r.SchoolName) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// FilterHoles keeps holes whose school is in onlyWhich. missing counts the
// holes dropped because they carry no school name at all.
func FilterHoles(holes []treehollow.Hole, onlyWhich []string) (kept []treehollow.Hole, missing int) {
	which := textutil.NormalizeSet(onlyWhich)
	if len(which) == 0 {
		return holes, 0
	}
	kept = make([]treehollow.Hole, 0, len(holes))
	for _, h := range holes {
		if h.SchoolName == nil || textutil.Normalize(*h.SchoolName) == "" {
			missing++
			continue
		}
		if contains(which, h.SchoolName) {
			kept = append(kept, h)
		}
	}
	return kept, missing
}

func contains(set map[string]struct{}, value *string) bool {
	if value == nil {
		return false
	}
	n := textutil.Normalize(*value)
	if n == "" {
		return false
	}
	_, ok := set[n]
	return ok
}
