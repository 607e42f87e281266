package dispatch

import (
	"testing"

	"sylva/internal/command"
	"sylva/internal/treehollow"
)

func strptr(s string) *string { return &s }

func TestFilterRepliesIsStrictSubset(t *testing.T) {
	replies := []treehollow.Reply{
		{CID: 1, Name: "Alice", SchoolName: strptr("North")},
		{CID: 2, Name: "Bob", SchoolName: strptr("South")},
		{CID: 3, Name: "Alice", SchoolName: strptr("South")},
		{CID: 4, Name: "Cafe\u0301"},
		{CID: 5, Name: "Dan", SchoolName: strptr("  North ")},
	}
	cases := []struct {
		name   string
		filter command.Filter
		want   []treehollow.ID
	}{
		{"none", command.Filter{}, []treehollow.ID{1, 2, 3, 4, 5}},
		{"who", command.Filter{OnlyWho: []string{"Alice"}}, []treehollow.ID{1, 3}},
		{"which trims", command.Filter{OnlyWhich: []string{"North"}}, []treehollow.ID{1, 5}},
		{"both", command.Filter{OnlyWho: []string{"Alice"}, OnlyWhich: []string{"South"}}, []treehollow.ID{3}},
		{"nfc", command.Filter{OnlyWho: []string{"Caf\u00e9"}}, []treehollow.ID{4}},
		{"missing school excluded", command.Filter{OnlyWho: []string{"Caf\u00e9"}, OnlyWhich: []string{"North"}}, nil},
		{"no match", command.Filter{OnlyWho: []string{"Zed"}}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterReplies(replies, tc.filter)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d replies, want %v", len(got), tc.want)
			}
			for i, r := range got {
				if r.CID != tc.want[i] {
					t.Fatalf("reply %d cid = %d, want %d", i, r.CID, tc.want[i])
				}
			}
		})
	}
}

func TestFilterHolesCountsMissingSchools(t *testing.T) {
	holes := []treehollow.Hole{
		{PID: 1, SchoolName: strptr("North")},
		{PID: 2},
		{PID: 3, SchoolName: strptr("South")},
		{PID: 4, SchoolName: strptr("")},
	}
	kept, missing := FilterHoles(holes, []string{"North"})
	if len(kept) != 1 || kept[0].PID != 1 {
		t.Fatalf("unexpected kept %#v", kept)
	}
	if missing != 2 {
		t.Fatalf("missing = %d, want 2", missing)
	}

	all, missing := FilterHoles(holes, nil)
	if len(all) != len(holes) || missing != 0 {
		t.Fatalf("empty filter should keep everything, got %d (%d missing)", len(all), missing)
	}
}

func TestCitationIndexCoversFullList(t *testing.T) {
	replies := []treehollow.Reply{{CID: 1, Name: "Alice"}, {CID: 2, Name: "Bob"}}
	index := CitationIndex(replies)
	if index[1] == nil || index[1].Name != "Alice" || index[2].Name != "Bob" {
		t.Fatalf("unexpected index %#v", index)
	}
	if _, ok := index[3]; ok {
		t.Fatal("unexpected entry for cid 3")
	}
}
