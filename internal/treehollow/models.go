package treehollow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// GlobalHollow is the hollow id used when none is given.
	GlobalHollow = "00000001-0001-0001-0001-000000000001"
	// SchoolHollow is the hollow id of the caller's own school.
	SchoolHollow = "00000000-0000-0000-0000-000000000001"
)

// List types accepted by ListHoles.
const (
	ListTimeline  = "timeline"
	ListTrending  = "trending"
	ListReplied   = "replied"
	ListFollowing = "following"
)

// DefaultPerPage is the page size used when a list request does not set one.
const DefaultPerPage = 20

// ListTypes returns the accepted list types in display order.
func ListTypes() []string {
	return []string{ListTimeline, ListTrending, ListReplied, ListFollowing}
}

// ServerZone is the zone the API reports wall-clock timestamps in.
var ServerZone = time.FixedZone("UTC+8", 8*60*60)

// ID is a post or reply identifier. The API emits it either as a number or
// as a numeric string; outgoing payloads always carry the string form.
type ID int64

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
		if len(data) == 0 {
			*id = 0
			return nil
		}
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", data, err)
	}
	*id = ID(v)
	return nil
}

// Timestamp accepts unix seconds, unix milliseconds, numeric strings and
// date-time strings. Strings without an offset are read in ServerZone.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(t.Unix(), 10)), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTimestamp converts a raw API timestamp into a time value.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		if f > 1e12 {
			return time.UnixMilli(int64(f)).In(ServerZone), nil
		}
		sec := int64(f)
		nsec := int64((f - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec).In(ServerZone), nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, ServerZone); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// Image references an uploaded picture relative to the image root.
type Image struct {
	Src string `json:"src"`
}

// Vote is an embedded poll. Results are parallel to Options; a leading -1
// means results are hidden.
type Vote struct {
	Options []string `json:"options"`
	Results []int    `json:"results"`
	Voted   *string  `json:"voted,omitempty"`
}

// ResultsVisible reports whether the server disclosed the tallies.
func (v *Vote) ResultsVisible() bool {
	return v != nil && len(v.Results) > 0 && v.Results[0] != -1
}

// VotedIndex returns the index of the option the caller voted for, or -1.
func (v *Vote) VotedIndex() int {
	if v == nil || v.Voted == nil {
		return -1
	}
	for i, opt := range v.Options {
		if opt == *v.Voted {
			return i
		}
	}
	return -1
}

// Hole is a top-level post.
type Hole struct {
	PID            ID        `json:"pid"`
	Content        string    `json:"content"`
	Tag            *string   `json:"tag,omitempty"`
	SchoolName     *string   `json:"school_name,omitempty"`
	Image          *Image    `json:"image,omitempty"`
	Vote           *Vote     `json:"vote,omitempty"`
	FollowersCount int       `json:"followers_count"`
	RepliesCount   int       `json:"replies_count"`
	Followed       bool      `json:"followed"`
	CreatedAt      Timestamp `json:"created_at"`
	Replies        []Reply   `json:"replies,omitempty"`
}

// Reply is a comment on a hole. ReplyCID, when set, cites another reply of
// the same hole.
type Reply struct {
	CID        ID        `json:"cid"`
	Content    string    `json:"content"`
	Name       string    `json:"name"`
	Tag        *string   `json:"tag,omitempty"`
	SchoolName *string   `json:"school_name,omitempty"`
	Image      *Image    `json:"image,omitempty"`
	ReplyCID   *ID       `json:"reply_cid,omitempty"`
	CreatedAt  Timestamp `json:"created_at"`
}

// Device is one logged-in client session.
type Device struct {
	UUID      string    `json:"uuid"`
	LoginTime Timestamp `json:"login_time"`
	Name      string    `json:"name"`
}

// Notification is an entry of the notification or system message feeds.
type Notification struct {
	ID        ID        `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	PID       ID        `json:"pid"`
	CreatedAt Timestamp `json:"created_at"`
}

// DecodeList decodes a response that is either a bare JSON array or an
// object wrapping the array under one of keys.
func DecodeList[T any](resp *Response, keys ...string) ([]T, error) {
	var items []T
	trimmed := bytes.TrimSpace(resp.Body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := resp.Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var wrapper map[string]json.RawMessage
	if err := resp.Decode(&wrapper); err != nil {
		return nil, err
	}
	for _, key := range keys {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode %s.%s: %w", resp.operation(), key, err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("decode %s response: expected a list", resp.operation())
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TagText returns the tag or "".
func (h *Hole) TagText() string { return optional(h.Tag) }

// SchoolText returns the school name or "".
func (h *Hole) SchoolText() string { return optional(h.SchoolName) }

// TagText returns the tag or "".
func (r *Reply) TagText() string { return optional(r.Tag) }

// SchoolText returns the school name or "".
func (r *Reply) SchoolText() string { return optional(r.SchoolName) }
