package command

import "sylva/internal/treehollow"

// Command is a parsed input line. Concrete types are the structs below.
type Command interface {
	// Name returns the canonical command name.
	Name() string
}

// Filter restricts displayed replies or posts to the listed names and schools.
type Filter struct {
	OnlyWho   []string
	OnlyWhich []string
}

// Active reports whether any restriction is set.
func (f Filter) Active() bool {
	return len(f.OnlyWho) > 0 || len(f.OnlyWhich) > 0
}

// Empty is a blank input line.
type Empty struct{}

// Create publishes a hole. HID is empty for the global hollow.
type Create struct {
	Content string
	Tag     string
	HID     string
}

// Reply comments on PID. CID is nil for the form without a citation.
type Reply struct {
	PID     treehollow.ID
	CID     *treehollow.ID
	Content string
	Filter  Filter
}

// Follow subscribes to PID.
type Follow struct {
	PID treehollow.ID
}

// Unfollow drops the subscription to PID.
type Unfollow struct {
	PID treehollow.ID
}

// Hole shows PID with its replies, narrowed by Filter.
type Hole struct {
	PID    treehollow.ID
	Filter Filter
}

// List pages through holes. OnlyWhich keeps holes from those schools.
type List struct {
	Options   treehollow.ListOptions
	OnlyWhich []string
}

// Vote casts Option in the poll attached to PID.
type Vote struct {
	PID    treehollow.ID
	Option string
}

// Devices lists the sessions logged into the account.
type Devices struct{}

// Kick terminates the device session UUID.
type Kick struct {
	UUID string
}

// Image downloads every image on PID and its replies.
type Image struct {
	PID treehollow.ID
}

// Report flags PID with a reason.
type Report struct {
	PID    treehollow.ID
	Reason string
}

// Notifications lists unread notifications.
type Notifications struct{}

// Messages lists system messages.
type Messages struct{}

// Read marks notifications as read.
type Read struct{}

// Hollows lists the hollows the account can post to.
type Hollows struct{}

// History lists recent input lines. Limit is always positive.
type History struct {
	Limit int
}

// Debug toggles diagnostics. Set is nil for a toggle.
type Debug struct {
	Set *bool
}

// Help prints the grammar, or one command's usage when Topic is set.
type Help struct {
	Topic string
}

func (Empty) Name() string         { return "" }
func (Create) Name() string        { return "create" }
func (Reply) Name() string         { return "reply" }
func (Follow) Name() string        { return "follow" }
func (Unfollow) Name() string      { return "unfollow" }
func (Hole) Name() string          { return "hole" }
func (List) Name() string          { return "list" }
func (Vote) Name() string          { return "vote" }
func (Devices) Name() string       { return "devices" }
func (Kick) Name() string          { return "kick" }
func (Image) Name() string         { return "image" }
func (Report) Name() string        { return "report" }
func (Notifications) Name() string { return "notifications" }
func (Messages) Name() string      { return "messages" }
func (Read) Name() string          { return "read" }
func (Hollows) Name() string       { return "hollows" }
func (History) Name() string       { return "history" }
func (Debug) Name() string         { return "debug" }
func (Help) Name() string          { return "help" }
