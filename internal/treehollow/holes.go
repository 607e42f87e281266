package treehollow

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// CreateHole publishes a new post. Empty hid selects the global hollow.
func (c *Client) CreateHole(ctx context.Context, content, hid, tag string) (*Response, error) {
	if strings.TrimSpace(hid) == "" {
		hid = GlobalHollow
	}
	return c.do(ctx, request{
		operation: "create_hole",
		method:    http.MethodPost,
		url:       c.endpoint("/holes"),
		body:      map[string]string{"content": content, "hid": hid, "tag": tag},
		gated:     true,
	})
}

type replyPayload struct {
	PID      ID     `json:"pid"`
	Content  string `json:"content"`
	ReplyCID *ID    `json:"reply_cid,omitempty"`
}

// CreateReply comments on pid, optionally citing replyCID.
func (c *Client) CreateReply(ctx context.Context, pid ID, content string, replyCID *ID) (*Response, error) {
	return c.do(ctx, request{
		operation: "create_reply",
		method:    http.MethodPost,
		url:       c.endpoint("/holes/replies"),
		body:      replyPayload{PID: pid, Content: content, ReplyCID: replyCID},
		gated:     true,
	})
}

// FollowHole adds pid to the caller's follow list.
func (c *Client) FollowHole(ctx context.Context, pid ID) (*Response, error) {
	return c.do(ctx, request{
		operation: "follow_hole",
		method:    http.MethodPut,
		url:       c.endpoint("/holes/follow"),
		query:     pidQuery(pid),
		gated:     true,
	})
}

// UnfollowHole removes pid from the caller's follow list.
func (c *Client) UnfollowHole(ctx context.Context, pid ID) (*Response, error) {
	return c.do(ctx, request{
		operation: "unfollow_hole",
		method:    http.MethodDelete,
		url:       c.endpoint("/holes/follow"),
		query:     pidQuery(pid),
		gated:     true,
	})
}

// GetHole fetches one post with its replies.
func (c *Client) GetHole(ctx context.Context, pid ID) (*Response, error) {
	return c.do(ctx, request{
		operation: "get_hole",
		method:    http.MethodGet,
		url:       c.endpoint("/holes/detail"),
		query:     pidQuery(pid),
		gated:     true,
	})
}

// ListOptions are the query parameters of ListHoles. Zero values select the
// server defaults.
type ListOptions struct {
	Type    string
	PerPage int
	After   string
	Search  string
	HID     string
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	listType := o.Type
	if listType == "" {
		listType = ListTimeline
	}
	perPage := o.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	hid := o.HID
	if hid == "" {
		hid = GlobalHollow
	}
	q.Set("type", listType)
	q.Set("per_page", strconv.Itoa(perPage))
	if o.After != "" {
		q.Set("after", o.After)
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	q.Set("hid", hid)
	return q
}

// ListHoles fetches a page of posts.
func (c *Client) ListHoles(ctx context.Context, opts ListOptions) (*Response, error) {
	return c.do(ctx, request{
		operation: "list_holes",
		method:    http.MethodGet,
		url:       c.endpoint("/holes"),
		query:     opts.values(),
		gated:     true,
	})
}

type reportPayload struct {
	PID    ID     `json:"pid"`
	Reason string `json:"reason"`
	Action string `json:"action"`
}

// ReportHole flags pid for moderation.
func (c *Client) ReportHole(ctx context.Context, pid ID, reason string) (*Response, error) {
	return c.do(ctx, request{
		operation: "report_hole",
		method:    http.MethodPost,
		url:       c.endpoint("/holes/reports"),
		body:      reportPayload{PID: pid, Reason: reason, Action: "report"},
		gated:     true,
	})
}

type votePayload struct {
	PID    ID     `json:"pid"`
	Option string `json:"option"`
}

// SendVote casts option on the poll embedded in pid.
func (c *Client) SendVote(ctx context.Context, pid ID, option string) (*Response, error) {
	return c.do(ctx, request{
		operation: "send_vote",
		method:    http.MethodPost,
		url:       c.endpoint("/holes/votes"),
		body:      votePayload{PID: pid, Option: option},
		gated:     true,
	})
}

// ListHollows fetches every hollow the server hosts.
func (c *Client) ListHollows(ctx context.Context) (*Response, error) {
	return c.do(ctx, request{
		operation: "list_hollows",
		method:    http.MethodGet,
		url:       c.endpoint("/hollows"),
		gated:     true,
	})
}
