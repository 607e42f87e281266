package dispatch

import (
	"context"

	"sylva/internal/history"
	"sylva/internal/treehollow"
)

// API is the subset of *treehollow.Client the dispatcher calls.
type API interface {
	CreateHole(ctx context.Context, content, hid, tag string) (*treehollow.Response, error)
	CreateReply(ctx context.Context, pid treehollow.ID, content string, replyCID *treehollow.ID) (*treehollow.Response, error)
	FollowHole(ctx context.Context, pid treehollow.ID) (*treehollow.Response, error)
	UnfollowHole(ctx context.Context, pid treehollow.ID) (*treehollow.Response, error)
	GetHole(ctx context.Context, pid treehollow.ID) (*treehollow.Response, error)
	ListHoles(ctx context.Context, opts treehollow.ListOptions) (*treehollow.Response, error)
	SendVote(ctx context.Context, pid treehollow.ID, option string) (*treehollow.Response, error)
	ReportHole(ctx context.Context, pid treehollow.ID, reason string) (*treehollow.Response, error)
	ListHollows(ctx context.Context) (*treehollow.Response, error)
	Notifications(ctx context.Context) (*treehollow.Response, error)
	SystemMessages(ctx context.Context) (*treehollow.Response, error)
	ReadNotifications(ctx context.Context) (*treehollow.Response, error)
	Devices(ctx context.Context) (*treehollow.Response, error)
	KickDevice(ctx context.Context, uuid string) (*treehollow.Response, error)
	DownloadImage(ctx context.Context, src, dir string) (*treehollow.Response, string, error)
}

// HistoryReader lists recorded input lines.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

var _ API = (*treehollow.Client)(nil)

// classifyWrite accepts only the success statuses.
func classifyWrite(resp *treehollow.Response) error {
	if !resp.Success() {
		return resp.Unexpected()
	}
	return nil
}

// classifyRead additionally rejects bodies that carry an error code.
func classifyRead(resp *treehollow.Response) error {
	if !resp.Success() || resp.HasErrorCode() {
		return resp.Unexpected()
	}
	return nil
}
