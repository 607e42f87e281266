package treehollow

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Notifications(ctx context.Context) (*Response, error) {
	return c.do(ctx, request{
		operation: "notifications",
		method:    http.MethodGet,
		url:       c.endpoint("/user/notifications"),
		gated:     true,
	})
}

func (c *Client) SystemMessages(ctx context.Context) (*Response, error) {
	return c.do(ctx, request{
		operation: "system_messages",
		method:    http.MethodGet,
		url:       c.endpoint("/user/system-messages"),
		gated:     true,
	})
}

// ReadNotifications marks the caller's notifications as read.
func (c *Client) ReadNotifications(ctx context.Context) (*Response, error) {
	return c.do(ctx, request{
		operation: "read_notifications",
		method:    http.MethodPost,
		url:       c.endpoint("/user/notifications/read"),
		body:      map[string]string{"type": "my"},
		gated:     true,
	})
}

func (c *Client) Devices(ctx context.Context) (*Response, error) {
	return c.do(ctx, request{
		operation: "devices",
		method:    http.MethodGet,
		url:       c.endpoint("/user/devices"),
		gated:     true,
	})
}

// KickDevice logs out the device identified by uuid.
func (c *Client) KickDevice(ctx context.Context, uuid string) (*Response, error) {
	return c.do(ctx, request{
		operation: "kick_device",
		method:    http.MethodDelete,
		url:       c.endpoint("/user/devices"),
		query:     url.Values{"uuid": []string{uuid}},
		gated:     true,
	})
}
