package treehollow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sylva/internal/services"
)

// SendCode asks the server to text a verification code to phone.
func (c *Client) SendCode(ctx context.Context, phone string) (*Response, error) {
	return c.do(ctx, request{
		operation: "send_code",
		method:    http.MethodPost,
		url:       c.endpoint("/auth/sendcode"),
		body:      map[string]string{"method": "phone", "username": phone},
	})
}

// Register exchanges a verification code for a token.
func (c *Client) Register(ctx context.Context, phone, code string) (*Response, error) {
	return c.do(ctx, request{
		operation: "register",
		method:    http.MethodPost,
		url:       c.endpoint("/auth/register"),
		body:      map[string]string{"method": "phone", "username": phone, "valid_code": code},
	})
}

// SetToken installs the credential and marks the Sylva scope logged in.
func (c *Client) SetToken(token string) string {
	c.session.login(ScopeSylva, token)
	return token
}

// Logout revokes the current device and clears the session.
func (c *Client) Logout(ctx context.Context) (*Response, error) {
	resp, err := c.do(ctx, request{
		operation: "logout",
		method:    http.MethodDelete,
		url:       c.endpoint("/user/devices"),
		gated:     true,
	})
	if err != nil {
		return nil, err
	}
	if resp.Success() {
		c.session.logout(ScopeSylva)
	}
	return resp, nil
}

// Prompter collects interactive answers during login.
type Prompter interface {
	Prompt(ctx context.Context, label string) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, label string) (string, error)

func (f PrompterFunc) Prompt(ctx context.Context, label string) (string, error) {
	return f(ctx, label)
}

// Login runs the phone + verification code handshake and installs the token.
func Login(ctx context.Context, c *Client, prompter Prompter) (string, error) {
	phone, err := prompter.Prompt(ctx, "Phone number: ")
	if err != nil {
		return "", fmt.Errorf("read phone number: %w", err)
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", errors.New("login: phone number is required")
	}

	resp, err := c.SendCode(ctx, phone)
	if err != nil {
		return "", err
	}
	if !resp.Success() {
		return "", resp.Unexpected()
	}
	c.logger.Info("verification code sent")

	code, err := prompter.Prompt(ctx, "Verification code: ")
	if err != nil {
		return "", fmt.Errorf("read verification code: %w", err)
	}

	resp, err = c.Register(ctx, phone, strings.TrimSpace(code))
	if err != nil {
		return "", err
	}
	if !resp.Success() {
		return "", resp.Unexpected()
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := resp.Decode(&payload); err != nil {
		return "", services.Wrap(services.ErrUnexpectedResponse, "treehollow", "register", "read token", err)
	}
	token := strings.TrimSpace(payload.Token)
	if token == "" {
		return "", resp.Unexpected()
	}
	return c.SetToken(token), nil
}
