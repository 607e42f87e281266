package treehollow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sylva/internal/config"
	"sylva/internal/logging"
	"sylva/internal/services"
)

// HTTPDoer describes the HTTP client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	APIRoot   string
	ImageRoot string
	ModelName string
	HTTP      HTTPDoer
	// Timeout bounds each request when HTTP is nil.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client issues requests against the tree hollow API.
type Client struct {
	apiRoot   string
	imageRoot string
	modelName string
	http      HTTPDoer
	logger    *slog.Logger
	session   *Session
}

// DefaultModelName is sent in the modelname header when none is configured.
const DefaultModelName = "Sylva CLI"

// maxResponseBytes caps every response body; larger bodies fail as transport errors.
var maxResponseBytes int64 = 32 << 20

// New constructs a client with an empty session.
func New(opts Options) *Client {
	doer := opts.HTTP
	if doer == nil {
		doer = newHTTPClient(opts.Timeout)
	}
	modelName := strings.TrimSpace(opts.ModelName)
	if modelName == "" {
		modelName = DefaultModelName
	}
	return &Client{
		apiRoot:   strings.TrimRight(strings.TrimSpace(opts.APIRoot), "/"),
		imageRoot: strings.TrimRight(strings.TrimSpace(opts.ImageRoot), "/"),
		modelName: modelName,
		http:      doer,
		logger:    logging.NewComponentLogger(opts.Logger, "treehollow"),
		session:   NewSession(),
	}
}

// NewFromConfig builds a client from the [api] section.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Client {
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	return New(Options{
		APIRoot:   cfg.API.Root,
		ImageRoot: cfg.API.ImageRoot,
		ModelName: cfg.API.ModelName,
		Timeout:   cfg.Timeout(),
		Logger:    logger,
	})
}

// newHTTPClient never consults proxy environment variables.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	return &http.Client{Transport: transport, Timeout: timeout}
}

// Session exposes the login state.
func (c *Client) Session() *Session { return c.session }

func (c *Client) require(scope string) error {
	if c.session.IsAuthenticated(scope) {
		return nil
	}
	return &services.AuthRequiredError{Scope: scope}
}

type request struct {
	operation string
	method    string
	url       string
	query     url.Values
	body      any
	gated     bool
}

func (c *Client) endpoint(path string) string {
	return c.apiRoot + path
}

func (c *Client) do(ctx context.Context, r request) (*Response, error) {
	if r.gated {
		if err := c.require(ScopeSylva); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request: %w", r.operation, err)
		}
		reader = bytes.NewReader(data)
	}

	target := r.url
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", r.operation, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("modelname", c.modelName)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.gated {
		req.Header.Set("token", c.session.Token())
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "treehollow", r.operation, r.method+" "+r.url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "treehollow", r.operation, "read response body", err)
	}
	if int64(len(body)) > maxResponseBytes {
		return nil, services.Wrap(services.ErrTransport, "treehollow", r.operation,
			fmt.Sprintf("response body exceeds %d bytes", maxResponseBytes), nil)
	}

	logging.WithContext(ctx, c.logger).Debug("api call",
		logging.String("operation", r.operation),
		logging.String("method", r.method),
		logging.String("url", r.url),
		logging.Int(logging.FieldStatus, resp.StatusCode),
		logging.Int("bytes", len(body)),
		logging.Duration("elapsed", time.Since(started)),
	)

	return &Response{
		Operation:  r.operation,
		Method:     r.method,
		URL:        r.url,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func pidQuery(pid ID) url.Values {
	return url.Values{"pid": []string{pid.String()}}
}
