package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// ImagePrefix is the path under which FakeAPI serves images.
const ImagePrefix = "/img"

// Request is one request observed by FakeAPI.
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Token  string
	Model  string
	Body   map[string]any
}

type reply struct {
	status int
	body   []byte
}

// FakeAPI is an httptest server that records requests and answers with
// canned replies keyed by "METHOD /path". Unregistered routes answer 200
// with an empty JSON object.
type FakeAPI struct {
	t      testing.TB
	server *httptest.Server

	mu       sync.Mutex
	requests []Request
	replies  map[string]reply
}

// NewFakeAPI starts a FakeAPI and registers its shutdown with t.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{t: t, replies: map[string]reply{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the server root.
func (f *FakeAPI) URL() string { return f.server.URL }

// Client returns an HTTP client for the server.
func (f *FakeAPI) Client() *http.Client { return f.server.Client() }

// Handle registers a JSON reply. A string body is sent verbatim.
func (f *FakeAPI) Handle(method, path string, status int, body any) {
	f.t.Helper()

	var raw []byte
	switch v := body.(type) {
	case nil:
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		var err error
		if raw, err = json.Marshal(v); err != nil {
			f.t.Fatalf("marshal fake reply: %v", err)
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[method+" "+path] = reply{status: status, body: raw}
}

// Requests returns a copy of the observed requests.
func (f *FakeAPI) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Paths returns "METHOD /path" for every observed request.
func (f *FakeAPI) Paths() []string {
	reqs := f.Requests()
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.Method + " " + r.Path
	}
	return out
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	req := Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  map[string]string{},
		Token:  r.Header.Get("token"),
		Model:  r.Header.Get("modelname"),
	}
	for k := range r.URL.Query() {
		req.Query[k] = r.URL.Query().Get(k)
	}
	if data, err := io.ReadAll(r.Body); err == nil && len(strings.TrimSpace(string(data))) > 0 {
		_ = json.Unmarshal(data, &req.Body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	rep, ok := f.replies[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		if strings.HasPrefix(r.URL.Path, ImagePrefix+"/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		rep = reply{status: http.StatusOK, body: []byte("{}")}
	}
	if len(rep.body) > 0 && (rep.body[0] == '{' || rep.body[0] == '[') {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(rep.status)
	_, _ = w.Write(rep.body)
}
