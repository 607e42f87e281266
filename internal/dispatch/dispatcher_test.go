package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sylva/internal/command"
	"sylva/internal/history"
	"sylva/internal/logging"
	"sylva/internal/render"
	"sylva/internal/services"
	"sylva/internal/treehollow"
)

type call struct {
	op   string
	args []any
}

type fakeAPI struct {
	calls     []call
	responses map[string]*treehollow.Response
	errs      map[string]error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{responses: map[string]*treehollow.Response{}, errs: map[string]error{}}
}

func (f *fakeAPI) respond(op string, status int, body any) {
	var raw []byte
	switch v := body.(type) {
	case nil:
	case string:
		raw = []byte(v)
	default:
		raw, _ = json.Marshal(v)
	}
	f.responses[op] = &treehollow.Response{Operation: op, StatusCode: status, Body: raw}
}

func (f *fakeAPI) record(op string, args ...any) (*treehollow.Response, error) {
	f.calls = append(f.calls, call{op: op, args: args})
	if err := f.errs[op]; err != nil {
		return nil, err
	}
	if resp, ok := f.responses[op]; ok {
		return resp, nil
	}
	return &treehollow.Response{Operation: op, StatusCode: http.StatusOK, Body: []byte("{}")}, nil
}

func (f *fakeAPI) ops() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.op)
	}
	return out
}

func (f *fakeAPI) CreateHole(_ context.Context, content, hid, tag string) (*treehollow.Response, error) {
	return f.record("create_hole", content, hid, tag)
}

func (f *fakeAPI) CreateReply(_ context.Context, pid treehollow.ID, content string, cid *treehollow.ID) (*treehollow.Response, error) {
	return f.record("create_reply", pid, content, cid)
}

func (f *fakeAPI) FollowHole(_ context.Context, pid treehollow.ID) (*treehollow.Response, error) {
	return f.record("follow_hole", pid)
}

func (f *fakeAPI) UnfollowHole(_ context.Context, pid treehollow.ID) (*treehollow.Response, error) {
	return f.record("unfollow_hole", pid)
}

func (f *fakeAPI) GetHole(_ context.Context, pid treehollow.ID) (*treehollow.Response, error) {
	return f.record("get_hole", pid)
}

func (f *fakeAPI) ListHoles(_ context.Context, opts treehollow.ListOptions) (*treehollow.Response, error) {
	return f.record("list_holes", opts)
}

func (f *fakeAPI) SendVote(_ context.Context, pid treehollow.ID, option string) (*treehollow.Response, error) {
	return f.record("send_vote", pid, option)
}

func (f *fakeAPI) ReportHole(_ context.Context, pid treehollow.ID, reason string) (*treehollow.Response, error) {
	return f.record("report_hole", pid, reason)
}

func (f *fakeAPI) ListHollows(context.Context) (*treehollow.Response, error) {
	return f.record("list_hollows")
}

func (f *fakeAPI) Notifications(context.Context) (*treehollow.Response, error) {
	return f.record("notifications")
}

func (f *fakeAPI) SystemMessages(context.Context) (*treehollow.Response, error) {
	return f.record("system_messages")
}

func (f *fakeAPI) ReadNotifications(context.Context) (*treehollow.Response, error) {
	return f.record("read_notifications")
}

func (f *fakeAPI) Devices(context.Context) (*treehollow.Response, error) {
	return f.record("devices")
}

func (f *fakeAPI) KickDevice(_ context.Context, uuid string) (*treehollow.Response, error) {
	return f.record("kick_device", uuid)
}

func (f *fakeAPI) DownloadImage(_ context.Context, src, dir string) (*treehollow.Response, string, error) {
	resp, err := f.record("download_image", src, dir)
	if err != nil {
		return nil, "", err
	}
	return resp, filepath.Join(dir, filepath.Base(src)), nil
}

type fakeHistory struct {
	entries []history.Entry
	limit   int
}

func (h *fakeHistory) Recent(_ context.Context, limit int) ([]history.Entry, error) {
	h.limit = limit
	return h.entries, nil
}

func newTestDispatcher(t *testing.T, api API) (*Dispatcher, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	r := render.New(&out, render.Options{
		Width: 100,
		Now:   func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, treehollow.ServerZone) },
	})
	d := New(Options{
		API:      api,
		Renderer: r,
		ImageDir: t.TempDir(),
		Logger:   logging.NewNop(),
	})
	return d, &out
}

func mustParse(t *testing.T, line string) command.Command {
	t.Helper()
	cmd, err := command.ParseLine(line)
	if err != nil {
		t.Fatalf("parse %q: %v", line, err)
	}
	return cmd
}

func sampleHole() map[string]any {
	return map[string]any{
		"pid":             "42",
		"content":         "root post",
		"school_name":     "North",
		"followers_count": 2,
		"replies_count":   3,
		"created_at":      "2024-03-01 10:00:00",
		"replies": []map[string]any{
			{"cid": "1", "name": "Alice", "content": "first", "school_name": "North"},
			{"cid": "2", "name": "Bob", "content": "second", "school_name": "South", "reply_cid": "1"},
			{"cid": "3", "name": "Carol", "content": "third"},
		},
	}
}

func TestExecuteInvokesOneOperationPerCommand(t *testing.T) {
	cases := []struct {
		line string
		op   string
	}{
		{"create hello", "create_hole"},
		{"follow 42", "follow_hole"},
		{"unfollow 42", "unfollow_hole"},
		{"hole 42", "get_hole"},
		{"list", "list_holes"},
		{"vote 42 yes", "send_vote"},
		{"devices", "devices"},
		{"kick 0d9c6a8e-7c55-4bb5-9f0a-3b9d7f3f4c11", "kick_device"},
		{"report 42 spam", "report_hole"},
		{"notifications", "notifications"},
		{"messages", "system_messages"},
		{"read", "read_notifications"},
		{"hollows", "list_hollows"},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			api := newFakeAPI()
			api.respond("get_hole", http.StatusOK, sampleHole())
			api.respond("list_holes", http.StatusOK, []any{})
			api.respond("send_vote", http.StatusOK, map[string]any{"options": []string{"yes", "no"}, "results": []int{-1, -1}})
			api.respond("devices", http.StatusOK, []any{})
			api.respond("notifications", http.StatusOK, []any{})
			api.respond("system_messages", http.StatusOK, []any{})
			api.respond("list_hollows", http.StatusOK, []any{})
			d, _ := newTestDispatcher(t, api)

			if err := d.Execute(context.Background(), mustParse(t, tc.line)); err != nil {
				t.Fatalf("execute: %v", err)
			}
			ops := api.ops()
			if len(ops) != 1 || ops[0] != tc.op {
				t.Fatalf("expected exactly one %s call, got %v", tc.op, ops)
			}
		})
	}
}

func TestExecuteLocalCommandsMakeNoCalls(t *testing.T) {
	for _, line := range []string{"", "help", "help list", "debug on", "history"} {
		api := newFakeAPI()
		d, _ := newTestDispatcher(t, api)
		if err := d.Execute(context.Background(), mustParse(t, line)); err != nil {
			t.Fatalf("execute %q: %v", line, err)
		}
		if len(api.calls) != 0 {
			t.Fatalf("%q made calls: %v", line, api.ops())
		}
	}
}

func TestCreateSendsContentWithDefaultHollow(t *testing.T) {
	var got map[string]any
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost || r.URL.Path != "/holes" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"pid":"7"}`)
	}))
	defer server.Close()

	client := treehollow.New(treehollow.Options{APIRoot: server.URL, HTTP: server.Client()})
	client.SetToken("tok")
	d, out := newTestDispatcher(t, client)

	if err := d.Execute(context.Background(), mustParse(t, "create hello")); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one request, got %d", calls)
	}
	if got["content"] != "hello" || got["hid"] != treehollow.GlobalHollow {
		t.Fatalf("unexpected payload %#v", got)
	}
	if !strings.Contains(out.String(), "#7") {
		t.Fatalf("expected confirmation with pid, got %q", out.String())
	}
}

func TestReplyRefetchesParentWithFilter(t *testing.T) {
	api := newFakeAPI()
	api.respond("get_hole", http.StatusOK, sampleHole())
	d, out := newTestDispatcher(t, api)

	if err := d.Execute(context.Background(), mustParse(t, "reply 42 2 thanks onlyWho Bob")); err != nil {
		t.Fatalf("execute: %v", err)
	}
	ops := api.ops()
	if len(ops) != 2 || ops[0] != "create_reply" || ops[1] != "get_hole" {
		t.Fatalf("unexpected calls %v", ops)
	}
	rendered := out.String()
	if !strings.Contains(rendered, "second") {
		t.Fatalf("expected Bob's reply in output:\n%s", rendered)
	}
	if strings.Contains(rendered, "third") {
		t.Fatalf("filtered reply leaked into output:\n%s", rendered)
	}
	// Bob cites Alice; the citation resolves even though Alice is filtered out.
	if !strings.Contains(rendered, "Alice: first") {
		t.Fatalf("expected citation excerpt:\n%s", rendered)
	}
}

func TestHoleMissingCitationPropagates(t *testing.T) {
	hole := sampleHole()
	hole["replies"] = []map[string]any{
		{"cid": "5", "name": "Dan", "content": "dangling", "reply_cid": "99"},
	}
	api := newFakeAPI()
	api.respond("get_hole", http.StatusOK, hole)
	d, out := newTestDispatcher(t, api)

	err := d.Execute(context.Background(), mustParse(t, "hole 42"))
	var missing *services.MissingCitationError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingCitationError, got %v", err)
	}
	if missing.Target != 99 || !errors.Is(err, services.ErrDataIntegrity) {
		t.Fatalf("unexpected error %#v", missing)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no partial output, got %q", out.String())
	}
}

func TestUnexpectedStatusOnWrite(t *testing.T) {
	api := newFakeAPI()
	api.respond("follow_hole", http.StatusBadRequest, map[string]any{"msg": "nope"})
	d, out := newTestDispatcher(t, api)

	err := d.Execute(context.Background(), mustParse(t, "follow 42"))
	var unexpected *services.UnexpectedResponseError
	if !errors.As(err, &unexpected) {
		t.Fatalf("expected UnexpectedResponseError, got %v", err)
	}
	if unexpected.Status != http.StatusBadRequest {
		t.Fatalf("status = %d", unexpected.Status)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no confirmation, got %q", out.String())
	}
}

func TestErrorCodeOnReadIsUnexpected(t *testing.T) {
	api := newFakeAPI()
	api.respond("get_hole", http.StatusOK, map[string]any{"code": -101, "msg": "not found"})
	d, _ := newTestDispatcher(t, api)

	err := d.Execute(context.Background(), mustParse(t, "hole 42"))
	if !errors.Is(err, services.ErrUnexpectedResponse) {
		t.Fatalf("expected ErrUnexpectedResponse, got %v", err)
	}
}

func TestListOnlyWhichIsStrictSubset(t *testing.T) {
	api := newFakeAPI()
	api.respond("list_holes", http.StatusOK, map[string]any{"data": []map[string]any{
		{"pid": "1", "content": "north post", "school_name": "North"},
		{"pid": "2", "content": "south post", "school_name": "South"},
		{"pid": "3", "content": "old post"},
	}})
	d, out := newTestDispatcher(t, api)

	if err := d.Execute(context.Background(), mustParse(t, "list onlyWhich North")); err != nil {
		t.Fatalf("execute: %v", err)
	}
	rendered := out.String()
	if !strings.Contains(rendered, "north post") {
		t.Fatalf("expected matching post:\n%s", rendered)
	}
	for _, leaked := range []string{"south post", "old post"} {
		if strings.Contains(rendered, leaked) {
			t.Fatalf("%q leaked into output:\n%s", leaked, rendered)
		}
	}
}

func TestImageDownloadsEveryImage(t *testing.T) {
	hole := sampleHole()
	hole["image"] = map[string]any{"src": "a.jpg"}
	hole["replies"] = []map[string]any{
		{"cid": "1", "name": "Alice", "content": "pic", "image": map[string]any{"src": "b.png"}},
		{"cid": "2", "name": "Bob", "content": "no pic"},
	}
	api := newFakeAPI()
	api.respond("get_hole", http.StatusOK, hole)
	d, out := newTestDispatcher(t, api)

	if err := d.Execute(context.Background(), mustParse(t, "image 42")); err != nil {
		t.Fatalf("execute: %v", err)
	}
	ops := api.ops()
	if len(ops) != 3 || ops[1] != "download_image" || ops[2] != "download_image" {
		t.Fatalf("unexpected calls %v", ops)
	}
	wantDir := filepath.Join(d.imageDir, "42")
	if dir := api.calls[1].args[1]; dir != wantDir {
		t.Fatalf("download dir = %v, want %s", dir, wantDir)
	}
	if got := strings.Count(out.String(), "image saved to"); got != 2 {
		t.Fatalf("expected two confirmations, got %d:\n%s", got, out.String())
	}
}

func TestImageWithoutImagesIsPlainError(t *testing.T) {
	api := newFakeAPI()
	api.respond("get_hole", http.StatusOK, map[string]any{"pid": "42", "content": "text only"})
	d, _ := newTestDispatcher(t, api)

	err := d.Execute(context.Background(), mustParse(t, "image 42"))
	if err == nil || err.Error() != "hole 42 has no images" {
		t.Fatalf("unexpected error %v", err)
	}
	if errors.Is(err, services.ErrUnexpectedResponse) {
		t.Fatalf("no-image error should not be classified as a response error: %v", err)
	}
	if len(api.calls) != 1 {
		t.Fatalf("expected only the hole read, got %v", api.ops())
	}
}

func TestImageSavesToDisk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/holes/detail":
			_, _ = io.WriteString(w, `{"pid":"42","content":"x","image":{"src":"pics/cat.jpg"}}`)
		case "/img/pics/cat.jpg":
			_, _ = w.Write([]byte("jpeg-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := treehollow.New(treehollow.Options{APIRoot: server.URL, ImageRoot: server.URL + "/img", HTTP: server.Client()})
	client.SetToken("tok")
	d, _ := newTestDispatcher(t, client)

	if err := d.Execute(context.Background(), mustParse(t, "image 42")); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(d.imageDir, "42", "cat.jpg"))
	if err != nil {
		t.Fatalf("read saved image: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("unexpected image contents %q", data)
	}
}

func TestVoteRendersPoll(t *testing.T) {
	api := newFakeAPI()
	api.respond("send_vote", http.StatusOK, map[string]any{
		"options": []string{"yes", "no"},
		"results": []int{3, 7},
		"voted":   "no",
	})
	d, out := newTestDispatcher(t, api)

	if err := d.Execute(context.Background(), mustParse(t, "vote 42 no")); err != nil {
		t.Fatalf("execute: %v", err)
	}
	rendered := out.String()
	for _, want := range []string{"yes", "[x] no", "3", "7"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("expected %q in poll:\n%s", want, rendered)
		}
	}
}

func TestDebugToggles(t *testing.T) {
	d, out := newTestDispatcher(t, newFakeAPI())
	if d.Debug() {
		t.Fatal("debug should start off")
	}
	if err := d.Execute(context.Background(), command.Debug{}); err != nil {
		t.Fatal(err)
	}
	if !d.Debug() {
		t.Fatal("toggle should enable debug")
	}
	off := false
	if err := d.Execute(context.Background(), command.Debug{Set: &off}); err != nil {
		t.Fatal(err)
	}
	if d.Debug() {
		t.Fatal("explicit off should disable debug")
	}
	if !strings.Contains(out.String(), "debug mode off") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestHistoryUsesReader(t *testing.T) {
	d, out := newTestDispatcher(t, newFakeAPI())
	if err := d.Execute(context.Background(), command.History{Limit: 5}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "history is disabled") {
		t.Fatalf("expected disabled notice, got %q", out.String())
	}

	reader := &fakeHistory{entries: []history.Entry{{ID: 1, Line: "list", Command: "list", Outcome: "ok", CreatedAt: time.Now()}}}
	d.history = reader
	out.Reset()
	if err := d.Execute(context.Background(), command.History{Limit: 5}); err != nil {
		t.Fatal(err)
	}
	if reader.limit != 5 {
		t.Fatalf("limit = %d", reader.limit)
	}
	if !strings.Contains(out.String(), "list") {
		t.Fatalf("expected history row, got %q", out.String())
	}
}

type unknownCommand struct{}

func (unknownCommand) Name() string { return "mystery" }

func TestUnknownVariant(t *testing.T) {
	api := newFakeAPI()
	d, _ := newTestDispatcher(t, api)
	err := d.Execute(context.Background(), unknownCommand{})
	if !errors.Is(err, services.ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Fatalf("unexpected calls %v", api.ops())
	}
}

func TestGatedCommandWithoutTokenMakesNoRequest(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := treehollow.New(treehollow.Options{APIRoot: server.URL, HTTP: server.Client()})
	d, _ := newTestDispatcher(t, client)

	err := d.Execute(context.Background(), mustParse(t, "list"))
	if !errors.Is(err, services.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
	if requests != 0 {
		t.Fatalf("expected no requests, got %d", requests)
	}
}
