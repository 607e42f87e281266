package main

import (
	"errors"
	"net/http"
	"testing"

	"sylva/internal/services"
	"sylva/internal/testsupport"
)

func TestRunListRendersHoles(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithToken("tok"))
	env.api.Handle(http.MethodGet, "/holes", http.StatusOK, map[string]any{
		"data": []map[string]any{{"pid": "5", "content": "hello tree", "created_at": "2024-01-01 08:00:00"}},
	})

	out, _, err := runCLI(t, []string{"run", "list", "5"}, env.configPath, "")
	if err != nil {
		t.Fatalf("run list: %v", err)
	}
	requireContains(t, out, "hello tree")

	reqs := env.api.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected one request, got %v", env.api.Paths())
	}
	req := reqs[0]
	if req.Token != "tok" || req.Model != "Sylva CLI" {
		t.Fatalf("unexpected headers %#v", req)
	}
	if req.Query["per_page"] != "5" || req.Query["type"] != "timeline" {
		t.Fatalf("unexpected query %#v", req.Query)
	}
}

func TestRunQuotesMultiWordArguments(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithToken("tok"))

	if _, _, err := runCLI(t, []string{"run", "create", "hello world", "tag", "x"}, env.configPath, ""); err != nil {
		t.Fatalf("run create: %v", err)
	}
	reqs := env.api.Requests()
	if len(reqs) != 1 || reqs[0].Method != http.MethodPost || reqs[0].Path != "/holes" {
		t.Fatalf("unexpected requests %v", env.api.Paths())
	}
	body := reqs[0].Body
	if body["content"] != "hello world" || body["tag"] != "x" {
		t.Fatalf("unexpected body %#v", body)
	}
}

func TestRunFailureIsReported(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithToken("tok"))
	env.api.Handle(http.MethodPut, "/holes/follow", http.StatusForbidden, map[string]any{"msg": "denied"})

	_, stderr, err := runCLI(t, []string{"run", "follow", "9"}, env.configPath, "")
	var reported *reportedError
	if !errors.As(err, &reported) {
		t.Fatalf("expected reportedError, got %v", err)
	}
	if !errors.Is(err, services.ErrUnexpectedResponse) {
		t.Fatalf("expected unexpected response, got %v", err)
	}
	requireContains(t, stderr, "returned 403")
}

func TestRunUnknownCommandMakesNoRequest(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithToken("tok"))

	_, _, err := runCLI(t, []string{"run", "zzz", "foo"}, env.configPath, "")
	if !errors.Is(err, services.ErrUnknownCommand) {
		t.Fatalf("expected unknown command, got %v", err)
	}
	if n := len(env.api.Requests()); n != 0 {
		t.Fatalf("expected no requests, got %v", env.api.Paths())
	}
}

func TestREPLRunsLinesUntilEOF(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithToken("tok"))
	env.api.Handle(http.MethodGet, "/user/devices", http.StatusOK, []map[string]any{
		{"uuid": "0d9c6a8e-7c55-4bb5-9f0a-3b9d7f3f4c11", "name": "laptop", "login_time": "2024-01-01 08:00:00"},
	})

	out, stderr, err := runCLI(t, nil, env.configPath, "devices\nbogus\nhistory\n")
	if err != nil {
		t.Fatalf("repl: %v", err)
	}
	requireContains(t, out, "laptop")
	requireContains(t, out, "> ")
	requireContains(t, stderr, "unknown command")
	// history shows the two earlier lines, including the failed one.
	requireContains(t, out, "bogus")
	if paths := env.api.Paths(); len(paths) != 1 || paths[0] != "GET /user/devices" {
		t.Fatalf("unexpected requests %v", paths)
	}
}

func TestLoginPersistsToken(t *testing.T) {
	env := setupCLITestEnv(t)
	env.api.Handle(http.MethodPost, "/auth/sendcode", http.StatusOK, map[string]any{})
	env.api.Handle(http.MethodPost, "/auth/register", http.StatusOK, map[string]any{"token": "fresh-token"})

	out, stderr, err := runCLI(t, []string{"login"}, env.configPath, "13800000000\n123456\n")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	requireContains(t, out, "Phone number: ")
	requireContains(t, out, "Verification code: ")
	requireContains(t, stderr, "login succeeded")

	reqs := env.api.Requests()
	if len(reqs) != 2 {
		t.Fatalf("unexpected requests %v", env.api.Paths())
	}
	if reqs[1].Body["username"] != "13800000000" || reqs[1].Body["valid_code"] != "123456" {
		t.Fatalf("unexpected register body %#v", reqs[1].Body)
	}
	if got := storedToken(t, env.configPath); got != "fresh-token" {
		t.Fatalf("stored token = %q", got)
	}
}

func TestLoginSendCodeFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	env.api.Handle(http.MethodPost, "/auth/sendcode", http.StatusTooManyRequests, map[string]any{"msg": "slow down"})

	_, _, err := runCLI(t, []string{"login"}, env.configPath, "13800000000\n")
	if !errors.Is(err, services.ErrUnexpectedResponse) {
		t.Fatalf("expected unexpected response, got %v", err)
	}
	if got := storedToken(t, env.configPath); got != "" {
		t.Fatalf("token should not be stored, got %q", got)
	}
}

func TestLogoutRevokesAndClearsToken(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithToken("tok"))

	out, _, err := runCLI(t, []string{"logout"}, env.configPath, "")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	requireContains(t, out, "Logged out")
	if paths := env.api.Paths(); len(paths) != 1 || paths[0] != "DELETE /user/devices" {
		t.Fatalf("unexpected requests %v", paths)
	}
	if got := storedToken(t, env.configPath); got != "" {
		t.Fatalf("token should be cleared, got %q", got)
	}
}

func TestEnvTokenOverridesStoredToken(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithToken("stored"))
	t.Setenv("SYLVA_TOKEN", "from-env")
	env.api.Handle(http.MethodGet, "/user/notifications", http.StatusOK, []any{})

	out, _, err := runCLI(t, []string{"run", "notifications"}, env.configPath, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "no notifications")
	if reqs := env.api.Requests(); len(reqs) != 1 || reqs[0].Token != "from-env" {
		t.Fatalf("expected env token to be sent, got %#v", reqs)
	}
	if got := storedToken(t, env.configPath); got != "stored" {
		t.Fatalf("env token must not be persisted, got %q", got)
	}
}

func TestJoinArgs(t *testing.T) {
	cases := map[string][]string{
		`list 10`:               {"list", "10"},
		`c "hello world" tag x`: {"c", "hello world", "tag", "x"},
		`c "it's" tag x`:        {"c", "it's", "tag", "x"},
		`c 'say "hi"'`:          {"c", `say "hi"`},
		`report 1 ""`:           {"report", "1", ""},
	}
	for want, args := range cases {
		if got := joinArgs(args); got != want {
			t.Fatalf("joinArgs(%q) = %q, want %q", args, got, want)
		}
	}
}
