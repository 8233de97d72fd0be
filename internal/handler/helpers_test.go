package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/snippet-board/internal/domain"
	"github.com/msomdec/snippet-board/internal/handler"
	"github.com/msomdec/snippet-board/internal/repository/sqlite"
	"github.com/msomdec/snippet-board/internal/service"
	"github.com/msomdec/snippet-board/internal/session"
)

const testSessionSecret = "test-session-secret-for-handler-tests"

const testPassword = "passwordlen10"

type testApp struct {
	srv      *httptest.Server
	db       *sqlite.DB
	snippets *service.SnippetService
}

type appOptions struct {
	limiter *service.TokenBucket
	metrics *handler.Metrics
}

func newTestApp(t *testing.T) *testApp {
	return newTestAppWith(t, appOptions{})
}

func newTestAppWith(t *testing.T, opts appOptions) *testApp {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	auth := service.NewAuthService(db.Users(), 4)
	snippets := service.NewSnippetService(db.Snippets())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, db, auth, snippets, opts.limiter)
	if opts.metrics != nil {
		mux.Handle("GET /metrics", opts.metrics.Handler())
	}

	sessions := session.NewManager(db.Sessions(), testSessionSecret, time.Hour, false)
	srv := httptest.NewServer(handler.Wrap(mux, sessions, opts.metrics))
	t.Cleanup(srv.Close)

	return &testApp{srv: srv, db: db, snippets: snippets}
}

// newClient returns a client with its own cookie jar that does not follow redirects.
func (a *testApp) newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type result struct {
	status   int
	location string
	header   http.Header
	body     string
}

func (a *testApp) do(t *testing.T, c *http.Client, method, path string, form url.Values) result {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, a.srv.URL+path, body)
	if err != nil {
		t.Fatalf("new request %s %s: %v", method, path, err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return result{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		header:   resp.Header,
		body:     string(b),
	}
}

func (a *testApp) get(t *testing.T, c *http.Client, path string) result {
	t.Helper()
	return a.do(t, c, http.MethodGet, path, nil)
}

func (a *testApp) post(t *testing.T, c *http.Client, path string, form url.Values) result {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return a.do(t, c, http.MethodPost, path, form)
}

// expectRedirect checks res is a 303 to location and returns the body of
// the page it points to, where the flash is shown.
func (a *testApp) expectRedirect(t *testing.T, c *http.Client, res result, location string) string {
	t.Helper()
	if res.status != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.status)
	}
	if res.location != location {
		t.Fatalf("expected redirect to %s, got %s", location, res.location)
	}
	return a.get(t, c, location).body
}

func (a *testApp) register(t *testing.T, c *http.Client, username, password string) result {
	t.Helper()
	return a.post(t, c, "/users/register", url.Values{"username": {username}, "password": {password}})
}

func (a *testApp) login(t *testing.T, c *http.Client, username, password string) result {
	t.Helper()
	return a.post(t, c, "/users/login", url.Values{"username": {username}, "password": {password}})
}

// signedIn registers username and returns a logged-in client.
func (a *testApp) signedIn(t *testing.T, username string) *http.Client {
	t.Helper()
	c := a.newClient(t)
	if res := a.register(t, c, username, testPassword); res.location != "/users/login" {
		t.Fatalf("register %s: expected redirect to /users/login, got %d %s", username, res.status, res.location)
	}
	if res := a.login(t, c, username, testPassword); res.location != "/snippets/create" {
		t.Fatalf("login %s: expected redirect to /snippets/create, got %d %s", username, res.status, res.location)
	}
	return c
}

// createSnippet creates a snippet through the service and returns it.
func (a *testApp) createSnippet(t *testing.T, author, description string) *domain.Snippet {
	t.Helper()
	s, err := a.snippets.Create(context.Background(), author, description)
	if err != nil {
		t.Fatalf("Create snippet: %v", err)
	}
	return s
}

func assertContains(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Fatalf("expected body to contain %q, got:\n%s", want, body)
	}
}
