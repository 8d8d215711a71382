package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"electrostore/internal/domain"
	"electrostore/internal/http/handlers"
	"electrostore/internal/repos"
	"electrostore/web"
)

type testEnv struct {
	app  *fiber.App
	db   *sqlx.DB
	deps *handlers.Deps
	pub  *capturePublisher
}

type capturePublisher struct {
	mu     sync.Mutex
	orders []string
}

func (p *capturePublisher) PublishOrderCreated(_ context.Context, o *domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, o.ID)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repos.Open(":memory:", repos.Options{Seed: true, BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	pub := &capturePublisher{}
	deps := handlers.NewDeps(db, pub)
	return &testEnv{app: handlers.NewApp(deps, web.Engine()), db: db, deps: deps, pub: pub}
}

// rebuild recreates the app after a test swapped one of the deps.
func (e *testEnv) rebuild() { e.app = handlers.NewApp(e.deps, web.Engine()) }

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func (e *testEnv) api(t *testing.T, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(t, req)
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	resp, body := e.api(t, "POST", "/api/v1/login", "", map[string]string{"email": email, "password": "Passw0rd!"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, resp.StatusCode, body)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Token == "" {
		t.Fatalf("no token in %s", body)
	}
	return out.Token
}

type apiError struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Retryable *bool  `json:"retryable"`
}

func decodeError(t *testing.T, body []byte) apiError {
	t.Helper()
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("error body is not json: %s", body)
	}
	return e
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs swaps the standard logger output while fn runs and returns the
// JSON entries written in the meantime.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) *logEntry {
	for i := range entries {
		if entries[i].Action == action {
			return &entries[i]
		}
	}
	return nil
}
