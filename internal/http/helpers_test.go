package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/require"

	"orderly/internal/config"
	"orderly/internal/domain"
	"orderly/internal/http/handlers"
	"orderly/internal/metrics"
	"orderly/internal/store"
)

const (
	adminPassword = "s3cret-pass"
	botSecret     = "bot-secret"
)

type recorder struct {
	mu   sync.Mutex
	sent []domain.Order
}

func (r *recorder) Notify(_ context.Context, o domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, o)
	return nil
}

type testApp struct {
	app      *fiber.App
	deps     *handlers.Deps
	st       *store.Store
	notified *recorder
	csrf     string
	sid      string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	st, err := store.Open(context.Background(), store.KindMemory, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Config{
		AdminUsername: "admin",
		AdminPassword: adminPassword,
		DraftTTL:      30 * time.Minute,
		BotSecret:     botSecret,
	}
	rec := &recorder{}
	deps, err := handlers.NewDeps(st, cfg, metrics.NewRegistry(), rec)
	require.NoError(t, err)

	engine := html.New("../../web/templates", ".html")
	return &testApp{app: handlers.NewApp(engine, deps), deps: deps, st: st, notified: rec}
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (a *testApp) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	if a.csrf != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: a.csrf})
	}
	if a.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: a.sid})
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// fetchCSRF picks up the double-submit cookie from a safe request.
func (a *testApp) fetchCSRF(t *testing.T) {
	t.Helper()
	resp := a.do(t, httptest.NewRequest("GET", "/login", nil))
	a.csrf = cookieValue(resp, "csrf_")
	require.NotEmpty(t, a.csrf, "csrf cookie missing")
}

func (a *testApp) postLogin(t *testing.T, username, password string) *http.Response {
	t.Helper()
	form := url.Values{"csrf": {a.csrf}, "username": {username}, "password": {password}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req)
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	a.fetchCSRF(t)
	resp := a.postLogin(t, "admin", adminPassword)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	a.sid = cookieValue(resp, "sid")
	require.NotEmpty(t, a.sid)
}

func (a *testApp) api(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	return a.apiWith(t, method, path, body, nil)
}

func (a *testApp) apiWith(t *testing.T, method, path string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if a.csrf != "" {
		req.Header.Set("X-CSRF-Token", a.csrf)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := a.do(t, req)
	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

// bot sends one transport event and returns the decoded reply.
func (a *testApp) bot(t *testing.T, user int64, kind, value string) (*http.Response, map[string]any) {
	t.Helper()
	return a.apiWith(t, "POST", "/bot/events", map[string]any{"user_id": user, "kind": kind, "value": value},
		map[string]string{handlers.BotSecretHeader: botSecret})
}

// placeFood drives a complete food conversation through the adapter.
func (a *testApp) placeFood(t *testing.T, user int64) int64 {
	t.Helper()
	steps := [][2]string{
		{"start", ""}, {"select", "lang_en"}, {"select", "cat_food"}, {"select", "prod_Pizza"},
		{"text", "Ali"}, {"text", "0500000000"}, {"text", "Riyadh"}, {"text", "2"},
	}
	var body map[string]any
	for _, s := range steps {
		var resp *http.Response
		resp, body = a.bot(t, user, s[0], s[1])
		require.Equal(t, http.StatusOK, resp.StatusCode, "step %v: %v", s, body)
	}
	id, ok := body["order_id"].(float64)
	require.True(t, ok, "no order id in %v", body)
	return int64(id)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Admin  string         `json:"admin"`
	ReqID  string         `json:"req_id"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil && e.Action != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
