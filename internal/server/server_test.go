package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"waterguard/internal/chat"
	"waterguard/internal/forms"
	"waterguard/internal/llm"
	"waterguard/internal/mail"
	"waterguard/internal/storage"
)

type stubLLM struct {
	content string
	err     error
}

func (s stubLLM) Generate(context.Context, []llm.Message) (llm.Response, error) {
	return llm.Response{Content: s.content, Model: "stub"}, s.err
}

type env struct {
	srv   *Server
	store *storage.Store
	sent  []mail.Message
}

func newEnv(t *testing.T, model stubLLM, mailErr error) *env {
	t.Helper()
	log := zaptest.NewLogger(t)
	dir := t.TempDir()
	e := &env{store: storage.NewStore(filepath.Join(dir, "users.json"), filepath.Join(dir, "bookings.json"), log, nil)}

	sender := mail.SenderFunc(func(_ context.Context, m mail.Message) error {
		if mailErr != nil {
			return mailErr
		}
		e.sent = append(e.sent, m)
		return nil
	})
	chatSvc := chat.New(model, chat.WithLogger(log))
	formSvc := forms.New(e.store, sender, nil, "https://waterguard.test", log)

	srv, err := New(Options{Addr: ":0", AllowedOrigins: []string{"*"}, Logger: log}, chatSvc, formSvc)
	require.NoError(t, err)
	e.srv = srv
	return e
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestChat_EmptyPrompt(t *testing.T) {
	e := newEnv(t, stubLLM{content: "unused"}, nil)
	rec := e.do(http.MethodPost, "/chat", `{"prompt": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, chat.MsgEmptyPrompt, decode(t, rec)["reply"])
}

func TestChat_FormatsReply(t *testing.T) {
	e := newEnv(t, stubLLM{content: "- Boil **water**\n- Use filters"}, nil)
	rec := e.do(http.MethodPost, "/chat", `{"prompt": "How do I clean water?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<ul><li>Boil water</li><li>Use filters</li></ul>", decode(t, rec)["reply"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestChat_ModelFailure(t *testing.T) {
	e := newEnv(t, stubLLM{err: errors.New("quota exceeded")}, nil)
	rec := e.do(http.MethodPost, "/chat", `{"prompt": "hi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "❌ An error occurred: quota exceeded", decode(t, rec)["reply"])
}

func TestChat_MalformedBody(t *testing.T) {
	e := newEnv(t, stubLLM{}, nil)
	rec := e.do(http.MethodPost, "/chat", `{"prompt":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidBody, decode(t, rec)["reply"])
}

func TestSignup_AppendsOneRecord(t *testing.T) {
	e := newEnv(t, stubLLM{}, nil)
	rec := e.do(http.MethodPost, "/signup", `{"name":"Ravi","email":"ravi@example.com","phone":"123","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, forms.MsgSignupOK, decode(t, rec)["message"])

	users, err := e.store.Users.Load()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ravi@example.com", users[0].Email)
	require.Len(t, e.sent, 1)
	assert.Equal(t, "ravi@example.com", e.sent[0].To)
}

func TestSignup_NumericPhone(t *testing.T) {
	e := newEnv(t, stubLLM{}, nil)
	rec := e.do(http.MethodPost, "/signup", `{"name":"Ravi","email":"ravi@example.com","phone":919876543210123}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, forms.MsgSignupOK, decode(t, rec)["message"])

	users, err := e.store.Users.Load()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "919876543210123", users[0].Phone)
}

func TestSignup_EmailFailure(t *testing.T) {
	e := newEnv(t, stubLLM{}, errors.New("535 auth failed"))
	rec := e.do(http.MethodPost, "/signup", `{"name":"Ravi","email":"ravi@example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "❌ Email failed: 535 auth failed", decode(t, rec)["message"])

	n, err := e.store.Users.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBookKit(t *testing.T) {
	e := newEnv(t, stubLLM{}, nil)
	rec := e.do(http.MethodPost, "/book-kit", `{"name":"Meera","email":"m@example.com","phone":"1","address":"12 Lake Rd","date":"2026-10-20"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, forms.MsgBookingOK, decode(t, rec)["message"])

	rec = e.do(http.MethodPost, "/book-kit", `{"name":"Meera"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodPost, "/book-kit", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidBody, decode(t, rec)["message"])
}

func TestPages(t *testing.T) {
	e := newEnv(t, stubLLM{}, nil)
	for _, path := range []string{"/", "/chatbot", "/signup-form", "/water_test", "/book_kit"} {
		rec := e.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "WaterGuard", path)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"), path)
	}
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/nope", "").Code)
}

func TestStaticHealthAndMetrics(t *testing.T) {
	e := newEnv(t, stubLLM{}, nil)

	rec := e.do(http.MethodGet, "/static/style.css", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	rec = e.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "waterguard_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	e := newEnv(t, stubLLM{}, nil)
	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORS_AllowList(t *testing.T) {
	log := zaptest.NewLogger(t)
	srv, err := New(Options{AllowedOrigins: []string{"https://waterguard.test"}, Logger: log}, nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://waterguard.test")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "https://waterguard.test", rec.Header().Get("Access-Control-Allow-Origin"))
}
