package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trambui/portfolio-contact/internal/api/middleware"
	"github.com/trambui/portfolio-contact/internal/contact"
	"github.com/trambui/portfolio-contact/internal/logging"
	"github.com/trambui/portfolio-contact/internal/server/routes"
	"github.com/trambui/portfolio-contact/internal/telemetry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingSubmitter struct {
	calls int
	err   error
}

func (s *countingSubmitter) Submit(context.Context, contact.Submission) error {
	s.calls++
	return s.err
}

func testConfig() Config {
	return Config{
		Addr:         ":0",
		MaxBodyBytes: 64 << 10,
		RateLimit:    middleware.RateLimitConfig{RPS: 100, Burst: 100},
		ServiceName:  "portfolio-contact",
	}
}

func newTestServer(t *testing.T, cfg Config, sub *countingSubmitter) *Server {
	t.Helper()
	metrics, err := telemetry.NewMetrics()
	require.NoError(t, err)
	srv, err := NewServer(cfg, sub, metrics, logging.Nop())
	require.NoError(t, err)
	return srv
}

const validJSON = `{"name":"Jo","email":"jo@x.com","message":"Hi","g-recaptcha-response":"tok"}`

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSubmissionRoutes(t *testing.T) {
	for _, path := range []string{routes.PathSendEmail, routes.PathNetlifyFunc, routes.PathContactSubmit} {
		t.Run(path, func(t *testing.T) {
			sub := &countingSubmitter{}
			srv := newTestServer(t, testConfig(), sub)

			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, postJSON(path, validJSON))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"status":"success","message":"Message sent successfully!"}`, w.Body.String())
			assert.Equal(t, 1, sub.calls)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			sub := &countingSubmitter{}
			srv := newTestServer(t, testConfig(), sub)

			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, httptest.NewRequest(method, routes.PathSendEmail, strings.NewReader(validJSON)))

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.JSONEq(t, `{"status":"error","message":"Method Not Allowed"}`, w.Body.String())
			assert.Contains(t, w.Header().Get("Allow"), http.MethodPost)
			assert.Zero(t, sub.calls)
		})
	}
}

func TestSubmitErrorStatus(t *testing.T) {
	sub := &countingSubmitter{err: contact.Wrap(contact.ErrDispatch, assert.AnError)}
	srv := newTestServer(t, testConfig(), sub)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, postJSON(routes.PathSendEmail, validJSON))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"`+contact.MsgDispatch+`"}`, w.Body.String())
}

func TestRateLimitOnSubmissionRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = middleware.RateLimitConfig{RPS: 0.001, Burst: 2}
	sub := &countingSubmitter{}
	srv := newTestServer(t, cfg, sub)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, postJSON(routes.PathSendEmail, validJSON))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, sub.calls)

	// Health is not rate limited.
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitIgnoresForwardingHeadersFromUntrustedPeer(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = middleware.RateLimitConfig{RPS: 0.001, Burst: 1}
	sub := &countingSubmitter{}
	srv := newTestServer(t, cfg, sub)

	allowed := 0
	for i := 0; i < 50; i++ {
		req := postJSON(routes.PathSendEmail, validJSON)
		req.RemoteAddr = "192.0.2.50:4321"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
		req.Header.Set("X-Nf-Client-Connection-Ip", fmt.Sprintf("198.18.0.%d", i))
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)
	assert.Equal(t, 1, sub.calls)
}

func TestRateLimitHonoursTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = middleware.RateLimitConfig{RPS: 0.001, Burst: 1}
	cfg.TrustedProxies = []string{"10.0.0.0/8"}
	sub := &countingSubmitter{}
	srv := newTestServer(t, cfg, sub)

	send := func(client string) int {
		req := postJSON(routes.PathSendEmail, validJSON)
		req.RemoteAddr = "10.1.2.3:4321"
		req.Header.Set("X-Forwarded-For", client)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("203.0.113.2"))
}

func TestNewServerRejectsBadTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.TrustedProxies = []string{"not-an-ip"}
	_, err := NewServer(cfg, &countingSubmitter{}, nil, logging.Nop())
	assert.Error(t, err)
}

func TestHealthMetricsAndNotFound(t *testing.T) {
	srv := newTestServer(t, testConfig(), &countingSubmitter{})

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_contact_http_requests_total")

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Not Found"}`, w.Body.String())
}

func TestPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = []string{"https://trambui.dev"}
	srv := newTestServer(t, cfg, &countingSubmitter{})

	req := httptest.NewRequest(http.MethodOptions, routes.PathSendEmail, nil)
	req.Header.Set("Origin", "https://trambui.dev")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://trambui.dev", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPanicIsRecovered(t *testing.T) {
	srv := newTestServer(t, testConfig(), &countingSubmitter{})
	srv.Router().GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
