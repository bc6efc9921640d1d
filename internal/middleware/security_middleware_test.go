package middleware_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/middleware"
)

func TestSecurityHeaders(t *testing.T) {
	t.Run("development", func(t *testing.T) {
		next, called := okHandler()
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/products", nil)
		r.Header.Set("X-Forwarded-Proto", "https")

		middleware.SecurityHeaders(&config.AppSettings{Environment: "development"})(next).ServeHTTP(rec, r)

		assert.True(t, *called)
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
		assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
	})

	t.Run("production adds HSTS behind a TLS proxy", func(t *testing.T) {
		next, _ := okHandler()
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/products", nil)
		r.Header.Set("X-Forwarded-Proto", "https")

		middleware.SecurityHeaders(&config.AppSettings{Environment: "production"})(next).ServeHTTP(rec, r)

		assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=31536000")
	})
}

func TestNoStore(t *testing.T) {
	next, _ := okHandler()
	rec := httptest.NewRecorder()

	middleware.NoStore(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/signin", nil))

	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
}

func TestRateLimit(t *testing.T) {
	next, _ := okHandler()
	handler := middleware.RateLimit(2, time.Minute)(next)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
		r.RemoteAddr = "203.0.113.9:5555"
		handler.ServeHTTP(rec, r)
		statuses = append(statuses, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, "60", rec.Header().Get("Retry-After"))
			assert.Equal(t, "too_many_requests", decodeError(t, rec).Code)
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	// another client keeps its own budget
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	r.RemoteAddr = "198.51.100.7:5555"
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	cfg := &config.CORSSettings{AllowedOrigins: []string{"http://localhost:3000"}, AllowCredentials: true}

	t.Run("allowed origin", func(t *testing.T) {
		next, called := okHandler()
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/products", nil)
		r.Header.Set("Origin", "http://localhost:3000")

		middleware.CORS(cfg)(next).ServeHTTP(rec, r)

		assert.True(t, *called)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight is answered", func(t *testing.T) {
		next, called := okHandler()
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodOptions, "/cart/add", nil)
		r.Header.Set("Origin", "http://localhost:3000")
		r.Header.Set("Access-Control-Request-Method", "POST")

		middleware.CORS(cfg)(next).ServeHTTP(rec, r)

		assert.False(t, *called)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), constants.HeaderXRequestID)
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		next, called := okHandler()
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/products", nil)
		r.Header.Set("Origin", "https://evil.example")

		middleware.CORS(cfg)(next).ServeHTTP(rec, r)

		assert.True(t, *called)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		next, _ := okHandler()
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/products", nil)
		r.Header.Set("Origin", "https://any.example")

		middleware.CORS(&config.CORSSettings{AllowedOrigins: []string{"*"}})(next).ServeHTTP(rec, r)

		assert.Equal(t, "https://any.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestMaxBodySize(t *testing.T) {
	var readErr error
	handler := middleware.MaxBodySize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader("0123456789")))

	require.Error(t, readErr)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = original }()

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/9", nil))

	out := buf.String()
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"path":"/orders/9"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"request_id"`)
}
