package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"xml-uploader/internal/config"
	"xml-uploader/pkg/redis_limiter"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeLimiter struct {
	mu         sync.Mutex
	acquireErr error
	acquired   int
	released   int
}

func (f *fakeLimiter) Acquire(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.acquired++
	return nil
}

func (f *fakeLimiter) Release(context.Context, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
}

func newLogger(buf *bytes.Buffer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func TestUploadLimiter(t *testing.T) {
	tests := []struct {
		name         string
		acquireErr   error
		wantStatus   int
		wantReleased int
	}{
		{name: "slot available", wantStatus: http.StatusCreated, wantReleased: 1},
		{name: "limit reached", acquireErr: redis_limiter.ErrLimitReached, wantStatus: http.StatusTooManyRequests},
		{name: "limiter down", acquireErr: errors.New("dial tcp: refused"), wantStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := &fakeLimiter{acquireErr: tt.acquireErr}
			var buf bytes.Buffer

			r := gin.New()
			r.POST("/up", UploadLimiter(limiter, "uploads", newLogger(&buf)), func(c *gin.Context) {
				c.Status(http.StatusCreated)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/up", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantReleased, limiter.released)
		})
	}
}

func TestUploadLimiter_Nil(t *testing.T) {
	r := gin.New()
	r.POST("/up", UploadLimiter(nil, "uploads", logrus.New()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/up", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer

	r := gin.New()
	r.Use(RequestID(), LoggerMiddleware(newLogger(&buf)))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Contains(t, buf.String(), id)
	assert.Contains(t, buf.String(), `"status":200`)

	buf.Reset()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), "abc-123")
}

func TestCORS(t *testing.T) {
	cfg := &config.Config{CORS: config.CORSConfig{
		Origins:      []string{"http://app.local"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type", "X-Filename"},
	}}

	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://app.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.local", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type, X-Filename", w.Header().Get("Access-Control-Allow-Headers"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.local")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
