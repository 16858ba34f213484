package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/core/apperror"
	appctx "synexpos/internal/core/context"
	"synexpos/internal/infrastructure/storage/postgres"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticValidator map[string]*appctx.UserContext

func (v staticValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if u, ok := v[token]; ok {
		return u, nil
	}
	return nil, errors.New("unknown token")
}

type memoryIdempotency struct {
	mu       sync.Mutex
	done     map[string]*postgres.IdempotencyReplay
	failed   map[string]int
	acquired int
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{done: map[string]*postgres.IdempotencyReplay{}, failed: map[string]int{}}
}

func (s *memoryIdempotency) AcquireKey(_ context.Context, key, _, _, _ string) (*postgres.IdempotencyReplay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acquired++
	return s.done[key], nil
}

func (s *memoryIdempotency) CompleteKey(_ context.Context, key string, statusCode int, contentType string, response any) error {
	body, err := json.Marshal(response)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done[key] = &postgres.IdempotencyReplay{StatusCode: statusCode, ContentType: contentType, Body: body}
	return nil
}

func (s *memoryIdempotency) FailKey(_ context.Context, key string, statusCode int, _ string, _ any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[key] = statusCode
	return nil
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler())
	r.Use(handlers...)
	return r
}

func TestAuthAndRequireRole(t *testing.T) {
	validator := staticValidator{
		"cashier": {UserID: "1", Role: "CASHIER"},
		"manager": {UserID: "2", Role: "MANAGER"},
	}
	r := newEngine(Auth(validator), RequireRole("MANAGER", "ADMIN"))
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetUserID(c.Request.Context()))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic manager", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer cashier", http.StatusForbidden},
		{"allowed", "bearer manager", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "2", w.Body.String())
			}
		})
	}
}

func TestTraceEchoesRequestID(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "till-7-0001")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "till-7-0001", w.Body.String())
	assert.Equal(t, "till-7-0001", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "till-7-0001", w.Header().Get(HeaderTraceID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestErrorHandlerMapsAppError(t *testing.T) {
	r := newEngine()
	r.GET("/stock", func(c *gin.Context) {
		_ = c.Error(apperror.NewInsufficientStock("A1", "SHELF", 5, 2))
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("db exploded"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("unexpected")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stock", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInsufficientStock, body["code"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db exploded")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeInternal)
}

func TestIdempotencyReplaysCompletedResponse(t *testing.T) {
	store := newMemoryIdempotency()
	calls := 0
	r := newEngine(Idempotency(store))
	r.POST("/sales", func(c *gin.Context) {
		calls++
		resp := gin.H{"serial": "20260601-00001"}
		CompleteIdempotency(c, http.StatusCreated, "application/json", resp)
		c.JSON(http.StatusCreated, resp)
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{"lines":[]}`))
		req.Header.Set(HeaderIdempotencyKey, "key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send()
	second := send()

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 2, store.acquired)
}

func TestIdempotencyRecordsFailure(t *testing.T) {
	store := newMemoryIdempotency()
	r := newEngine(Idempotency(store))
	r.POST("/sales", func(c *gin.Context) {
		_ = c.Error(apperror.NewPaymentDeclined("PayPal"))
	})

	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{}`))
	req.Header.Set(HeaderIdempotencyKey, "key-2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, http.StatusPaymentRequired, store.failed["key-2"])
}
