package middleware_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-attendance/internal/middleware"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type errorEnvelope struct {
	Ok    bool `json:"ok"`
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.RequestIDHeader, "rid-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "rid-123", w.Body.String())
		assert.Equal(t, "rid-123", w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("generates id when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		rid := w.Header().Get(middleware.RequestIDHeader)
		assert.NotEmpty(t, rid)
		assert.Equal(t, rid, w.Body.String())
	})
}

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ContextLogger(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) {
		contextutil.GetLogger(c.Request.Context(), zap.NewNop()).Info("inside handler")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "rid-log")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "inside handler", entries[0].Message)
	assert.Equal(t, "rid-log", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "http request", entries[1].Message)
	assert.Equal(t, int64(http.StatusNoContent), entries[1].ContextMap()["status"])
	assert.Equal(t, "/ping", entries[1].ContextMap()["path"])
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.GET("/limited", middleware.RateLimitByIP(0.001, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/limited", nil))
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &env))
	assert.False(t, env.Ok)
	assert.Equal(t, apperror.CodeTooManyRequests, env.Error.Code)
}

func TestKeyedRateLimiter_PerKey(t *testing.T) {
	l := middleware.NewKeyedRateLimiter(0.001, 1)

	assert.True(t, l.GetLimiter("10.0.0.1").Allow())
	assert.False(t, l.GetLimiter("10.0.0.1").Allow())
	assert.True(t, l.GetLimiter("10.0.0.2").Allow())
	assert.Same(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.1"))
}

const (
	idempCacheKey = "idemp:/mark:key-1"
	idempLockKey  = idempCacheKey + ":lock"
)

func idempotentRouter(t *testing.T, status int, calls *int) (*gin.Engine, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/mark", middleware.Idempotency(rdb), func(c *gin.Context) {
		*calls++
		c.JSON(status, gin.H{"call": *calls})
	})
	return r, mock
}

func postMark(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/mark", nil)
	if key != "" {
		req.Header.Set(middleware.IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_StoresSuccessfulResponse(t *testing.T) {
	calls := 0
	r, mock := idempotentRouter(t, http.StatusCreated, &calls)

	mock.ExpectGet(idempCacheKey).RedisNil()
	mock.ExpectSetNX(idempLockKey, "locked", 30*time.Second).SetVal(true)
	mock.Regexp().ExpectSet(idempCacheKey, `.*`, 24*time.Hour).SetVal("OK")
	mock.ExpectDel(idempLockKey).SetVal(1)

	w := postMark(r, "key-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, calls)
	assert.Empty(t, w.Header().Get(middleware.ReplayHeader))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	calls := 0
	r, mock := idempotentRouter(t, http.StatusCreated, &calls)

	body := `{"call":1}`
	cached := `{"status":201,"content_type":"application/json; charset=utf-8","body":"` +
		base64.StdEncoding.EncodeToString([]byte(body)) + `"}`
	mock.ExpectGet(idempCacheKey).SetVal(cached)

	w := postMark(r, "key-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, body, w.Body.String())
	assert.Equal(t, "true", w.Header().Get(middleware.ReplayHeader))
	assert.Zero(t, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ConcurrentRequestConflicts(t *testing.T) {
	calls := 0
	r, mock := idempotentRouter(t, http.StatusCreated, &calls)

	mock.ExpectGet(idempCacheKey).RedisNil()
	mock.ExpectSetNX(idempLockKey, "locked", 30*time.Second).SetVal(false)

	w := postMark(r, "key-1")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, calls)

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, apperror.CodeConflict, env.Error.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_FailedResponseNotStored(t *testing.T) {
	calls := 0
	r, mock := idempotentRouter(t, http.StatusBadRequest, &calls)

	mock.ExpectGet(idempCacheKey).RedisNil()
	mock.ExpectSetNX(idempLockKey, "locked", 30*time.Second).SetVal(true)
	mock.ExpectDel(idempLockKey).SetVal(1)

	w := postMark(r, "key-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_PassThrough(t *testing.T) {
	t.Run("without key", func(t *testing.T) {
		calls := 0
		r, mock := idempotentRouter(t, http.StatusCreated, &calls)

		w := postMark(r, "")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil client", func(t *testing.T) {
		r := gin.New()
		r.POST("/mark", middleware.Idempotency(nil), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})

		w := postMark(r, "key-1")
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}
