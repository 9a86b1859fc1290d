package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"go-gin-user-admin/internal/core/auth"
	"go-gin-user-admin/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) { c.String(http.StatusOK, "ok") }

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(0.0001, 1))
	r.GET("/", ok)

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(0.0001, 1))
	r.GET("/", ok)

	from := func(ip string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return req
	}
	assert.Equal(t, http.StatusOK, serve(r, from("10.0.0.1")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, from("10.0.0.1")).Code)
	assert.Equal(t, http.StatusOK, serve(r, from("10.0.0.2")).Code)
}

func TestConcurrencyLimit(t *testing.T) {
	r := gin.New()
	r.Use(ConcurrencyLimit(1))
	r.GET("/", ok)

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	// 客户端已断开的请求不再占位
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, req).Code)
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(4))
	r.POST("/", ok)

	assert.Equal(t, http.StatusRequestEntityTooLarge,
		serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long"))).Code)
	assert.Equal(t, http.StatusOK,
		serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("ok"))).Code)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", ok)

	assert.Equal(t, http.StatusGatewayTimeout, serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/fast", nil)).Code)
}

func TestRecoveryLogs(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotZero(t, logs.Len())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	rid := w.Header().Get(KeyRequestID)
	require.NotEmpty(t, rid)
	assert.Equal(t, rid, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "given")
	assert.Equal(t, "given", serve(r, req).Header().Get(KeyRequestID))
}

func TestAccessLogMasksSecrets(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/x", ok)

	serve(r, httptest.NewRequest(http.MethodGet, "/x?password=hunter2&q=a", nil))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	q := entry.ContextMap()["query"]
	assert.Equal(t, url.Values{"password": {"****"}, "q": {"a"}}, url.Values(q.(map[string][]string)))
	assert.NotEmpty(t, entry.ContextMap()["rid"])
}

type stubLoader map[string]*domain.User

func (s stubLoader) Actor(_ context.Context, id string) (*domain.User, error) {
	if id == "broken" {
		return nil, errors.New("db down")
	}
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func TestAuthJWTAndLoadActor(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Hour}
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}

	r := gin.New()
	r.Use(AuthJWT(j), LoadActor(stubLoader{"a1": admin}))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ActorFrom(c).ID) })

	withToken := func(uid string) *http.Request {
		tok, err := j.Issue(uid, domain.RoleUser)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		return req
	}

	w := serve(r, withToken("a1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, withToken("gone")).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(r, withToken("broken")).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.Header.Set("Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, serve(r, bad).Code)
}

func TestActorFromEmpty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ActorFrom(c))
}

func TestMethodOverride(t *testing.T) {
	var seen string
	h := MethodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Method
		_ = r.ParseForm()
		_, _ = w.Write([]byte(r.PostForm.Get("name")))
	}))

	form := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	w := serve(h, form("_method=delete&name=x"))
	assert.Equal(t, http.MethodDelete, seen)
	assert.Equal(t, "x", w.Body.String(), "form stays readable downstream")

	serve(h, form("_method=PUT"))
	assert.Equal(t, http.MethodPut, seen)

	// 只允许改写成 PUT/PATCH/DELETE
	serve(h, form("_method=GET"))
	assert.Equal(t, http.MethodPost, seen)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(MethodHeader, "PATCH")
	serve(h, req)
	assert.Equal(t, http.MethodPatch, seen)

	// GET 不改写
	serve(h, httptest.NewRequest(http.MethodGet, "/?_method=DELETE", nil))
	assert.Equal(t, http.MethodGet, seen)
}
