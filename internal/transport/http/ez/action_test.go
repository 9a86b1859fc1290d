package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

type echoOut struct {
	Hello string `json:"hello"`
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	e := New(r.Group("/v1"))
	RegisterAction(e, Action[echoIn, echoOut]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *echoIn) (echoOut, error) {
			switch in.Name {
			case "nobody":
				return echoOut{}, NotFound("no such person")
			case "boom":
				return echoOut{}, errors.New("db down")
			}
			return echoOut{Hello: in.Name}, nil
		},
	})
	RegisterAction(e, Action[struct{}, string]{
		Method: http.MethodGet,
		Path:   "/private",
		Binder: BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (string, error) {
			return "secret", nil
		},
	})
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAction(t *testing.T) {
	r := newEngine()

	w := do(r, http.MethodPost, "/v1/echo", `{"name":"ann"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Code int     `json:"code"`
		Data echoOut `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "ann", body.Data.Hello)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/v1/echo", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/v1/echo", `{"name":"nobody"}`).Code)

	w = do(r, http.MethodPost, "/v1/echo", `{"name":"boom"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/v1/private", "").Code)
}

func TestAErr(t *testing.T) {
	inner := errors.New("inner")
	err := Internal("wrapped", inner)
	assert.Equal(t, "wrapped", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "action error", (&AErr{}).Error())
}
