package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/innledger/backend/internal/interfaces/http/dto"
	"github.com/innledger/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// envelope is dto.Response with a typed data field
type envelope[T any] struct {
	Success    bool            `json:"success"`
	Data       T               `json:"data"`
	Error      *dto.ErrorInfo  `json:"error"`
	Pagination *dto.Pagination `json:"pagination"`
}

// newTestEngine returns an engine with the middleware handlers rely on
func newTestEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestContext(), middleware.ErrorHandler())
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// errorCode returns the error code of an error envelope
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	env := decode[json.RawMessage](t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error, w.Body.String())
	return env.Error.Code
}
