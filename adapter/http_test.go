package adapter_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/adapter"
	"github.com/iaconlabs/warpcore/pipeline"
	"github.com/iaconlabs/warpcore/router"
)

// tableRouter resolves requests against an adapter.Table by exact template.
type tableRouter struct{ table *adapter.Table }

func (r tableRouter) ActionFor(_ context.Context, method string, path []string) (router.RouterAction, bool, error) {
	ra, ok := r.table.Lookup(method, adapter.RequestPath(path))
	return ra, ok, nil
}

func newPipeline(t *testing.T, actions ...router.RouterAction) *pipeline.Pipeline {
	t.Helper()
	table := adapter.NewTable()
	require.NoError(t, table.Put(actions...))
	return pipeline.New(tableRouter{table: table})
}

func TestHandler_ServesPipelineResponse(t *testing.T) {
	echo := router.RouterAction{
		Route: router.Route{Method: http.MethodPost, Pattern: []string{"echo"}},
		Action: action.New(action.NamedKey("echo"), func(c action.Context) (action.Result, error) {
			body, err := c.Body()
			if err != nil {
				return action.Result{}, err
			}
			q, _ := c.QueryParameter("suffix", action.TypeOf[*string]())
			out := string(body)
			if s, ok := q.(*string); ok && s != nil {
				out += *s
			}
			return action.OK(out).WithHeader("X-Remote", c.Request().RemoteAddr), nil
		}, action.TypeOf[string]()),
	}
	h := adapter.NewHandler(newPipeline(t, echo))

	req := httptest.NewRequest(http.MethodPost, "/echo?suffix=!", strings.NewReader("hola"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hola!", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "5", rec.Header().Get("Content-Length"))
	assert.Equal(t, req.RemoteAddr, rec.Header().Get("X-Remote"))
}

func TestHandler_NotFound(t *testing.T) {
	h := adapter.NewHandler(newPipeline(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Resource not found", rec.Body.String())
}

func TestHandler_MaxBodyBytes(t *testing.T) {
	read := router.RouterAction{
		Route: router.Route{Method: http.MethodPut, Pattern: []string{"upload"}},
		Action: action.New(action.NamedKey("upload"), func(c action.Context) (action.Result, error) {
			if _, err := c.Body(); err != nil {
				return action.Result{}, err
			}
			return action.Empty(http.StatusNoContent), nil
		}, action.TypeOf[action.NoContent]()),
	}
	h := adapter.NewHandler(newPipeline(t, read), adapter.WithMaxBodyBytes(4))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/upload", strings.NewReader("too large")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "request body too large")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/upload", strings.NewReader("ok")))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHTTPEvent_Respond(t *testing.T) {
	rec := httptest.NewRecorder()
	ev := adapter.NewEvent(rec, httptest.NewRequest(http.MethodGet, "/a/b?x=1", nil))

	assert.Equal(t, []string{"a", "b"}, ev.Request().Path)
	assert.Equal(t, "/a/b?x=1", ev.Request().URI)
	assert.Nil(t, ev.Request().Body)

	headers := http.Header{}
	headers.Add("X-Multi", "1")
	headers.Add("X-Multi", "2")
	require.NoError(t, ev.Respond(0, headers, action.Payload("x")))
	require.ErrorIs(t, ev.Respond(http.StatusTeapot, nil, nil), adapter.ErrResponded)

	res := rec.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	// Un estado sin asignar se envía como 200.
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []string{"1", "2"}, res.Header.Values("X-Multi"))
	assert.Equal(t, "x", string(body))
}
