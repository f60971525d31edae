package ginadapter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/adapter"
	"github.com/iaconlabs/warpcore/adapter/ginadapter"
	"github.com/iaconlabs/warpcore/pipeline"
	"github.com/iaconlabs/warpcore/router"
)

type tableRouter struct{ table *adapter.Table }

func (r tableRouter) ActionFor(_ context.Context, method string, path []string) (router.RouterAction, bool, error) {
	ra, ok := r.table.Lookup(method, adapter.RequestPath(path))
	return ra, ok, nil
}

func newCore(t *testing.T) http.Handler {
	t.Helper()
	table := adapter.NewTable()
	require.NoError(t, table.Put(
		router.RouterAction{
			Route: router.Route{Method: http.MethodGet, Pattern: []string{"core"}},
			Action: action.New(action.NamedKey("core"), func(action.Context) (action.Result, error) {
				return action.OK("from core"), nil
			}, action.TypeOf[string]()),
		},
		router.RouterAction{
			Route: router.Route{Method: http.MethodDelete, Pattern: []string{"core"}},
			Action: action.New(action.NamedKey("delete"), func(action.Context) (action.Result, error) {
				return action.Empty(http.StatusNoContent), nil
			}, action.TypeOf[action.NoContent]()),
		},
	))
	return adapter.NewHandler(pipeline.New(tableRouter{table: table}))
}

func TestMount_GinRoutesFirst(t *testing.T) {
	e := ginadapter.New(newCore(t))
	e.GET("/native", func(c *gin.Context) { c.String(http.StatusOK, "from gin") })

	tests := []struct {
		method, path string
		status       int
		body         string
	}{
		{http.MethodGet, "/native", http.StatusOK, "from gin"},
		{http.MethodGet, "/core", http.StatusOK, "from core"},
		{http.MethodDelete, "/core", http.StatusNoContent, ""},
		{http.MethodGet, "/missing", http.StatusNotFound, "Resource not found"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, rec.Code, tt.path)
		assert.Equal(t, tt.body, rec.Body.String(), tt.path)
	}
}

func TestFromHTTP(t *testing.T) {
	var order []string
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "mw")
			if r.Header.Get("X-Block") != "" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	e := ginadapter.New(newCore(t), ginadapter.FromHTTP(mw))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/core", nil))
	assert.Equal(t, "from core", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/core", nil)
	req.Header.Set("X-Block", "1")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Body.String())

	assert.Equal(t, []string{"mw", "mw"}, order)
}
