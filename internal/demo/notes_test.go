package demo_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpcore"
	"github.com/iaconlabs/warpcore/adapter/chiadapter"
	"github.com/iaconlabs/warpcore/internal/demo"
)

func newServer(t *testing.T) (*warpcore.Warpcore, *demo.Store) {
	t.Helper()
	store := demo.NewStore()
	wc := warpcore.New(chiadapter.New())
	require.NoError(t, wc.Register(demo.NewNotes(store, "/api")))
	return wc, store
}

func do(t *testing.T, h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNotes_RegistersEveryMethod(t *testing.T) {
	wc, _ := newServer(t)
	routes := make([]string, 0)
	for _, ra := range wc.Routes() {
		routes = append(routes, ra.Route.String())
	}
	assert.ElementsMatch(t, []string{
		"GET /api/notes",
		"GET /api/notes/count",
		"GET /api/notes/.*",
		"POST /api/notes",
		"PUT /api/notes/.*",
		"DELETE /api/notes/.*",
		"POST /api/notes/echo",
		"GET /api/notes/debug/request",
	}, routes)
}

func TestNotes_Lifecycle(t *testing.T) {
	wc, _ := newServer(t)

	// Crear devuelve 201 con Location y el cuerpo JSON.
	rec := do(t, wc, http.MethodPost, "/api/notes", `{"title":"first","tags":["go"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var created demo.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "first", created.Title)
	assert.Equal(t, "/api/notes/"+created.ID.String(), rec.Header().Get("Location"))

	rec = do(t, wc, http.MethodGet, "/api/notes/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got demo.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)

	rec = do(t, wc, http.MethodPut, "/api/notes/"+created.ID.String(), `{"title":"second"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "second", got.Title)
	assert.Empty(t, got.Tags)

	rec = do(t, wc, http.MethodGet, "/api/notes/count", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", strings.TrimSpace(rec.Body.String()))

	rec = do(t, wc, http.MethodDelete, "/api/notes/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, wc, http.MethodDelete, "/api/notes/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotes_NotFoundIsPlainText(t *testing.T) {
	wc, _ := newServer(t)

	rec := do(t, wc, http.MethodGet, "/api/notes/"+uuid.NewString(), "", "Accept", "text/plain")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "note not found", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestNotes_InvalidPathParameter(t *testing.T) {
	wc, _ := newServer(t)

	rec := do(t, wc, http.MethodGet, "/api/notes/not-a-uuid", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Something wrong happened\n"))
	assert.Contains(t, rec.Body.String(), "not-a-uuid")
}

func TestNotes_ValidationFailure(t *testing.T) {
	wc, store := newServer(t)

	rec := do(t, wc, http.MethodPost, "/api/notes", `{"body":"no title"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "title: This field is required")
	assert.Empty(t, store.List("", 0))
}

func TestNotes_ListFiltersAndLimits(t *testing.T) {
	wc, store := newServer(t)
	store.Create(demo.NoteInput{Title: "a", Tags: []string{"go"}})
	store.Create(demo.NoteInput{Title: "b", Tags: []string{"go"}})
	store.Create(demo.NoteInput{Title: "c", Tags: []string{"rust"}})

	var notes []demo.Note
	rec := do(t, wc, http.MethodGet, "/api/notes?tag=go", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	assert.Len(t, notes, 2)

	rec = do(t, wc, http.MethodGet, "/api/notes?limit=1", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	assert.Len(t, notes, 1)

	rec = do(t, wc, http.MethodGet, "/api/notes?limit=many", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNotes_YAMLNegotiation(t *testing.T) {
	wc, store := newServer(t)
	n := store.Create(demo.NoteInput{Title: "yaml"})

	rec := do(t, wc, http.MethodGet, "/api/notes/"+n.ID.String(), "", "Accept", "application/yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "title: yaml")
}

func TestNotes_EchoAndInspect(t *testing.T) {
	wc, _ := newServer(t)

	rec := do(t, wc, http.MethodPost, "/api/notes/echo", `{"raw":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"raw":true}`, rec.Body.String())

	rec = do(t, wc, http.MethodGet, "/api/notes/debug/request?x=1", "", "User-Agent", "demo-test")
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, map[string]string{
		"method":     http.MethodGet,
		"uri":        "/api/notes/debug/request?x=1",
		"user_agent": "demo-test",
	}, got)
}
