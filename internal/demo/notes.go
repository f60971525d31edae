// Package demo holds a sample notes controller served by the warpcore CLI.
package demo

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/binder"
)

var notFound = action.NotFound(action.Typed(ErrNoteNotFound.Error(), action.TypeOf[string]()))

// Notes serves a Store under a base path.
type Notes struct {
	store *Store
	base  string
}

// NewNotes creates a controller for store mounted at base, e.g. "/api".
func NewNotes(store *Store, base string) *Notes {
	return &Notes{store: store, base: base}
}

// BasePath implements binder.BasePather.
func (n *Notes) BasePath() string { return n.base }

// Methods implements binder.Controller.
func (n *Notes) Methods() []binder.Method {
	return []binder.Method{
		{
			Name: "List",
			Verb: http.MethodGet,
			URI:  "/notes",
			Params: []binder.Param{
				binder.QueryParam[*string]("tag", ""),
				binder.QueryParam[*int]("limit", ""),
			},
			Returns: binder.ReturnsValue[[]Note](),
			Call:    binder.Handler2(n.list),
		},
		{
			Name:    "Count",
			Verb:    http.MethodGet,
			URI:     "/notes/count",
			Returns: binder.ReturnsFuture[int](),
			Call:    binder.Handler0(n.count),
		},
		{
			Name:    "Get",
			Verb:    http.MethodGet,
			URI:     "/notes/{id}",
			Params:  []binder.Param{binder.PathParam[uuid.UUID]("id", "")},
			Returns: binder.ReturnsResult[Note](),
			Call:    binder.Handler1(n.get),
		},
		{
			Name:    "Create",
			Verb:    http.MethodPost,
			URI:     "/notes",
			Params:  []binder.Param{binder.BodyParam[NoteInput]("input")},
			Returns: binder.ReturnsResult[Note](),
			Call:    binder.Handler1(n.create),
		},
		{
			Name: "Replace",
			Verb: http.MethodPut,
			URI:  "/notes/{id}",
			Params: []binder.Param{
				binder.PathParam[uuid.UUID]("id", ""),
				binder.BodyParam[NoteInput]("input"),
			},
			Returns: binder.ReturnsFutureResult[Note](),
			Call:    binder.Handler2(n.replace),
		},
		{
			Name:    "Delete",
			Verb:    http.MethodDelete,
			URI:     "/notes/{id}",
			Params:  []binder.Param{binder.PathParam[uuid.UUID]("id", "")},
			Returns: binder.ReturnsResult[action.NoContent](),
			Call:    binder.Handler1(n.delete),
		},
		{
			Name:    "Echo",
			Verb:    http.MethodPost,
			URI:     "/notes/echo",
			Params:  []binder.Param{binder.BodyParam[action.Payload]("raw")},
			Returns: binder.ReturnsValue[action.Payload](),
			Call:    binder.Handler1(n.echo),
		},
		{
			Name:    "Inspect",
			Verb:    http.MethodGet,
			URI:     "/notes/debug/request",
			Params:  []binder.Param{binder.RequestParam("req")},
			Returns: binder.ReturnsValue[map[string]string](),
			Call:    binder.Handler1(n.inspect),
		},
	}
}

func (n *Notes) list(_ context.Context, tag *string, limit *int) ([]Note, error) {
	var t string
	if tag != nil {
		t = *tag
	}
	l := 0
	if limit != nil {
		l = *limit
	}
	return n.store.List(t, l), nil
}

func (n *Notes) count(context.Context) (*action.Future, error) {
	return action.Async(func() (any, error) {
		return len(n.store.List("", 0)), nil
	}), nil
}

func (n *Notes) get(_ context.Context, id uuid.UUID) (action.Result, error) {
	note, err := n.store.Get(id)
	if errors.Is(err, ErrNoteNotFound) {
		return notFound, nil
	}
	if err != nil {
		return action.Result{}, err
	}
	return action.OK(note), nil
}

func (n *Notes) create(_ context.Context, in NoteInput) (action.Result, error) {
	note := n.store.Create(in)
	return action.NewResult(http.StatusCreated).
		WithHeader("Location", n.base+"/notes/"+note.ID.String()).
		WithContent(action.Of(note)), nil
}

func (n *Notes) replace(_ context.Context, id uuid.UUID, in NoteInput) (*action.Future, error) {
	return action.Async(func() (any, error) {
		note, err := n.store.Replace(id, in)
		if errors.Is(err, ErrNoteNotFound) {
			return notFound, nil
		}
		if err != nil {
			return nil, err
		}
		return action.OK(note), nil
	}), nil
}

func (n *Notes) delete(_ context.Context, id uuid.UUID) (action.Result, error) {
	if err := n.store.Delete(id); err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return notFound, nil
		}
		return action.Result{}, err
	}
	return action.Empty(http.StatusNoContent), nil
}

func (n *Notes) echo(_ context.Context, raw action.Payload) (action.Payload, error) {
	return raw, nil
}

func (n *Notes) inspect(_ context.Context, req *action.Request) (map[string]string, error) {
	return map[string]string{
		"method":     req.Method,
		"uri":        req.URI,
		"user_agent": req.Header("User-Agent"),
	}, nil
}
