package pipeline

import (
	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/negotiate"
)

// NotFound is the built-in fallback action run when no route matches.
var NotFound = action.New(action.NamedKey("not_found"), func(action.Context) (action.Result, error) {
	return action.NotFound("Resource not found").WithContentType(negotiate.TextPlain), nil
}, action.TypeOf[string]())
