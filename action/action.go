// Package action defines the immutable values threaded through the dispatch
// pipeline: action identities, results, typed content and the per-request
// context handed to every action function.
package action

// Function is the asynchronous unit of work bound to a route. It receives the
// per-request Context and produces a Result or an error.
type Function func(c Context) (Result, error)

// Action pairs a handler Function with its identity.
type Action struct {
	// Key identifies the bound handler.
	Key ActionKey
	// Function executes the handler.
	Function Function
	// ResultType is the content type inferred when the action was bound.
	ResultType TypeTag
}

// New creates an Action from its parts.
func New(key ActionKey, fn Function, resultType TypeTag) Action {
	return Action{Key: key, Function: fn, ResultType: resultType}
}
