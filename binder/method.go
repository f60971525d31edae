package binder

import (
	"context"

	"github.com/iaconlabs/warpcore/action"
)

// Controller is a set of handler methods registered through an explicit
// table. Every Method returned by Methods carries a route.
type Controller interface {
	Methods() []Method
}

// BasePather is implemented by controllers whose routes share a path prefix.
type BasePather interface {
	BasePath() string
}

// CallFunc invokes a handler with its extracted arguments, in declaration order.
type CallFunc func(ctx context.Context, args []any) (any, error)

// Method describes one routed handler of a controller.
type Method struct {
	// Name is the handler name used in its ActionKey.
	Name string
	// Verb is the HTTP method.
	Verb string
	// URI is the path template relative to the controller base path. Segments
	// of the form {name} capture path parameters.
	URI string
	// Params describes the handler parameters in declaration order.
	Params []Param
	// Returns describes the declared return shape.
	Returns Returns
	// Call invokes the handler.
	Call CallFunc
}

// Marker selects where a parameter value comes from.
type Marker int

const (
	// Unmarked parameters are only legal for the raw request type.
	Unmarked Marker = iota
	// QueryMarker reads a query parameter.
	QueryMarker
	// PathMarker reads a captured path segment.
	PathMarker
	// BodyMarker reads the request body.
	BodyMarker
)

// Param describes one handler parameter.
type Param struct {
	// Name is the declared parameter name.
	Name string
	// Type is the declared parameter type.
	Type action.TypeTag
	// Marker selects the parameter source.
	Marker Marker
	// Key is the query or path name; empty means Name.
	Key string
}

func (p Param) key() string {
	if p.Key == "" {
		return p.Name
	}
	return p.Key
}

// RequestParam declares a parameter receiving the raw *action.Request.
func RequestParam(name string) Param {
	return Param{Name: name, Type: action.TypeOf[*action.Request]()}
}

// QueryParam declares a query parameter of type T. An empty key reads the
// query value named after the parameter.
func QueryParam[T any](name, key string) Param {
	return Param{Name: name, Type: action.TypeOf[T](), Marker: QueryMarker, Key: key}
}

// PathParam declares a path parameter of type T. An empty key captures the
// {name} segment named after the parameter.
func PathParam[T any](name, key string) Param {
	return Param{Name: name, Type: action.TypeOf[T](), Marker: PathMarker, Key: key}
}

// BodyParam declares a parameter decoded from the request body. Declaring
// action.Payload receives the raw body.
func BodyParam[T any](name string) Param {
	return Param{Name: name, Type: action.TypeOf[T](), Marker: BodyMarker}
}

// Shape is the declared return shape of a handler.
type Shape int

const (
	// ShapeValue handlers return a plain value X synchronously.
	ShapeValue Shape = iota
	// ShapeResult handlers return an action.Result synchronously.
	ShapeResult
	// ShapeFuture handlers return a *action.Future resolving to X.
	ShapeFuture
	// ShapeFutureResult handlers return a *action.Future resolving to an action.Result.
	ShapeFutureResult
)

// Returns is a declared return shape plus its content type X.
type Returns struct {
	Shape Shape
	Type  action.TypeTag
}

// ReturnsValue declares a synchronous X return.
func ReturnsValue[T any]() Returns { return Returns{Shape: ShapeValue, Type: action.TypeOf[T]()} }

// ReturnsResult declares a synchronous Result<X> return.
func ReturnsResult[T any]() Returns { return Returns{Shape: ShapeResult, Type: action.TypeOf[T]()} }

// ReturnsFuture declares a future<X> return.
func ReturnsFuture[T any]() Returns { return Returns{Shape: ShapeFuture, Type: action.TypeOf[T]()} }

// ReturnsFutureResult declares a future<Result<X>> return.
func ReturnsFutureResult[T any]() Returns {
	return Returns{Shape: ShapeFutureResult, Type: action.TypeOf[T]()}
}
