package action

import "reflect"

// TypeTag describes the Go type of a piece of content. The zero TypeTag
// carries no type.
type TypeTag struct {
	t reflect.Type
}

// NoContent is the marker type for handlers that produce no value. Content
// tagged with it is always discarded.
type NoContent struct{}

var (
	// Top is the unconstrained top type (any). It is never stamped onto content.
	Top = TypeOf[any]()

	tagNoContent = TypeOf[NoContent]()
	tagPayload   = TypeOf[Payload]()
	tagRequest   = TypeOf[*Request]()
	tagString    = TypeOf[string]()
)

// TypeOf returns the TypeTag of T.
func TypeOf[T any]() TypeTag {
	return TypeTag{t: reflect.TypeFor[T]()}
}

// TagOf returns the TypeTag of the dynamic type of v. A nil v yields Top.
func TagOf(v any) TypeTag {
	if v == nil {
		return Top
	}
	return TypeTag{t: reflect.TypeOf(v)}
}

// TagFor wraps a reflect.Type.
func TagFor(t reflect.Type) TypeTag {
	return TypeTag{t: t}
}

// Type returns the underlying reflect.Type, nil for the zero TypeTag.
func (t TypeTag) Type() reflect.Type { return t.t }

// IsZero reports whether the tag carries no type.
func (t TypeTag) IsZero() bool { return t.t == nil }

// IsTop reports whether the tag is the unconstrained top type.
func (t TypeTag) IsTop() bool { return t == Top }

// IsNoContent reports whether the tag is the NoContent marker.
func (t TypeTag) IsNoContent() bool { return t == tagNoContent }

// IsPayload reports whether the tag is the raw Payload type.
func (t TypeTag) IsPayload() bool { return t == tagPayload }

// IsRequest reports whether the tag is the raw request type.
func (t TypeTag) IsRequest() bool { return t == tagRequest }

// IsString reports whether the tag is the string type.
func (t TypeTag) IsString() bool { return t == tagString }

// String returns the Go name of the type.
func (t TypeTag) String() string {
	if t.t == nil {
		return "<none>"
	}
	return t.t.String()
}
