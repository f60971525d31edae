// Package serdes provides the serialization collaborators of the dispatch core:
// response serializers, request body deserializers and scalar parameter
// converters, together with the codecs backing them.
package serdes

import (
	"context"

	"github.com/iaconlabs/warpcore/action"
)

// Serializer encodes result content for a negotiated media type.
type Serializer interface {
	// MediaTypes lists the media types value of type tag can be encoded to,
	// in order of preference.
	MediaTypes(ctx context.Context, tag action.TypeTag) ([]string, error)
	// Serialize encodes value as mediaType.
	Serialize(ctx context.Context, value any, tag action.TypeTag, mediaType string, options map[string]string) (action.Payload, error)
}

// Deserializer decodes a request body into a value of type tag.
type Deserializer interface {
	Deserialize(ctx context.Context, body action.Payload, tag action.TypeTag, mediaType string) (any, error)
}

// ParameterConverter converts a raw query or path value into type tag.
type ParameterConverter interface {
	Convert(value string, tag action.TypeTag) (any, error)
}
