package serdes

import (
	"context"
	"fmt"
	"mime"
	"reflect"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/negotiate"
)

var (
	_ Serializer   = (*Codecs)(nil)
	_ Deserializer = (*Codecs)(nil)
)

// Codecs is a Serializer and Deserializer dispatching to a list of codecs.
// Codec order is the order of preference reported by MediaTypes.
type Codecs struct {
	codecs    []Codec
	validator *validator.Validate
}

// Option configures Codecs.
type Option func(*Codecs)

// WithCodec appends a codec after the defaults. A codec for an already
// handled media type replaces the existing one in place.
func WithCodec(c Codec) Option {
	return func(cs *Codecs) {
		for i, existing := range cs.codecs {
			if strings.EqualFold(existing.MediaType(), c.MediaType()) {
				cs.codecs[i] = c
				return
			}
		}
		cs.codecs = append(cs.codecs, c)
	}
}

// WithValidator sets the validator run on decoded bodies. A nil validator
// disables validation.
func WithValidator(v *validator.Validate) Option {
	return func(cs *Codecs) {
		cs.validator = v
	}
}

// NewCodecs creates Codecs with the text, JSON and YAML codecs.
func NewCodecs(opts ...Option) *Codecs {
	cs := &Codecs{
		codecs:    []Codec{TextCodec{}, JSONCodec{}, YAMLCodec{}},
		validator: defaultValidator,
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

func (cs *Codecs) codecFor(mediaType string) (Codec, error) {
	for _, c := range cs.codecs {
		if strings.EqualFold(c.MediaType(), mediaType) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mediaType)
}

// MediaTypes implements Serializer.
func (cs *Codecs) MediaTypes(_ context.Context, tag action.TypeTag) ([]string, error) {
	var types []string
	for _, c := range cs.codecs {
		if c.Supports(tag) {
			types = append(types, c.MediaType())
		}
	}
	return types, nil
}

// Serialize implements Serializer.
func (cs *Codecs) Serialize(_ context.Context, value any, _ action.TypeTag, mediaType string, options map[string]string) (action.Payload, error) {
	c, err := cs.codecFor(mediaType)
	if err != nil {
		return nil, err
	}
	b, err := c.Encode(value, options)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", mediaType, err)
	}
	return action.Payload(b), nil
}

// Deserialize implements Deserializer. An empty mediaType is sniffed from the
// body; JSON is assumed when the sniffed type has no codec for tag.
func (cs *Codecs) Deserialize(_ context.Context, body action.Payload, tag action.TypeTag, mediaType string) (any, error) {
	t := tag.Type()
	if t == nil {
		return nil, fmt.Errorf("%w: no target type", ErrUnsupportedType)
	}
	if tag.IsPayload() {
		return body, nil
	}

	c, err := cs.decoderFor(body, tag, mediaType)
	if err != nil {
		return nil, err
	}

	target := reflect.New(t)
	if err := c.Decode(body, target.Interface()); err != nil {
		return nil, fmt.Errorf("decode %s body into %s: %w", c.MediaType(), tag, err)
	}
	value := target.Elem().Interface()

	if cs.validator != nil {
		if err := validateValue(cs.validator, value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (cs *Codecs) decoderFor(body action.Payload, tag action.TypeTag, mediaType string) (Codec, error) {
	if mediaType != "" {
		if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
			mediaType = mt
		}
		return cs.codecFor(mediaType)
	}

	detected, _, _ := mime.ParseMediaType(mimetype.Detect(body).String())
	if c, err := cs.codecFor(detected); err == nil && c.Supports(tag) {
		return c, nil
	}
	return cs.codecFor(negotiate.JSON)
}
