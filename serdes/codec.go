package serdes

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/negotiate"
)

// Codec encodes and decodes values for a single media type.
type Codec interface {
	// MediaType returns the media type handled by the codec.
	MediaType() string
	// Supports reports whether values of type tag can be encoded.
	Supports(tag action.TypeTag) bool
	// Encode encodes v using the given media type options.
	Encode(v any, options map[string]string) ([]byte, error)
	// Decode decodes data into target, which is a non-nil pointer.
	Decode(data []byte, target any) error
}

var (
	stringerType        = reflect.TypeFor[fmt.Stringer]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	errorType           = reflect.TypeFor[error]()
)

// TextCodec encodes strings and text-like values as text/plain. The "charset"
// option selects the output encoding; UTF-8 is the default.
type TextCodec struct{}

// MediaType implements Codec.
func (TextCodec) MediaType() string { return negotiate.TextPlain }

// Supports implements Codec.
func (TextCodec) Supports(tag action.TypeTag) bool {
	t := tag.Type()
	if t == nil {
		return false
	}
	return t.Kind() == reflect.String ||
		t.Implements(stringerType) ||
		t.Implements(textMarshalerType) ||
		t.Implements(errorType)
}

// Encode implements Codec.
func (TextCodec) Encode(v any, options map[string]string) ([]byte, error) {
	var s string
	switch x := v.(type) {
	case nil:
	case string:
		s = x
	case []byte:
		s = string(x)
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return nil, err
		}
		s = string(b)
	case error:
		s = x.Error()
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}

	charset := strings.ToLower(options["charset"])
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return []byte(s), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", charset, err)
	}
	out, err := enc.NewEncoder().String(s)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// Decode implements Codec.
func (TextCodec) Decode(data []byte, target any) error {
	switch t := target.(type) {
	case *string:
		*t = string(data)
		return nil
	case encoding.TextUnmarshaler:
		return t.UnmarshalText(data)
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.String {
		rv.Elem().SetString(string(data))
		return nil
	}
	return fmt.Errorf("%w: text into %T", ErrUnsupportedType, target)
}

// JSONCodec encodes values as application/json. The "indent" option, when
// set, is used as the indentation string.
type JSONCodec struct{}

// MediaType implements Codec.
func (JSONCodec) MediaType() string { return negotiate.JSON }

// Supports implements Codec.
func (JSONCodec) Supports(tag action.TypeTag) bool {
	return !tag.IsZero() && !tag.IsPayload()
}

// Encode implements Codec.
func (JSONCodec) Encode(v any, options map[string]string) ([]byte, error) {
	if indent, ok := options["indent"]; ok {
		return json.MarshalIndent(v, "", indent)
	}
	return json.Marshal(v)
}

// Decode implements Codec.
func (JSONCodec) Decode(data []byte, target any) error {
	return json.Unmarshal(data, target)
}

// YAMLCodec encodes values as application/yaml.
type YAMLCodec struct{}

// MediaType implements Codec.
func (YAMLCodec) MediaType() string { return negotiate.YAML }

// Supports implements Codec.
func (YAMLCodec) Supports(tag action.TypeTag) bool {
	return !tag.IsZero() && !tag.IsPayload()
}

// Encode implements Codec.
func (YAMLCodec) Encode(v any, _ map[string]string) ([]byte, error) {
	return yaml.Marshal(v)
}

// Decode implements Codec.
func (YAMLCodec) Decode(data []byte, target any) error {
	return yaml.Unmarshal(data, target)
}
