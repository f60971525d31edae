package serdes

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/iaconlabs/warpcore/action"
)

var _ ParameterConverter = Converter{}

var (
	uuidType     = reflect.TypeFor[uuid.UUID]()
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
)

// Converter converts raw query and path values into scalar Go types: strings,
// booleans, integers, floats, uuid.UUID, time.Duration, time.Time (RFC 3339),
// encoding.TextUnmarshaler implementations and pointers to any of these.
type Converter struct{}

// Convert implements ParameterConverter. Failures are returned as
// *ConversionError.
func (c Converter) Convert(value string, tag action.TypeTag) (any, error) {
	t := tag.Type()
	if t == nil {
		return nil, &ConversionError{Value: value, Type: tag.String(), Err: ErrUnsupportedType}
	}
	v, err := c.convert(value, t)
	if err != nil {
		return nil, &ConversionError{Value: value, Type: tag.String(), Err: err}
	}
	return v.Interface(), nil
}

func (c Converter) convert(value string, t reflect.Type) (reflect.Value, error) {
	switch t {
	case uuidType:
		u, err := uuid.Parse(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(u), nil
	case durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	case timeType:
		ts, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(ts), nil
	}

	if t.Kind() == reflect.Pointer {
		inner, err := c.convert(value, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		return p, nil
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		p := reflect.New(t)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value)); err != nil {
			return reflect.Value{}, err
		}
		return p.Elem(), nil
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		out.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(f)
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return out, nil
}
