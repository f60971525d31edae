package serdes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/negotiate"
	"github.com/iaconlabs/warpcore/serdes"
)

type note struct {
	Title string `json:"title" yaml:"title" validate:"required"`
	Email string `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
}

func TestCodecs_MediaTypes(t *testing.T) {
	cs := serdes.NewCodecs()
	ctx := context.Background()

	types, err := cs.MediaTypes(ctx, action.TypeOf[string]())
	require.NoError(t, err)
	assert.Equal(t, []string{negotiate.TextPlain, negotiate.JSON, negotiate.YAML}, types)

	types, err = cs.MediaTypes(ctx, action.TypeOf[note]())
	require.NoError(t, err)
	assert.Equal(t, []string{negotiate.JSON, negotiate.YAML}, types)

	types, err = cs.MediaTypes(ctx, action.TypeOf[action.Payload]())
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestCodecs_Serialize(t *testing.T) {
	cs := serdes.NewCodecs()
	ctx := context.Background()
	tag := action.TypeOf[note]()

	p, err := cs.Serialize(ctx, note{Title: "hi"}, tag, negotiate.JSON, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"hi"}`, string(p))

	p, err = cs.Serialize(ctx, note{Title: "hi"}, tag, negotiate.YAML, nil)
	require.NoError(t, err)
	assert.Equal(t, "title: hi\n", string(p))

	p, err = cs.Serialize(ctx, "plain", action.TypeOf[string](), negotiate.TextPlain, nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(p))

	_, err = cs.Serialize(ctx, "x", action.TypeOf[string](), "image/png", nil)
	assert.ErrorIs(t, err, serdes.ErrUnsupportedMediaType)
}

func TestTextCodec_Charset(t *testing.T) {
	b, err := serdes.TextCodec{}.Encode("café", map[string]string{"charset": "iso-8859-1"})
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xe9}, b)

	_, err = serdes.TextCodec{}.Encode("x", map[string]string{"charset": "klingon"})
	assert.Error(t, err)
}

func TestCodecs_Deserialize(t *testing.T) {
	cs := serdes.NewCodecs()
	ctx := context.Background()
	tag := action.TypeOf[note]()

	v, err := cs.Deserialize(ctx, action.Payload(`{"title":"a"}`), tag, "application/json; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, note{Title: "a"}, v)

	v, err = cs.Deserialize(ctx, action.Payload("title: b\n"), tag, negotiate.YAML)
	require.NoError(t, err)
	assert.Equal(t, note{Title: "b"}, v)

	// Sin Content-Type se detecta el tipo a partir del cuerpo.
	v, err = cs.Deserialize(ctx, action.Payload(`{"title":"c"}`), tag, "")
	require.NoError(t, err)
	assert.Equal(t, note{Title: "c"}, v)

	v, err = cs.Deserialize(ctx, action.Payload("just text"), action.TypeOf[string](), "")
	require.NoError(t, err)
	assert.Equal(t, "just text", v)

	raw := action.Payload("raw")
	v, err = cs.Deserialize(ctx, raw, action.TypeOf[action.Payload](), "")
	require.NoError(t, err)
	assert.Equal(t, raw, v)

	ptr, err := cs.Deserialize(ctx, action.Payload(`{"title":"p"}`), action.TypeOf[*note](), negotiate.JSON)
	require.NoError(t, err)
	assert.Equal(t, &note{Title: "p"}, ptr)
}

func TestCodecs_DeserializeValidation(t *testing.T) {
	cs := serdes.NewCodecs()

	_, err := cs.Deserialize(context.Background(), action.Payload(`{"email":"nope"}`), action.TypeOf[note](), negotiate.JSON)

	var vErr *serdes.ValidationError
	require.ErrorAs(t, err, &vErr)
	rules := map[string]string{}
	for _, f := range vErr.Fields {
		rules[f.Field] = f.Rule
	}
	assert.Equal(t, map[string]string{"title": "required", "email": "email"}, rules)

	noValidation := serdes.NewCodecs(serdes.WithValidator(nil))
	_, err = noValidation.Deserialize(context.Background(), action.Payload(`{}`), action.TypeOf[note](), negotiate.JSON)
	assert.NoError(t, err)
}

func TestCodecs_DeserializeErrors(t *testing.T) {
	cs := serdes.NewCodecs()
	ctx := context.Background()

	_, err := cs.Deserialize(ctx, action.Payload(`{`), action.TypeOf[note](), negotiate.JSON)
	assert.Error(t, err)

	_, err = cs.Deserialize(ctx, action.Payload(`x`), action.TypeOf[note](), "application/xml")
	assert.ErrorIs(t, err, serdes.ErrUnsupportedMediaType)
}

type upperCodec struct{ serdes.TextCodec }

func (upperCodec) Encode(v any, _ map[string]string) ([]byte, error) {
	return []byte("UPPER"), nil
}

func TestWithCodec_Replaces(t *testing.T) {
	cs := serdes.NewCodecs(serdes.WithCodec(upperCodec{}))
	p, err := cs.Serialize(context.Background(), "x", action.TypeOf[string](), negotiate.TextPlain, nil)
	require.NoError(t, err)
	assert.Equal(t, "UPPER", string(p))
}
