package negotiate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpcore/negotiate"
)

func TestBestMatch(t *testing.T) {
	supported := []string{negotiate.JSON, negotiate.YAML, negotiate.TextPlain}

	tests := []struct {
		name   string
		accept string
		want   string
	}{
		{"wildcard prefers first supported", "*/*", negotiate.JSON},
		{"empty behaves as wildcard", "", negotiate.JSON},
		{"exact type", "application/yaml", negotiate.YAML},
		{"subtype wildcard", "text/*", negotiate.TextPlain},
		{"quality ordering", "application/json;q=0.2, application/yaml;q=0.9", negotiate.YAML},
		{"specific beats wildcard", "*/*;q=0.1, text/plain", negotiate.TextPlain},
		{"q zero excludes", "application/json;q=0, */*;q=0.5", negotiate.YAML},
		{"nothing acceptable", "image/png", ""},
		{"bare star", "*", negotiate.JSON},
		{"case insensitive", "Application/YAML", negotiate.YAML},
		{"specific range overrides refused wildcard", "*/*;q=0, text/plain;q=0.3", negotiate.TextPlain},
		{"refused subtype wildcard", "application/*;q=0, */*", negotiate.TextPlain},
		{"everything refused", "*/*;q=0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, negotiate.BestMatch(supported, tt.accept))
		})
	}
}

func TestBestMatch_NoSupportedTypes(t *testing.T) {
	assert.Equal(t, "", negotiate.BestMatch(nil, "*/*"))
}

func TestParseAndString(t *testing.T) {
	ct, err := negotiate.Parse("Text/Plain; charset=UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct.MediaType)
	assert.Equal(t, "UTF-8", ct.Options["charset"])

	assert.Equal(t, "text/plain; charset=utf-8", negotiate.PlainTextUTF8.String())
	assert.Equal(t, "application/json", negotiate.ContentType{MediaType: negotiate.JSON}.String())

	_, err = negotiate.Parse("not a media type/")
	assert.Error(t, err)
}
