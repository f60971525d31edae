// Package negotiate implements HTTP content negotiation: parsing Accept and
// Content-Type headers and choosing the best supported media type.
package negotiate

import (
	"mime"
	"strings"

	"github.com/munnerz/goautoneg"
)

const (
	// AnyMediaType is the Accept value assumed when a request sends none.
	AnyMediaType = "*/*"
	// TextPlain is the plain-text media type.
	TextPlain = "text/plain"
	// JSON is the JSON media type.
	JSON = "application/json"
	// YAML is the YAML media type.
	YAML = "application/yaml"
)

// ContentType is a resolved media type plus codec options.
type ContentType struct {
	MediaType string
	Options   map[string]string
}

// PlainTextUTF8 is the content type of recovered failure responses.
var PlainTextUTF8 = ContentType{MediaType: TextPlain, Options: map[string]string{"charset": "utf-8"}}

// Parse parses a Content-Type header value into a ContentType.
func Parse(header string) (ContentType, error) {
	mediaType, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ContentType{}, err
	}
	return ContentType{MediaType: mediaType, Options: params}, nil
}

// String renders the canonical header form, e.g. "text/plain; charset=utf-8".
func (c ContentType) String() string {
	if len(c.Options) == 0 {
		return c.MediaType
	}
	if s := mime.FormatMediaType(c.MediaType, c.Options); s != "" {
		return s
	}
	return c.MediaType
}

// BestMatch returns the supported media type that best satisfies accept, or ""
// when none is acceptable. Quality decides first, then specificity; on a tie
// the type listed first in supported wins. A type whose most specific
// matching range has q=0 is never chosen.
func BestMatch(supported []string, accept string) string {
	accept = strings.ToLower(strings.TrimSpace(accept))
	if accept == "" {
		accept = AnyMediaType
	}
	clauses := goautoneg.ParseAccept(accept)

	alternatives := make([]string, 0, len(supported))
	for _, s := range supported {
		if !strings.Contains(s, "/") || refused(strings.ToLower(s), clauses) {
			continue
		}
		alternatives = append(alternatives, s)
	}
	if len(alternatives) == 0 {
		return ""
	}
	return goautoneg.Negotiate(accept, alternatives)
}

// refused reports whether the most specific range matching mediaType carries
// a zero quality.
func refused(mediaType string, clauses []goautoneg.Accept) bool {
	typ, sub, _ := strings.Cut(mediaType, "/")
	best, q := -1, 1.0
	for _, c := range clauses {
		fitness := -1
		switch {
		case c.Type == typ && c.SubType == sub:
			fitness = 2
		case c.Type == typ && c.SubType == "*":
			fitness = 1
		case c.Type == "*" && c.SubType == "*":
			fitness = 0
		}
		if fitness > best {
			best, q = fitness, c.Q
		}
	}
	return best >= 0 && q <= 0
}
