package adapter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/iaconlabs/warpcore/router"
)

// ErrUnsupportedPattern is returned for literal segments a matcher would read
// as syntax.
var ErrUnsupportedPattern = errors.New("unsupported route pattern")

// reservedRegex finds characters that chi and gorilla/mux treat as pattern
// syntax inside a literal segment.
var reservedRegex = regexp.MustCompile(`[{}*]`)

// PathTemplate renders a matcher pattern in the brace syntax shared by chi and
// gorilla/mux. The wildcard at index i becomes "{p<i>}" so templates never
// depend on the capture names chosen by controllers.
func PathTemplate(pattern []string) (string, error) {
	if len(pattern) == 0 {
		return "/", nil
	}
	var b strings.Builder
	for i, seg := range pattern {
		b.WriteByte('/')
		if seg == router.Wildcard {
			fmt.Fprintf(&b, "{p%d}", i)
			continue
		}
		if seg == "" || reservedRegex.MatchString(seg) {
			return "", fmt.Errorf("%w: segment %d %q", ErrUnsupportedPattern, i, seg)
		}
		b.WriteString(seg)
	}
	return b.String(), nil
}

// RequestPath joins decoded path segments back into an absolute path.
func RequestPath(path []string) string {
	return "/" + strings.Join(path, "/")
}
