package storepath

import (
	"fmt"
	"strconv"
	"strings"
)

// Delimiter selects how a path string is split into segments.
type Delimiter int

const (
	// DelimiterAuto splits on "." when the path contains one, otherwise on "/".
	// The choice is made once per path, so mixing both delimiters mis-parses.
	DelimiterAuto Delimiter = iota
	DelimiterDot
	DelimiterSlash
)

func (d Delimiter) String() string {
	switch d {
	case DelimiterDot:
		return "."
	case DelimiterSlash:
		return "/"
	default:
		return "auto"
	}
}

// separator resolves the delimiter used for raw.
func (d Delimiter) separator(raw string) string {
	switch d {
	case DelimiterDot:
		return "."
	case DelimiterSlash:
		return "/"
	}
	if strings.Contains(raw, ".") {
		return "."
	}
	return "/"
}

// Path is a parsed path: the root key that addresses the backing store plus
// the nested segments inside the stored value, outermost first.
type Path struct {
	Raw      string
	Root     string
	Segments []string
}

// Nested reports whether the path addresses a field inside the stored value.
func (p Path) Nested() bool {
	return len(p.Segments) > 0
}

// Leaf returns the final segment, or the root key for root-only paths.
func (p Path) Leaf() string {
	if len(p.Segments) == 0 {
		return p.Root
	}
	return p.Segments[len(p.Segments)-1]
}

func (p Path) String() string {
	return p.Raw
}

// ParsePath splits path into a root key and nested segments. Non-string paths
// are converted to their string form first. It never fails: the empty string
// yields an empty root key and no segments.
func ParsePath(path any, d Delimiter) Path {
	raw := pathString(path)
	parts := strings.Split(raw, d.separator(raw))
	return Path{
		Raw:      raw,
		Root:     parts[0],
		Segments: parts[1:],
	}
}

func pathString(path any) string {
	switch actual := path.(type) {
	case string:
		return actual
	case Path:
		return actual.Raw
	case fmt.Stringer:
		return actual.String()
	case int:
		return strconv.Itoa(actual)
	case int64:
		return strconv.FormatInt(actual, 10)
	case int32:
		return strconv.FormatInt(int64(actual), 10)
	case uint:
		return strconv.FormatUint(uint64(actual), 10)
	case uint64:
		return strconv.FormatUint(actual, 10)
	case uint32:
		return strconv.FormatUint(uint64(actual), 10)
	case float64:
		return strconv.FormatFloat(actual, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(actual), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(actual)
	case nil:
		return "null"
	default:
		return fmt.Sprint(actual)
	}
}
