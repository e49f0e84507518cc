package routepath

import (
	"fmt"
	"net/url"
	"strings"
)

// SegmentKind classifies a pattern segment.
type SegmentKind int

const (
	Static SegmentKind = iota
	Param
	CatchAll
)

// Segment is one "/"-separated piece of a route pattern.
type Segment struct {
	Kind SegmentKind

	// Value is the literal text for static segments, else the parameter name.
	Value string

	// Type is the declared parameter type ("string" if omitted).
	Type string
}

// Pattern is a compiled route pattern such as "/user/:id:int/files/*rest".
type Pattern struct {
	raw      string
	segments []Segment
}

// Compile parses a route pattern.
//
//	/user/:id        parameter "id", type string
//	/user/:id:int    parameter "id", type int
//	/files/*path     catch-all "path", must be last
func Compile(pattern string) (*Pattern, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("pattern %q must start with /", pattern)
	}
	p := &Pattern{raw: pattern}
	seen := make(map[string]bool)
	parts := Split(pattern)

	for i, part := range parts {
		var seg Segment
		switch {
		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return nil, fmt.Errorf("pattern %q: catch-all %q must be the last segment", pattern, part)
			}
			seg = Segment{Kind: CatchAll, Value: part[1:], Type: "[]string"}
		case strings.HasPrefix(part, ":"):
			name, typ, _ := strings.Cut(part[1:], ":")
			if typ == "" {
				typ = "string"
			}
			seg = Segment{Kind: Param, Value: name, Type: typ}
		default:
			if part == "" {
				return nil, fmt.Errorf("pattern %q: empty segment", pattern)
			}
			p.segments = append(p.segments, Segment{Kind: Static, Value: part})
			continue
		}

		if seg.Value == "" {
			return nil, fmt.Errorf("pattern %q: unnamed parameter", pattern)
		}
		if seen[seg.Value] {
			return nil, fmt.Errorf("pattern %q: duplicate parameter %q", pattern, seg.Value)
		}
		seen[seg.Value] = true
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

// String returns the pattern source.
func (p *Pattern) String() string { return p.raw }

// Segments returns the compiled segments.
func (p *Pattern) Segments() []Segment { return p.segments }

// ParamNames returns the parameter names in order of appearance.
func (p *Pattern) ParamNames() []string {
	var names []string
	for _, s := range p.segments {
		if s.Kind != Static {
			names = append(names, s.Value)
		}
	}
	return names
}

// MissingParamError is returned by Build when a parameter has no value.
type MissingParamError struct {
	Pattern string
	Param   string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("pattern %q: missing value for parameter %q", e.Pattern, e.Param)
}

// InvalidParamError is returned by Build when a value cannot fill its
// segment, such as several values for a single-segment parameter.
type InvalidParamError struct {
	Pattern string
	Param   string
	Value   any
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("pattern %q: parameter %q takes a single value, got %v", e.Pattern, e.Param, e.Value)
}

// Build fills the pattern with params. Values are formatted with %v and
// path-escaped; catch-all values keep their "/" separators.
func (p *Pattern) Build(params map[string]any) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}

	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		if seg.Kind == Static {
			b.WriteString(seg.Value)
			continue
		}

		v, ok := params[seg.Value]
		if !ok || v == nil {
			return "", &MissingParamError{Pattern: p.raw, Param: seg.Value}
		}

		if seg.Kind == CatchAll {
			b.WriteString(escapeCatchAll(v))
			continue
		}
		if vs, ok := v.([]string); ok {
			if len(vs) != 1 {
				return "", &InvalidParamError{Pattern: p.raw, Param: seg.Value, Value: vs}
			}
			v = vs[0]
		}
		b.WriteString(url.PathEscape(fmt.Sprint(v)))
	}
	return b.String(), nil
}

func escapeCatchAll(v any) string {
	var parts []string
	switch vv := v.(type) {
	case []string:
		parts = vv
	default:
		parts = strings.Split(strings.Trim(fmt.Sprint(v), "/"), "/")
	}
	escaped := make([]string, len(parts))
	for i, part := range parts {
		escaped[i] = url.PathEscape(part)
	}
	return strings.Join(escaped, "/")
}
