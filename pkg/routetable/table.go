package routetable

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-go/routesync/internal/errors"
)

// Route is a single named route definition.
type Route struct {
	// Path is the URL pattern (e.g., "/user/:id").
	Path string

	// Method is the HTTP method, lower or upper case. Empty matches any method.
	Method string

	// Meta holds every other key of the definition.
	Meta map[string]any
}

// Table maps route names to definitions. Tables are replaced wholesale,
// never edited in place once handed to a router.
type Table map[string]*Route

var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// MarshalJSON flattens Meta next to path and method.
func (r Route) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.flatten())
}

// UnmarshalJSON splits path and method from the remaining keys.
func (r *Route) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return r.fromMap(raw)
}

// MarshalYAML flattens Meta next to path and method.
func (r Route) MarshalYAML() (any, error) {
	return r.flatten(), nil
}

// UnmarshalYAML splits path and method from the remaining keys.
func (r *Route) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return r.fromMap(raw)
}

func (r Route) flatten() map[string]any {
	out := make(map[string]any, len(r.Meta)+2)
	for k, v := range r.Meta {
		out[k] = v
	}
	out["path"] = r.Path
	if r.Method != "" {
		out["method"] = r.Method
	}
	return out
}

func (r *Route) fromMap(raw map[string]any) error {
	*r = Route{}
	for k, v := range raw {
		switch k {
		case "path":
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("route path must be a string, got %T", v)
			}
			r.Path = s
		case "method":
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("route method must be a string, got %T", v)
			}
			r.Method = s
		default:
			if r.Meta == nil {
				r.Meta = make(map[string]any)
			}
			r.Meta[k] = v
		}
	}
	return nil
}

// MethodUpper returns the normalized HTTP method, or "" for any method.
func (r *Route) MethodUpper() string {
	return strings.ToUpper(r.Method)
}

// Names returns the route names in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy of the table. Route values are shared.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Validate checks every route has a rooted path and a known method.
func (t Table) Validate() error {
	for _, name := range t.Names() {
		r := t[name]
		switch {
		case r == nil:
			return errors.New("R004").WithDetailf("route %q has no definition", name)
		case r.Path == "" || !strings.HasPrefix(r.Path, "/"):
			return errors.New("R004").WithDetailf("route %q: path %q must start with /", name, r.Path)
		case r.Method != "" && !knownMethods[r.MethodUpper()]:
			return errors.New("R004").WithDetailf("route %q: unknown method %q", name, r.Method)
		}
	}
	return nil
}
