package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	rserrors "github.com/vango-go/routesync/internal/errors"
	"github.com/vango-go/routesync/pkg/routepath"
	"github.com/vango-go/routesync/pkg/routetable"
)

// MakePathFunc generates a URL path for a named route.
// Component contexts receive one bound to the current Router.
type MakePathFunc func(name string, params map[string]any) (string, error)

// Router matches paths and generates URLs for one route table.
type Router struct {
	table    routetable.Table
	root     *routeNode
	patterns map[string]*routepath.Pattern
}

// Match is the result of a successful lookup.
type Match struct {
	// Name is the matched route name.
	Name string

	// Route is the matched definition from the router's table.
	Route *routetable.Route

	// Params are the decoded path parameters.
	Params map[string]string

	// Path is the canonical path that was matched.
	Path string

	// Query is the raw query string, without "?".
	Query string
}

// New builds a Router from a route table. The table is kept as given and
// must not be modified afterwards.
func New(table routetable.Table) (*Router, error) {
	r := &Router{
		table:    table,
		root:     newRouteNode(""),
		patterns: make(map[string]*routepath.Pattern, len(table)),
	}

	// Sorted so conflicts are reported deterministically.
	for _, name := range table.Names() {
		route := table[name]
		if route == nil {
			return nil, rserrors.New("R004").WithDetailf("route %q has no definition", name)
		}
		pattern, err := routepath.Compile(route.Path)
		if err != nil {
			return nil, rserrors.New("R004").WithDetailf("route %q", name).Wrap(err)
		}
		if err := r.root.insert(pattern, route.MethodUpper(), name); err != nil {
			return nil, rserrors.New("R004").Wrap(err)
		}
		r.patterns[name] = pattern
	}
	return r, nil
}

// Table returns the table the router was built from.
func (r *Router) Table() routetable.Table {
	return r.table
}

// Len returns the number of routes.
func (r *Router) Len() int {
	return len(r.patterns)
}

// Route returns the definition for a route name.
func (r *Router) Route(name string) (*routetable.Route, bool) {
	if _, ok := r.patterns[name]; !ok {
		return nil, false
	}
	return r.table[name], true
}

// MakePath builds the URL path for a named route.
func (r *Router) MakePath(name string, params map[string]any) (string, error) {
	pattern, ok := r.patterns[name]
	if !ok {
		return "", rserrors.New("R005").WithDetail(name)
	}
	path, err := pattern.Build(params)
	if err != nil {
		var missing *routepath.MissingParamError
		if errors.As(err, &missing) {
			return "", rserrors.New("R006").WithDetailf("route %q needs %q", name, missing.Param)
		}
		var invalid *routepath.InvalidParamError
		if errors.As(err, &invalid) {
			return "", rserrors.New("R013").WithDetailf("route %q", name).Wrap(err)
		}
		return "", err
	}
	return path, nil
}

// MakePathFunc returns MakePath bound to this router.
func (r *Router) MakePathFunc() MakePathFunc {
	return r.MakePath
}

// LookupOption configures GetRoute.
type LookupOption func(*lookupOptions)

type lookupOptions struct {
	method string
}

// WithMethod restricts the lookup to routes for an HTTP method.
// Routes declared without a method match every method.
func WithMethod(method string) LookupOption {
	return func(o *lookupOptions) {
		o.method = method
	}
}

// GetRoute finds the route matching a URL path. The path may carry a query
// string. Without WithMethod, GET is assumed.
func (r *Router) GetRoute(url string, opts ...LookupOption) (*Match, bool) {
	options := lookupOptions{method: http.MethodGet}
	for _, opt := range opts {
		opt(&options)
	}

	path, query, err := routepath.Canonicalize(url)
	if err != nil {
		return nil, false
	}

	params := make(map[string]string)
	name, ok := r.root.match(routepath.Split(path), normalizeMethod(options.method), params)
	if !ok {
		return nil, false
	}
	return &Match{
		Name:   name,
		Route:  r.table[name],
		Params: params,
		Path:   path,
		Query:  query,
	}, true
}

// String describes the router for logs.
func (r *Router) String() string {
	return fmt.Sprintf("router(%d routes)", r.Len())
}

func normalizeMethod(method string) string {
	if method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(method)
}
