package router

import (
	"fmt"
	"strings"

	"github.com/vango-go/routesync/pkg/routepath"
)

// anyMethod keys a route that was declared without a method.
const anyMethod = ""

// routeNode is a node in the radix tree.
type routeNode struct {
	segment string

	// paramName and paramType are set on param and catch-all nodes.
	paramName string
	paramType string

	// routes maps an upper-case method to the route name ending here.
	routes map[string]string

	children      []*routeNode
	paramChild    *routeNode
	catchAllChild *routeNode
}

func newRouteNode(segment string) *routeNode {
	return &routeNode{segment: segment}
}

// findChild finds a static child with an exact segment match.
func (n *routeNode) findChild(segment string) *routeNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

func (n *routeNode) addChild(segment string) *routeNode {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := newRouteNode(segment)
	n.children = append(n.children, child)
	return child
}

func (n *routeNode) addParamChild(name, paramType string) (*routeNode, error) {
	if n.paramChild != nil {
		if n.paramChild.paramName != name || n.paramChild.paramType != paramType {
			return nil, fmt.Errorf("parameter :%s:%s conflicts with :%s:%s",
				name, paramType, n.paramChild.paramName, n.paramChild.paramType)
		}
		return n.paramChild, nil
	}
	n.paramChild = &routeNode{paramName: name, paramType: paramType}
	return n.paramChild, nil
}

func (n *routeNode) addCatchAllChild(name string) (*routeNode, error) {
	if n.catchAllChild != nil {
		if n.catchAllChild.paramName != name {
			return nil, fmt.Errorf("catch-all *%s conflicts with *%s", name, n.catchAllChild.paramName)
		}
		return n.catchAllChild, nil
	}
	n.catchAllChild = &routeNode{paramName: name, paramType: "[]string"}
	return n.catchAllChild, nil
}

// insert adds a compiled pattern to the tree under the given method.
func (n *routeNode) insert(p *routepath.Pattern, method, name string) error {
	current := n
	var err error
	for _, seg := range p.Segments() {
		switch seg.Kind {
		case routepath.CatchAll:
			current, err = current.addCatchAllChild(seg.Value)
		case routepath.Param:
			current, err = current.addParamChild(seg.Value, seg.Type)
		default:
			current = current.addChild(seg.Value)
		}
		if err != nil {
			return fmt.Errorf("route %q: %w", name, err)
		}
	}

	if current.routes == nil {
		current.routes = make(map[string]string)
	}
	if existing, ok := current.routes[method]; ok {
		return fmt.Errorf("route %q duplicates %q (%s %s)", name, existing, methodLabel(method), p)
	}
	current.routes[method] = name
	return nil
}

// match walks the tree for the given segments, filling params on success.
func (n *routeNode) match(segments []string, method string, params map[string]string) (string, bool) {
	if len(segments) == 0 {
		return n.routeFor(method)
	}

	segment := segments[0]
	remaining := segments[1:]

	if child := n.findChild(segment); child != nil {
		if name, ok := child.match(remaining, method, params); ok {
			return name, true
		}
	}

	if child := n.paramChild; child != nil {
		value, err := routepath.DecodeSegment(segment, false)
		if err == nil && ValidateParam(value, child.paramType) == nil {
			params[child.paramName] = value
			if name, ok := child.match(remaining, method, params); ok {
				return name, true
			}
			delete(params, child.paramName)
		}
	}

	if child := n.catchAllChild; child != nil {
		value, err := routepath.DecodeSegment(strings.Join(segments, "/"), true)
		if err == nil {
			if name, ok := child.routeFor(method); ok {
				params[child.paramName] = value
				return name, true
			}
		}
	}

	return "", false
}

func (n *routeNode) routeFor(method string) (string, bool) {
	if name, ok := n.routes[method]; ok {
		return name, true
	}
	name, ok := n.routes[anyMethod]
	return name, ok
}

func methodLabel(method string) string {
	if method == anyMethod {
		return "ANY"
	}
	return method
}
