// Package routetable defines the route table exchanged between stores,
// routers, and the route sync plugin.
//
// A table maps a route name to its definition:
//
//	view_user:
//	  path: /user/:id
//	  method: get
//	  foo:
//	    bar: baz
//
// Keys other than path and method are kept in Route.Meta and written back
// flattened, so tables survive a dehydrate/rehydrate round trip unchanged.
package routetable
