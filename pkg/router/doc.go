// Package router builds an immutable router from a route table.
//
// A Router is derived from exactly one routetable.Table and never changes
// afterwards; a new table means a new Router. It provides the two operations
// the rest of the system needs:
//
//	r, err := router.New(routetable.Table{
//	    "view_user": {Path: "/user/:id", Method: "get"},
//	})
//
//	path, err := r.MakePath("view_user", map[string]any{"id": 1})
//	// path == "/user/1"
//
//	m, ok := r.GetRoute("/user/1", router.WithMethod("GET"))
//	// m.Name == "view_user", m.Params["id"] == "1"
//
// # Patterns
//
//	/user/:id        named parameter (string)
//	/user/:id:int    typed parameter, validated while matching (int, uint, uuid)
//	/files/*path     catch-all, must be last
//
// Matching tries static segments first, then parameters, then catch-alls.
package router
