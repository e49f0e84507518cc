// Package errors provides structured, actionable error messages for routesync.
//
// Errors carry a registered code, a category and an optional hint:
//
//	err := errors.New("R003").
//	    WithDetail(`store "RoutesStore" was never registered`).
//	    WithSuggestion("call app.RegisterStore before creating contexts")
//
//	fmt.Println(err.Format())
//	// ERROR R003: Store not registered
//	//
//	//   store "RoutesStore" was never registered
//	//
//	//   Hint: call app.RegisterStore before creating contexts
//
// Errors produced by the router or by route transforms are never wrapped
// into a RouteError on the plugin path; callers see them as returned.
package errors
