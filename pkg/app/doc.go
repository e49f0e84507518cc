// Package app composes stores and context plugins into per-request contexts.
//
// An App is configured once with plugins and store factories. Each request
// gets its own Context holding fresh store instances and one request scope per
// plugin. The Context creates the ActionContext and ComponentContext on first
// use and lets every plugin bind to them.
//
//	a := app.New()
//	a.RegisterStore(store.RoutesStoreName, func() store.Store { return store.NewRoutesStore() })
//	_ = a.Plug(plugin)
//
//	ctx := a.CreateContext()
//	actx, _ := ctx.GetActionContext()
//	_ = actx.Dispatch(store.ReceiveRoutesAction, table)
//
//	state, _ := ctx.Dehydrate() // server side
//	_ = other.Rehydrate(state)  // client side
//
// Contexts are not safe for concurrent use; a request is served by one
// goroutine at a time.
package app
