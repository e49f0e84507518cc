// Package routesync is a context plugin that keeps request contexts wired to
// a router built from the latest route table.
//
// The plugin listens to a store event carrying a route table. Every time the
// event fires it builds a fresh router.Router and hands it to the bound
// contexts: ActionContext.Router gets the router and ComponentContext.MakePath
// gets the router's MakePath. The same update runs when state produced on the
// server is rehydrated on the client, so both sides route identically.
//
//	plugin, err := routesync.New(routesync.Config{
//	    StoreName:  store.RoutesStoreName,
//	    StoreEvent: store.ChangeEvent,
//	})
//	a := app.New()
//	_ = a.Plug(plugin)
//
//	// server
//	state, _ := ctx.Dehydrate()     // {"plugins": {"RouteSyncPlugin": {"routes": {...}}}}
//	// client
//	_ = clientCtx.Rehydrate(state)  // router rebuilt, contexts rewired
//
// # Shared table
//
// The route table is held by the Plugin and shared by every scope it
// creates; Plugin.Routes always reports the latest table any scope applied.
// Routers are per scope. A scope only rebuilds its router when it applies an
// update itself, either from its store subscription or from Deserialize.
//
// # Errors
//
// Errors from router construction and from the transform functions are
// returned unchanged. A failed update leaves the table, the router, and the
// contexts as they were.
package routesync
