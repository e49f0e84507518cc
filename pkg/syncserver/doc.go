// Package syncserver serves an authoritative route table over HTTP and
// pushes every change to websocket followers.
//
// The server owns one app.Context. Route tables arrive either through
// PUT /routes or through Server.Dispatch (which routesource.Watcher uses),
// and every accepted table is broadcast as the context's dehydrated state.
// Followers feed that state into their own context's Rehydrate, so their
// routers and MakePath functions track the server.
//
// # Endpoints
//
//	GET  /healthz           liveness
//	GET  /routes            dehydrated state ({"plugins": {...}})
//	PUT  /routes            replace the table (JSON, or YAML with an
//	                        application/yaml content type)
//	GET  /paths/{name}      build a path; query values are the params
//	GET  /match?path=&method=
//	GET  /ws                websocket feed of dehydrated state
//	GET  /metrics           Prometheus
//
// # Following
//
//	err := syncserver.Follow(ctx, "ws://routes.internal:8080/ws", func(s *app.DehydratedState) error {
//	    return appCtx.Rehydrate(s)
//	})
package syncserver
