// Package routesource loads route tables from outside the application and
// feeds them into a context as RECEIVE_ROUTES actions.
//
// A Source is anything that can produce a routetable.Table on demand. The
// package ships a FileSource for local JSON or YAML files and an S3Source
// for objects in an S3 bucket. A Watcher polls a Source and dispatches the
// table whenever its contents change:
//
//	w := routesource.NewWatcher(routesource.FileSource{Path: "routes.yaml"}, appCtx, routesource.WatcherConfig{
//	    Interval: 30 * time.Second,
//	})
//	go w.Start(runCtx)
package routesource
