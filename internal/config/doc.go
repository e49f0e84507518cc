// Package config loads routesync.json, the configuration of the routesync
// server and CLI.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "addr": ":8080"
//	  },
//	  "plugin": {
//	    "storeName": "RoutesStore",
//	    "storeEvent": "change"
//	  },
//	  "source": {
//	    "file": "routes.yaml",
//	    "pollInterval": "30s"
//	  },
//	  "metrics": {
//	    "namespace": "routesync"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// A source names either a local file or an S3 object (s3Bucket and s3Key).
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.Log.NewLogger(os.Stderr)
package config
