package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-go/routesync/pkg/app"
	"github.com/vango-go/routesync/pkg/routesync"
	"github.com/vango-go/routesync/pkg/syncserver"
)

func followCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "follow <ws-url>",
		Short: "Follow a sync server and report route updates",
		Long: `Connect to a sync server's WebSocket feed and rehydrate a local
context from every update.

Examples:
  routesync follow ws://localhost:8080/ws`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger := cfg.Log.NewLogger(os.Stderr)

			a, plugin, err := newApp(cfg, logger, nil)
			if err != nil {
				return err
			}
			appCtx := a.CreateContext()
			actx, err := appCtx.GetActionContext()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			info("Following %s", args[0])
			err = syncserver.Follow(ctx, args[0], func(state *app.DehydratedState) error {
				if err := appCtx.Rehydrate(state); err != nil {
					return err
				}
				if actx.Router == nil || actx.Router.Len() == 0 {
					warn("Server has no routes yet")
					return nil
				}
				success("%d routes from %s", len(plugin.Routes()), routesync.Name)
				return nil
			})
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
	return cmd
}
