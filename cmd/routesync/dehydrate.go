package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-go/routesync/pkg/store"
)

func dehydrateCmd(configPath *string) *cobra.Command {
	var routes string

	cmd := &cobra.Command{
		Use:   "dehydrate",
		Short: "Print the dehydrated state for a route table",
		Long: `Run a route table through a context and print the state a server
would send to clients. Useful for embedding initial state in a page.

Examples:
  routesync dehydrate --routes=routes.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			src, err := sourceFor(routes)
			if err != nil {
				return err
			}
			table, err := src.Load(cmd.Context())
			if err != nil {
				return err
			}

			a, _, err := newApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
			if err != nil {
				return err
			}
			ctx := a.CreateContext()
			if _, err := ctx.GetActionContext(); err != nil {
				return err
			}
			if err := ctx.Dispatch(store.ReceiveRoutesAction, table); err != nil {
				return err
			}
			state, err := ctx.Dehydrate()
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		},
	}

	cmd.Flags().StringVarP(&routes, "routes", "r", "routes.json", "Route file or s3://bucket/key")

	return cmd
}
