package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vango-go/routesync/pkg/router"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <routes>",
		Short: "Check a route table",
		Long: `Load a route table and build a router from it.

Reports field errors (missing paths, unknown methods) and pattern errors
(duplicate parameters, conflicting segments).

Examples:
  routesync validate routes.yaml
  routesync validate s3://my-bucket/prod/routes.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runValidate(ctx context.Context, ref string) error {
	rt, err := loadRouter(ctx, ref)
	if err != nil {
		return err
	}
	success("%s: %d routes", ref, rt.Len())
	return nil
}

// loadRouter loads ref and builds a router from it.
func loadRouter(ctx context.Context, ref string) (*router.Router, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := sourceFor(ref)
	if err != nil {
		return nil, err
	}
	table, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return router.New(table)
}
