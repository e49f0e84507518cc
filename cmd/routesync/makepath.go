package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func makePathCmd() *cobra.Command {
	var routes string

	cmd := &cobra.Command{
		Use:   "makepath <name> [key=value...]",
		Short: "Build a path from a named route",
		Long: `Build the URL path for a named route.

Examples:
  routesync makepath view_user id=1 --routes=routes.yaml
  routesync makepath view_user_post id=1 post=42 -r routes.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRouter(cmd.Context(), routes)
			if err != nil {
				return err
			}
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			path, err := rt.MakePath(args[0], params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&routes, "routes", "r", "routes.json", "Route file or s3://bucket/key")

	return cmd
}
