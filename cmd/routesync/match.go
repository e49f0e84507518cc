package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vango-go/routesync/pkg/router"
)

func matchCmd() *cobra.Command {
	var (
		routes string
		method string
	)

	cmd := &cobra.Command{
		Use:   "match <path>",
		Short: "Find the route matching a URL path",
		Long: `Look up the route a URL path resolves to.

Examples:
  routesync match /user/1 --routes=routes.yaml
  routesync match /user/1 --method=POST -r routes.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRouter(cmd.Context(), routes)
			if err != nil {
				return err
			}
			m, ok := rt.GetRoute(args[0], router.WithMethod(method))
			if !ok {
				return fmt.Errorf("no %s route matches %s", method, args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", m.Name, m.Route.Path)
			keys := make([]string, 0, len(m.Params))
			for k := range m.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "  %s=%s\n", k, m.Params[k])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&routes, "routes", "r", "routes.json", "Route file or s3://bucket/key")
	cmd.Flags().StringVarP(&method, "method", "m", "GET", "HTTP method")

	return cmd
}
