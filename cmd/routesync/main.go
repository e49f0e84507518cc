package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-go/routesync/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "routesync",
		Short: "Share a route table between servers and clients",
		Long: `routesync keeps route tables in sync across application contexts.

A server context receives route tables (from a file, S3, or PUT /routes)
and pushes them to followers over WebSocket. Followers rehydrate the table
into their own router, so path building and matching stay consistent.

Commands also work offline against a route file, which is handy for
checking a table before publishing it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to routesync.json (default ./routesync.json if present)")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		validateCmd(),
		makePathCmd(),
		matchCmd(),
		dehydrateCmd(&configPath),
		followCmd(&configPath),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
