// Command storefront runs the storefront API and its maintenance tasks.
//
//	storefront serve             # HTTP + gRPC + websocket feed + queue workers
//	storefront migrate           # run pending migrations
//	storefront migrate:rollback
//	storefront migrate:status
//	storefront seed              # bootstrap admin and sample catalog
//	storefront route:list
//	storefront queue:work -w 4
//	storefront admin:create --email a@b.c --password secret --name "Ops"
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Storefront inventory and sales API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(adminCreateCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleListCmd)
}
