package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "chemscout/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	factory, err := buildFactory()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting chemscout MCP server on stdio...")
	return mcpserver.Serve(factory)
}
