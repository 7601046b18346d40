// Package mcp exposes the aggregation factory as an MCP tool server,
// over stdio for local agents and over HTTP for remote ones.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"chemscout/internal/aggregate"
)

// Serve starts the MCP stdio server with all tools registered.
func Serve(factory *aggregate.Factory) error {
	s := server.NewMCPServer(
		"chemscout",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, factory)

	return server.ServeStdio(s)
}
