// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer returns an MCP server with every metrics tool registered.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "compliance-metrics",
		Version: version,
	}, nil)

	mcp.AddTool(server, MetadataComputeMetrics, ComputeMetrics)
	mcp.AddTool(server, MetadataValidateResults, ValidateResults)
	mcp.AddTool(server, MetadataConsolidateResults, ConsolidateResults)
	return server
}
