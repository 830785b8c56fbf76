// Package mcpserver exposes toolsurface.Surface as an MCP server, grounded
// on the tool-handler shape of other_examples'
// tareqmamari-cloud-logs-mcp/internal/tools (Name/Description/InputSchema/
// Execute) and sakhoury-kube-compare-mcp/pkg/mcpserver (typed input structs
// with jsonschema struct tags, registered via mcp.AddTool).
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Mayoengin/netfleet-rag/pkg/toolsurface"
)

const serverName = "netfleet-rag"

// NewServer builds an MCP server exposing network_query,
// list_network_devices, and get_device_details as MCP tools over surface.
func NewServer(surface *toolsurface.Surface, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name: "network_query",
		Description: "Ask a free-form question about the fleet (device counts, health, " +
			"troubleshooting). Runs the full RAG pipeline: query analysis, data fetch, " +
			"health scoring, and an LLM-written summary.",
	}, networkQueryHandler(surface))

	mcp.AddTool(server, &mcp.Tool{
		Name: "list_network_devices",
		Description: "List devices of a given type (olt, lag, mobile_modem, team, or all), " +
			"optionally filtered by region or environment, each with its health score. Does " +
			"not run query analysis or an LLM call; use for direct inventory listing.",
	}, listNetworkDevicesHandler(surface))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_device_details",
		Description: "Fetch one device by its exact name, with its current health score and recommendations.",
	}, getDeviceDetailsHandler(surface))

	return server
}

// networkQueryInput is the typed input for the network_query tool.
// IncludeRecommendations is a pointer so an omitted field is distinguishable
// from an explicit false, matching spec §4.9's
// `include_recommendations=true` default.
type networkQueryInput struct {
	Query                  string `json:"query" jsonschema:"required,Free-form question about the network fleet."`
	IncludeRecommendations *bool  `json:"include_recommendations,omitempty" jsonschema:"Include health recommendations in the response. Defaults to true."`
}

func networkQueryHandler(surface *toolsurface.Surface) mcp.ToolHandlerFor[networkQueryInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in networkQueryInput) (*mcp.CallToolResult, any, error) {
		include := in.IncludeRecommendations == nil || *in.IncludeRecommendations
		out, err := surface.NetworkQuery(ctx, in.Query, include)
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(out), nil, nil
	}
}

// listNetworkDevicesInput is the typed input for the list_network_devices tool.
type listNetworkDevicesInput struct {
	DeviceType  string `json:"device_type,omitempty" jsonschema:"Device type: olt, lag, mobile_modem, team, or all. Defaults to all."`
	Region      string `json:"region,omitempty" jsonschema:"Optional region filter, e.g. HOBO."`
	Environment string `json:"environment,omitempty" jsonschema:"Optional environment filter, e.g. PRODUCTION."`
	Filter      string `json:"filter,omitempty" jsonschema:"Optional device-name prefix filter."`
	Limit       int    `json:"limit,omitempty" jsonschema:"Maximum number of devices per type. Defaults to 50."`
}

func listNetworkDevicesHandler(surface *toolsurface.Surface) mcp.ToolHandlerFor[listNetworkDevicesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in listNetworkDevicesInput) (*mcp.CallToolResult, any, error) {
		deviceType := in.DeviceType
		if deviceType == "" {
			deviceType = "all"
		}
		out, err := surface.ListNetworkDevices(ctx, toolsurface.ListNetworkDevicesParams{
			DeviceType:  deviceType,
			Region:      in.Region,
			Environment: in.Environment,
			NamePrefix:  in.Filter,
			Limit:       in.Limit,
		})
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(out), nil, nil
	}
}

// getDeviceDetailsInput is the typed input for the get_device_details tool.
type getDeviceDetailsInput struct {
	DeviceName string `json:"device_name" jsonschema:"required,Exact device name to fetch, e.g. OLT17PROP01."`
	DeviceType string `json:"device_type,omitempty" jsonschema:"Device schema to search: olt, lag, or mobile_modem. Defaults to olt."`
}

func getDeviceDetailsHandler(surface *toolsurface.Surface) mcp.ToolHandlerFor[getDeviceDetailsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in getDeviceDetailsInput) (*mcp.CallToolResult, any, error) {
		deviceType := in.DeviceType
		if deviceType == "" {
			deviceType = "olt"
		}
		out, err := surface.GetDeviceDetails(ctx, in.DeviceName, deviceType)
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(out), nil, nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

// errorResult reports a tool-level error (IsError=true) rather than a
// transport-level error, so the caller sees a readable message instead of
// the call failing outright. Validation failures from toolsurface are
// caller mistakes, not server faults.
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
