package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"chemscout/internal/aggregate"
	"chemscout/internal/supplier"
)

func registerTools(s *server.MCPServer, factory *aggregate.Factory) {
	searchTool := mcp.NewTool("search_products",
		mcp.WithDescription("Search chemical suppliers for a reagent by name or CAS number"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Chemical name or CAS number"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results per supplier (default: 10)"),
		),
		mcp.WithArray("suppliers",
			mcp.Description("Restrict the search to these suppliers (default: all enabled)"),
			mcp.WithStringItems(),
		),
	)
	s.AddTool(searchTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearchProducts(ctx, factory, request)
	})

	detailTool := mcp.NewTool("product_detail",
		mcp.WithDescription("Fetch full product details from one supplier by product URL"),
		mcp.WithString("supplier",
			mcp.Required(),
			mcp.Description("Supplier name (see list_suppliers)"),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Product page URL"),
		),
	)
	s.AddTool(detailTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleProductDetail(ctx, factory, request)
	})

	listTool := mcp.NewTool("list_suppliers",
		mcp.WithDescription("List the supplier catalog with currency, country, and shipping scope"),
	)
	s.AddTool(listTool, handleListSuppliers)
}

func handleSearchProducts(ctx context.Context, factory *aggregate.Factory, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	limit := request.GetInt("limit", 10)

	if names := request.GetStringSlice("suppliers", nil); len(names) > 0 {
		sub, err := factory.Subset(names)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		factory = sub
	}

	products := factory.Collect(ctx, query, limit)
	data, _ := json.MarshalIndent(products, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func handleProductDetail(ctx context.Context, factory *aggregate.Factory, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("supplier", "")
	url := request.GetString("url", "")
	if name == "" || url == "" {
		return mcp.NewToolResultError("supplier and url are required"), nil
	}

	p, err := factory.Detail(ctx, name, url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("detail error: %v", err)), nil
	}

	data, _ := json.MarshalIndent(p, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func handleListSuppliers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, _ := json.MarshalIndent(supplier.Catalog, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}
