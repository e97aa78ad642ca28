package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/service"
)

// registerTools registers the catalog tools on the given server.
func (s *MCPServer) registerTools(srv *server.MCPServer) {
	srv.AddTool(
		mcp.NewTool("sweetshop_list_sweets",
			mcp.WithDescription(
				"List the sweets in the catalog ordered by ID, with price and units "+
					"in stock. Use skip and limit to page through large catalogs.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("skip",
				mcp.Description("Number of sweets to skip (default 0)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of sweets to return (default 100, max 100, 0 for none)"),
			),
		),
		s.handleListSweets,
	)

	srv.AddTool(
		mcp.NewTool("sweetshop_search_sweets",
			mcp.WithDescription(
				"Search the catalog. Name and category match case-insensitive "+
					"substrings; min_price and max_price are inclusive bounds. All "+
					"given criteria must match.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("name",
				mcp.Description("Substring of the sweet name (e.g. \"choc\")"),
			),
			mcp.WithString("category",
				mcp.Description("Substring of the category (e.g. \"cake\")"),
			),
			mcp.WithNumber("min_price",
				mcp.Description("Lowest price to include"),
				mcp.Min(0),
			),
			mcp.WithNumber("max_price",
				mcp.Description("Highest price to include"),
				mcp.Min(0),
			),
			mcp.WithNumber("skip",
				mcp.Description("Number of matches to skip (default 0)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of matches to return (default 100, max 100)"),
			),
		),
		s.handleSearchSweets,
	)

	srv.AddTool(
		mcp.NewTool("sweetshop_get_sweet",
			mcp.WithDescription("Get a single sweet by ID, including its current stock."),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("ID of the sweet"),
			),
		),
		s.handleGetSweet,
	)
}

// =========================================================================
// Tool handlers
// =========================================================================

func (s *MCPServer) handleListSweets(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	skip := optionalInt(request, "skip", 0)
	limit := optionalInt(request, "limit", service.DefaultPageSize)

	sweets, err := s.catalog.List(ctx, skip, limit)
	if err != nil {
		return s.failure("list sweets", err)
	}
	return successJSON(sweets)
}

func (s *MCPServer) handleSearchSweets(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	filter := model.SweetFilter{
		Name:     optionalString(request, "name"),
		Category: optionalString(request, "category"),
		MinPrice: optionalFloat(request, "min_price"),
		MaxPrice: optionalFloat(request, "max_price"),
	}
	skip := optionalInt(request, "skip", 0)
	limit := optionalInt(request, "limit", service.DefaultPageSize)

	sweets, err := s.catalog.Search(ctx, filter, skip, limit)
	if err != nil {
		return s.failure("search sweets", err)
	}
	return successJSON(sweets)
}

func (s *MCPServer) handleGetSweet(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	id, err := requireID(request, "id")
	if err != nil {
		return toolError("%v", err)
	}

	sweet, err := s.catalog.Get(ctx, id)
	if err != nil {
		return s.failure("get sweet", err)
	}
	return successJSON(sweet)
}

// failure turns a service error into a tool error the model can act on.
// Unexpected errors are logged and reported without detail.
func (s *MCPServer) failure(op string, err error) (*mcp.CallToolResult, error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return toolError("Invalid %s: %s", verr.Field, verr.Message)
	case errors.Is(err, service.ErrNotFound):
		return toolError("Sweet not found. Use sweetshop_list_sweets to see available IDs.")
	default:
		s.logger.Error("mcp tool failed", "op", op, "error", err)
		return toolError("Failed to %s", op)
	}
}
