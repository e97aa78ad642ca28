package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sweetshop/sweetshop/internal/service"
)

const (
	catalogURI     = "sweetshop://sweets"
	sweetURIPrefix = "sweetshop://sweets/"
)

// registerResources adds MCP resource definitions to the server. Resources
// provide read-only data that clients can load into their context.
func (s *MCPServer) registerResources(srv *server.MCPServer) {

	// -------------------------------------------------------------------
	// sweetshop://sweets: first page of the catalog
	// -------------------------------------------------------------------
	srv.AddResource(
		mcp.NewResource(
			catalogURI,
			"Sweet Catalog",
			mcp.WithResourceDescription(
				"The first page of the sweet catalog with prices and stock levels.",
			),
			mcp.WithMIMEType("application/json"),
		),
		s.handleCatalogResource,
	)

	// -------------------------------------------------------------------
	// sweetshop://sweets/{id}: a single sweet (template)
	// -------------------------------------------------------------------
	srv.AddResourceTemplate(
		mcp.NewResourceTemplate(
			sweetURIPrefix+"{id}",
			"Sweet",
			mcp.WithTemplateDescription("A single catalog entry by ID."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleSweetResource,
	)
}

func (s *MCPServer) handleCatalogResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {
	sweets, err := s.catalog.List(ctx, 0, service.DefaultPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweets: %w", err)
	}
	return jsonContents(catalogURI, sweets)
}

func (s *MCPServer) handleSweetResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	raw := strings.TrimPrefix(uri, sweetURIPrefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if raw == uri || err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid sweet URI %q: expected %s{id}", uri, sweetURIPrefix)
	}

	sweet, err := s.catalog.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sweet %d: %w", id, err)
	}
	return jsonContents(uri, sweet)
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
