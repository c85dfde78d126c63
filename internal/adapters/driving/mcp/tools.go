package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchDocumentationInput is the input schema for the search_documentation tool.
type SearchDocumentationInput struct {
	Query string `json:"query" jsonschema:"the question or topic to search the documentation for"`
}

// SearchDocumentationOutput is the output schema for the search_documentation tool.
type SearchDocumentationOutput struct {
	Documentation string `json:"documentation"`
}

// ListPagesInput is the input schema for the list_pages tool.
type ListPagesInput struct{}

// ListPagesOutput is the output schema for the list_pages tool.
type ListPagesOutput struct {
	Pages []string `json:"pages"`
	Count int      `json:"count"`
}

// GetPageInput is the input schema for the get_page tool.
type GetPageInput struct {
	URL string `json:"url" jsonschema:"the URL of the page to retrieve"`
}

// GetPageOutput is the output schema for the get_page tool.
type GetPageOutput struct {
	Content string `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documentation",
		Description: "Search the ingested conference documentation and return the most relevant chunks",
	}, s.handleSearchDocumentation)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_pages",
		Description: "List the URLs of all ingested documentation pages",
	}, s.handleListPages)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_page",
		Description: "Retrieve the full content of an ingested page, all chunks combined in order",
	}, s.handleGetPage)
}

// handleSearchDocumentation handles the search_documentation tool invocation.
// Failures are reported as tool text, never as protocol errors.
func (s *Server) handleSearchDocumentation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchDocumentationInput,
) (*mcp.CallToolResult, SearchDocumentationOutput, error) {
	text, err := s.ports.Retriever.SearchDocumentation(ctx, input.Query)
	if err != nil {
		return nil, SearchDocumentationOutput{
			Documentation: fmt.Sprintf("Error retrieving documentation: %v", err),
		}, nil
	}

	return nil, SearchDocumentationOutput{Documentation: text}, nil
}

// handleListPages handles the list_pages tool invocation.
func (s *Server) handleListPages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListPagesInput,
) (*mcp.CallToolResult, ListPagesOutput, error) {
	pages, err := s.ports.Retriever.ListPages(ctx)
	if err != nil {
		// Failures degrade to an empty listing
		return nil, ListPagesOutput{Pages: []string{}}, nil
	}
	if pages == nil {
		pages = []string{}
	}

	return nil, ListPagesOutput{Pages: pages, Count: len(pages)}, nil
}

// handleGetPage handles the get_page tool invocation.
// Failures are reported as tool text, never as protocol errors.
func (s *Server) handleGetPage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetPageInput,
) (*mcp.CallToolResult, GetPageOutput, error) {
	content, err := s.ports.Retriever.GetPage(ctx, input.URL)
	if err != nil {
		return nil, GetPageOutput{
			Content: fmt.Sprintf("Error retrieving page content: %v", err),
		}, nil
	}

	return nil, GetPageOutput{Content: content}, nil
}
