package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for confcrawl resources.
	uriScheme = "confcrawl://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource listing ingested pages.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "pages",
		Name:        "pages",
		Description: "List of all ingested page URLs",
		MIMEType:    "application/json",
	}, s.handlePagesResource)

	// Template for page content, keyed by the path-escaped page URL.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "pages/{url}",
		Name:        "page-content",
		Description: "Reassembled markdown content of one ingested page",
		MIMEType:    "text/markdown",
	}, s.handlePageContentResource)
}

// handlePagesResource returns the list of ingested page URLs.
func (s *Server) handlePagesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	pages, err := s.ports.Retriever.ListPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	if pages == nil {
		pages = []string{}
	}

	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling pages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePageContentResource returns the content of one ingested page.
func (s *Server) handlePageContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract the page URL from the URI: confcrawl://pages/{url}
	pageURL := extractPageURL(req.Params.URI)
	if pageURL == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	content, err := s.ports.Retriever.GetPage(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("getting page content: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     content,
		}},
	}, nil
}

// extractPageURL extracts the page URL from a URI like confcrawl://pages/{url},
// where {url} is path-escaped.
func extractPageURL(uri string) string {
	const prefix = uriScheme + "pages/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	escaped := strings.TrimPrefix(uri, prefix)
	if escaped == "" {
		return ""
	}

	decoded, err := url.PathUnescape(escaped)
	if err != nil {
		return ""
	}
	return decoded
}
