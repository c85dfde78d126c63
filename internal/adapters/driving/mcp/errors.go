// Package mcp provides an MCP (Model Context Protocol) server adapter for confcrawl.
// It lets AI assistants search and read the ingested conference documentation.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")
