// Package tui provides an interactive terminal browser for confcrawl.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/corpora-labs/confcrawl/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retriever answers searches and serves page listings and content.
	Retriever driving.Retriever
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(retriever driving.Retriever) *Ports {
	return &Ports{
		Retriever: retriever,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
