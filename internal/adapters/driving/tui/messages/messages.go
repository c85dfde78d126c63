// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/corpora-labs/confcrawl/internal/core/domain"
)

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Results []domain.ScoredChunk
	Err     error
}

// PagesLoaded carries the ingested page URLs.
type PagesLoaded struct {
	Pages []string
	Err   error
}

// PageSelected is sent when a page is chosen for reading, from the
// pages list or from a search result.
type PageSelected struct {
	URL string
}

// PageContentLoaded carries the reassembled content of one page.
type PageContentLoaded struct {
	URL     string
	Content string
	Err     error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewPages lists the ingested page URLs.
	ViewPages
	// ViewContent shows one reassembled page.
	ViewContent
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewPages:
		return "pages"
	case ViewContent:
		return "content"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
