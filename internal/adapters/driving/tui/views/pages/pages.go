// Package pages provides the ingested page list view for the TUI.
package pages

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/corpora-labs/confcrawl/internal/adapters/driving/tui/keymap"
	"github.com/corpora-labs/confcrawl/internal/adapters/driving/tui/messages"
	"github.com/corpora-labs/confcrawl/internal/adapters/driving/tui/styles"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driving"
)

// View lists every ingested page URL and opens one on selection.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	retriever driving.Retriever
	ctx       context.Context

	pages    []string
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new pages view.
func NewView(s *styles.Styles, km *keymap.KeyMap, retriever driving.Retriever) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		retriever: retriever,
		ctx:       context.Background(),
		pages:     []string{},
		width:     80,
		height:    24,
		loading:   true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and loads the page list.
func (v *View) Init() tea.Cmd {
	return v.loadPages()
}

// loadPages returns a command that loads the page list.
func (v *View) loadPages() tea.Cmd {
	return func() tea.Msg {
		if v.retriever == nil {
			return messages.PagesLoaded{Err: fmt.Errorf("retriever not available")}
		}

		pages, err := v.retriever.ListPages(v.ctx)
		if err != nil {
			return messages.PagesLoaded{Err: err}
		}
		return messages.PagesLoaded{Pages: pages, Err: nil}
	}
}

// Update handles messages for the pages view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.PagesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.pages = msg.Pages
			v.err = nil
			if v.selected >= len(v.pages) {
				v.selected = 0
			}
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.pages)-1 {
			v.selected++
		}
	case keymap.Matches(key, v.keymap.Select):
		if len(v.pages) > 0 && v.selected < len(v.pages) {
			url := v.pages[v.selected]
			return v, func() tea.Msg {
				return messages.PageSelected{URL: url}
			}
		}
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case key == "r":
		// Reload the page list
		v.loading = true
		return v, v.loadPages()
	case key == "q":
		return v, tea.Quit
	}

	return v, nil
}

// View renders the pages view.
func (v *View) View() string {
	var b strings.Builder

	// Title
	b.WriteString(v.styles.Title.Render("Pages"))
	b.WriteString("\n\n")

	// Loading state
	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading pages..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Error state
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Empty state
	if len(v.pages) == 0 {
		b.WriteString(v.styles.Muted.Render("No pages ingested."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Header with count
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%d pages", len(v.pages))))
	b.WriteString("\n\n")

	// Page list, windowed to the selection
	start, end := v.visibleRange()
	for i := start; i < end; i++ {
		b.WriteString(v.renderPage(i, v.pages[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// visibleRange computes the slice of pages that fits on screen, keeping
// the selection in view.
func (v *View) visibleRange() (int, int) {
	// Reserve lines for title, count header and help footer
	visibleCount := v.height - 8
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if v.selected >= visibleCount {
		start = v.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(v.pages) {
		end = len(v.pages)
	}
	return start, end
}

// renderPage renders a single page line.
func (v *View) renderPage(index int, url string) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	// Truncate URL if needed
	maxLen := v.width - 6
	if maxLen < 20 {
		maxLen = 20
	}
	if len(url) > maxLen {
		url = url[:maxLen-3] + "..."
	}

	if index == v.selected {
		return v.styles.Selected.Render(indicator + url)
	}
	return v.styles.Normal.Render(indicator) + v.styles.Normal.Render(url)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[enter] open  [r] reload  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Pages returns the current list of page URLs.
func (v *View) Pages() []string {
	return v.pages
}

// SelectedIndex returns the currently selected page index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset puts the view back into its loading state so the next Init
// fetches a fresh page list.
func (v *View) Reset() {
	v.loading = true
	v.selected = 0
	v.err = nil
}
