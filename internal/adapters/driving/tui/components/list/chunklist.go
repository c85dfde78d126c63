// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/corpora-labs/confcrawl/internal/adapters/driving/tui/styles"
	"github.com/corpora-labs/confcrawl/internal/core/domain"
)

// ChunkList displays scored chunks in a navigable list.
type ChunkList struct {
	chunks   []domain.ScoredChunk
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewChunkList creates a new chunk list component.
func NewChunkList(s *styles.Styles) *ChunkList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ChunkList{
		chunks:   nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Update handles list navigation messages.
func (c *ChunkList) Update(msg tea.Msg) (*ChunkList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			c.MoveUp()
		case tea.KeyDown:
			c.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			c.MoveUp()
		case "j":
			c.MoveDown()
		}
	}
	return c, nil
}

// View renders the chunk list.
func (c *ChunkList) View() string {
	if len(c.chunks) == 0 {
		return c.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(c.chunks)*3+2)

	// Header
	header := c.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(c.chunks)))
	lines = append(lines, header, "")

	// Calculate visible range based on height
	// Each chunk takes 3 lines (title, URL, preview), so divide by 3
	visibleCount := (c.height - 4) / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if c.selected >= visibleCount {
		start = c.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(c.chunks) {
		end = len(c.chunks)
	}

	for i := start; i < end; i++ {
		lines = append(lines, c.renderChunk(i, &c.chunks[i]))
	}

	return strings.Join(lines, "\n")
}

// renderChunk formats a single scored chunk with its source URL and a
// preview line.
func (c *ChunkList) renderChunk(index int, chunk *domain.ScoredChunk) string {
	// Indicator for selected item
	indicator := "  "
	if index == c.selected {
		indicator = "> "
	}

	title := chunk.Title
	if title == "" {
		title = "(Untitled)"
	}

	// Truncate title if too long
	maxTitleLen := c.width - 20
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	score := fmt.Sprintf("%.2f", chunk.Score)

	var titleLine string
	if index == c.selected {
		titleLine = c.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, score))
	} else {
		titleLine = c.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
			c.styles.Muted.Render(score)
	}

	urlLine := c.styles.Subtitle.Render(fmt.Sprintf("    %s #%d", chunk.URL, chunk.ChunkNumber))

	// Preview text (summary or chunk content)
	preview := chunk.Summary
	if preview == "" {
		preview = chunk.Content
	}

	// Truncate preview to fit width
	maxPreviewLen := c.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	if len(preview) > maxPreviewLen {
		preview = preview[:maxPreviewLen-3] + "..."
	}

	previewLine := c.styles.Muted.Render("    " + preview)

	return titleLine + "\n" + urlLine + "\n" + previewLine
}

// SetChunks updates the chunk list.
func (c *ChunkList) SetChunks(chunks []domain.ScoredChunk) {
	c.chunks = chunks
	c.selected = 0
}

// Chunks returns the current chunks.
func (c *ChunkList) Chunks() []domain.ScoredChunk {
	return c.chunks
}

// Selected returns the index of the selected chunk.
func (c *ChunkList) Selected() int {
	return c.selected
}

// SetSelected sets the selected index.
func (c *ChunkList) SetSelected(index int) {
	if index >= 0 && index < len(c.chunks) {
		c.selected = index
	}
}

// SelectedChunk returns the currently selected chunk, or nil if none.
func (c *ChunkList) SelectedChunk() *domain.ScoredChunk {
	if len(c.chunks) == 0 || c.selected < 0 || c.selected >= len(c.chunks) {
		return nil
	}
	return &c.chunks[c.selected]
}

// MoveUp moves selection up.
func (c *ChunkList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *ChunkList) MoveDown() {
	if c.selected < len(c.chunks)-1 {
		c.selected++
	}
}

// SetDimensions sets the component dimensions.
func (c *ChunkList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Count returns the number of chunks.
func (c *ChunkList) Count() int {
	return len(c.chunks)
}

// IsEmpty returns whether the list is empty.
func (c *ChunkList) IsEmpty() bool {
	return len(c.chunks) == 0
}
