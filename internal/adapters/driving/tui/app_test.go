package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/confcrawl/internal/adapters/driving/tui/messages"
	"github.com/corpora-labs/confcrawl/internal/core/domain"
)

func newTestPorts() *Ports {
	return &Ports{
		Retriever: &MockRetriever{},
	}
}

func testScoredChunks() []domain.ScoredChunk {
	return []domain.ScoredChunk{
		{
			Chunk: domain.Chunk{
				URL:         "https://programs.sigchi.org/chi/2026",
				ChunkNumber: 0,
				Title:       "Keynote Sessions",
				Summary:     "Opening keynote details.",
			},
			Score: 0.95,
		},
		{
			Chunk: domain.Chunk{
				URL:         "https://programs.sigchi.org/uist/2026",
				ChunkNumber: 2,
				Title:       "Workshop Schedule",
				Summary:     "Workshop listings.",
			},
			Score: 0.85,
		},
	}
}

// goToSearchView navigates the app from menu to search view for testing.
func goToSearchView(app *App) {
	app.SetDimensions(80, 24)
	// Send ViewChanged to go to search view (simulates selecting Search from menu)
	app.Update(messages.ViewChanged{View: messages.ViewSearch})
}

// goToPagesView navigates the app from menu to the pages view for testing.
func goToPagesView(app *App) {
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewPages})
}

func TestNewApp_Success(t *testing.T) {
	ports := newTestPorts()

	app, err := NewApp(ports)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView()) // Starts at menu
}

func TestNewApp_InvalidPorts(t *testing.T) {
	ports := &Ports{
		Retriever: nil,
	}

	app, err := NewApp(ports)

	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")
	result := app.WithContext(ctx)

	assert.Equal(t, app, result)
}

func TestApp_WithContext_PropagatesToViews(t *testing.T) {
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("test"), "value")

	called := false
	mock := &MockRetriever{
		ListPagesFunc: func(receivedCtx context.Context) ([]string, error) {
			called = true
			assert.Equal(t, "value", receivedCtx.Value(contextKey("test")))
			return nil, nil
		},
	}
	app, _ := NewApp(&Ports{Retriever: mock})
	app.WithContext(ctx)
	app.SetDimensions(80, 24)

	// Switching to the pages view triggers a page load with the app context
	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewPages})
	require.NotNil(t, cmd)
	cmd()

	assert.True(t, called)
}

func TestApp_Init(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	cmd := app.Init()

	// Init returns a batch command
	assert.NotNil(t, cmd)
}

func TestApp_Update_WindowSize(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := tea.WindowSizeMsg{Width: 80, Height: 24}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_Update_TypedQuery(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToSearchView(app) // Navigate to search view first

	// Type characters to set the query
	for _, r := range "test" {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		app.Update(msg)
	}

	assert.Equal(t, "test", app.searchView.Query())
}

func TestApp_Update_SearchCompleted(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := messages.SearchCompleted{Results: testScoredChunks(), Err: nil}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Len(t, app.searchView.Results(), 2)
}

func TestApp_Update_SearchCompleted_WithError(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	err := errors.New("search failed")
	msg := messages.SearchCompleted{Results: nil, Err: err}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Error(t, app.Err())
}

func TestApp_Update_SearchCompleted_InOtherView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	// Still on menu; a late search result should still reach the search view

	app.Update(messages.SearchCompleted{Results: testScoredChunks()})

	assert.Len(t, app.searchView.Results(), 2)
	assert.Equal(t, messages.ViewMenu, app.CurrentView()) // Unchanged
}

func TestApp_Update_KeyMsg_Enter_WithQuery(t *testing.T) {
	searched := false
	mock := &MockRetriever{
		SearchChunksFunc: func(ctx context.Context, query string, topK int) ([]domain.ScoredChunk, error) {
			searched = true
			assert.Equal(t, "keynote", query)
			assert.Greater(t, topK, 0)
			return testScoredChunks(), nil
		},
	}
	app, _ := NewApp(&Ports{Retriever: mock})
	goToSearchView(app)

	for _, r := range "keynote" {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	result := cmd()
	completed, ok := result.(messages.SearchCompleted)
	require.True(t, ok)
	assert.True(t, searched)
	assert.Len(t, completed.Results, 2)

	// Feeding the result back populates the list
	app.Update(completed)
	assert.Len(t, app.searchView.Results(), 2)
}

func TestApp_Update_KeyMsg_Escape_InSearchView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToSearchView(app)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	result := cmd()
	changed, ok := result.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)

	// Applying the message switches back to menu
	app.Update(changed)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Update_ViewChanged(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := messages.ViewChanged{View: messages.ViewHelp}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
}

func TestApp_Update_ViewChanged_ToSearch_ResetsView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToSearchView(app)
	for _, r := range "old" {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	require.Equal(t, "old", app.searchView.Query())

	app.Update(messages.ViewChanged{View: messages.ViewSearch})

	assert.Empty(t, app.searchView.Query())
}

func TestApp_Update_ViewChanged_ToPages_LoadsPages(t *testing.T) {
	mock := &MockRetriever{
		ListPagesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"https://programs.sigchi.org/chi/2026"}, nil
		},
	}
	app, _ := NewApp(&Ports{Retriever: mock})
	app.SetDimensions(80, 24)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewPages})

	assert.Equal(t, messages.ViewPages, app.CurrentView())
	require.NotNil(t, cmd)
	result := cmd()
	loaded, ok := result.(messages.PagesLoaded)
	require.True(t, ok)
	assert.Len(t, loaded.Pages, 1)
}

func TestApp_Update_PagesLoaded(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToPagesView(app)

	msg := messages.PagesLoaded{Pages: []string{
		"https://programs.sigchi.org/chi/2026",
		"https://programs.sigchi.org/uist/2026",
	}}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Len(t, app.pagesView.Pages(), 2)
}

func TestApp_Update_KeyMsg_InPagesView_Navigation(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToPagesView(app)
	app.Update(messages.PagesLoaded{Pages: []string{
		"https://programs.sigchi.org/chi/2026",
		"https://programs.sigchi.org/uist/2026",
	}})

	app.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, 1, app.pagesView.SelectedIndex())
}

func TestApp_Update_PageSelected_FromSearch(t *testing.T) {
	mock := &MockRetriever{
		GetPageFunc: func(ctx context.Context, url string) (string, error) {
			return "# Keynote Sessions\n\nDetails here.", nil
		},
	}
	app, _ := NewApp(&Ports{Retriever: mock})
	goToSearchView(app)

	_, cmd := app.Update(messages.PageSelected{URL: "https://programs.sigchi.org/chi/2026"})

	assert.Equal(t, messages.ViewContent, app.CurrentView())
	require.NotNil(t, cmd)
	result := cmd()
	loaded, ok := result.(messages.PageContentLoaded)
	require.True(t, ok)
	assert.Equal(t, "https://programs.sigchi.org/chi/2026", loaded.URL)
	assert.Contains(t, loaded.Content, "Keynote Sessions")

	// Esc from content returns to the search view
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewSearch, changed.View)
}

func TestApp_Update_PageSelected_FromPages(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToPagesView(app)

	app.Update(messages.PageSelected{URL: "https://programs.sigchi.org/uist/2026"})

	assert.Equal(t, messages.ViewContent, app.CurrentView())

	// Esc from content returns to the pages view
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewPages, changed.View)
}

func TestApp_Update_PageContentLoaded(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	app.Update(messages.PageSelected{URL: "https://programs.sigchi.org/chi/2026"})

	msg := messages.PageContentLoaded{
		URL:     "https://programs.sigchi.org/chi/2026",
		Content: "Line 1\nLine 2",
	}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Equal(t, "Line 1\nLine 2", app.contentView.Content())
}

func TestApp_Update_PageContentLoaded_WithError(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	app.Update(messages.PageSelected{URL: "https://programs.sigchi.org/chi/2026"})

	msg := messages.PageContentLoaded{
		URL: "https://programs.sigchi.org/chi/2026",
		Err: errors.New("no content"),
	}
	app.Update(msg)

	assert.Error(t, app.contentView.Err())
}

func TestApp_Update_ErrorOccurred(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	err := errors.New("something went wrong")
	msg := messages.ErrorOccurred{Err: err}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Error(t, app.Err())
}

func TestApp_Update_ErrorOccurred_InSearchView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToSearchView(app)

	app.Update(messages.ErrorOccurred{Err: errors.New("retrieval failed")})

	assert.Error(t, app.Err())
	assert.Error(t, app.searchView.Err())
}

func TestApp_Update_Quit(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	model, cmd := app.Update(messages.Quit{})

	assert.Equal(t, app, model)
	assert.NotNil(t, cmd)
}

func TestApp_Update_KeyMsg_Quit(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	// Test quit from menu view - 'q' should quit
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	// Quit returns tea.Quit
	assert.NotNil(t, cmd)
}

func TestApp_Update_KeyMsg_CtrlC(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	msg := tea.KeyMsg{Type: tea.KeyCtrlC}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.NotNil(t, cmd)
}

func TestApp_Update_KeyMsg_InHelpView_Escape(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Update_KeyMsg_InHelpView_OtherKey(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Nil(t, cmd)
	assert.Equal(t, messages.ViewHelp, app.CurrentView()) // Stays in help
}

func TestApp_Update_MessageForwardedToActiveView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	// Send a message type the app doesn't handle itself
	msg := tea.MouseMsg{}
	model, cmd := app.Update(msg)

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
}

func TestApp_View_NotReady(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	view := app.View()

	assert.Contains(t, view, "Initialising")
}

func TestApp_View_MenuView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)

	view := app.View()

	assert.Contains(t, view, "Confcrawl")
}

func TestApp_View_SearchView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToSearchView(app)

	view := app.View()

	assert.Contains(t, view, "Search")
}

func TestApp_View_PagesView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	goToPagesView(app)

	view := app.View()

	assert.Contains(t, view, "Pages")
}

func TestApp_View_ContentView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	app.Update(messages.PageSelected{URL: "https://programs.sigchi.org/chi/2026"})
	app.Update(messages.PageContentLoaded{
		URL:     "https://programs.sigchi.org/chi/2026",
		Content: "Keynote details",
	})

	view := app.View()

	assert.Contains(t, view, "Keynote details")
}

func TestApp_View_HelpView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	view := app.View()

	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "Quit")
	assert.Contains(t, view, "back to menu")
}

func TestApp_View_DefaultView(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)
	app.SetDimensions(80, 24)
	// Set to an unrecognized view type
	app.currentView = messages.ViewType(999)

	view := app.View()

	// Should default to menu view
	assert.Contains(t, view, "Confcrawl")
}

func TestApp_SetDimensions(t *testing.T) {
	ports := newTestPorts()
	app, _ := NewApp(ports)

	app.SetDimensions(120, 60)

	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.width)
	assert.Equal(t, 60, app.height)
}
