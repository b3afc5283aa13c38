package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"karolbroda.com/lyricline/internal/artwork"
	"karolbroda.com/lyricline/internal/engine"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case FrameMsg:
		return m.handleFrame(msg)

	case ArtworkFetchedMsg:
		return m.handleArtworkFetched(msg)
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "i":
		m.hideHeader = !m.hideHeader
		return m, nil
	}

	return m, nil
}

func (m Model) handleFrame(msg FrameMsg) (tea.Model, tea.Cmd) {
	m.frame = engine.Frame(msg)
	m.hasFrame = true

	artURL := msg.Snapshot.ArtworkURL
	if artURL == m.artURL {
		return m, nil
	}

	m.artURL = artURL
	m.image = nil
	m.palette = artwork.DefaultPalette()

	if artURL == "" {
		return m, nil
	}
	return m, fetchArtworkCmd(artURL)
}

func (m Model) handleArtworkFetched(msg ArtworkFetchedMsg) (tea.Model, tea.Cmd) {
	// the track moved on while the art was loading
	if msg.URL != m.artURL {
		return m, nil
	}

	if msg.Err != nil || msg.Image == nil {
		return m, nil
	}

	m.image = msg.Image
	if msg.Palette != nil {
		m.palette = msg.Palette
	}
	return m, nil
}
