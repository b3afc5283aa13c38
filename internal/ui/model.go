package ui

import (
	"context"
	"image"

	tea "github.com/charmbracelet/bubbletea"

	"karolbroda.com/lyricline/internal/artwork"
	"karolbroda.com/lyricline/internal/engine"
)

// FrameMsg carries one engine cycle into the program.
type FrameMsg engine.Frame

type ArtworkFetchedMsg struct {
	URL     string
	Image   image.Image
	Palette *artwork.Palette
	Err     error
}

type Model struct {
	frame      engine.Frame
	hasFrame   bool
	fallback   string
	hideHeader bool

	artURL  string
	image   image.Image
	palette *artwork.Palette

	width    int
	height   int
	quitting bool
}

type ModelConfig struct {
	Fallback   string
	HideHeader bool
}

func NewModel(cfg ModelConfig) Model {
	return Model{
		fallback:   cfg.Fallback,
		hideHeader: cfg.HideHeader,
		palette:    artwork.DefaultPalette(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func fetchArtworkCmd(artworkURL string) tea.Cmd {
	return func() tea.Msg {
		img, err := artwork.Fetch(context.Background(), artworkURL)
		if err != nil {
			return ArtworkFetchedMsg{URL: artworkURL, Err: err}
		}
		return ArtworkFetchedMsg{
			URL:     artworkURL,
			Image:   img,
			Palette: artwork.ExtractPalette(img),
		}
	}
}

func (m Model) Frame() engine.Frame       { return m.frame }
func (m Model) Palette() *artwork.Palette { return m.palette }
func (m Model) HideHeader() bool          { return m.hideHeader }
func (m Model) IsQuitting() bool          { return m.quitting }

// Sink forwards engine frames to a running program.
type Sink struct {
	program *tea.Program
}

func NewSink(program *tea.Program) *Sink {
	return &Sink{program: program}
}

func (s *Sink) Show(frame engine.Frame) {
	s.program.Send(FrameMsg(frame))
}
