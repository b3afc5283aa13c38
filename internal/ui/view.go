package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
	"github.com/mattn/go-runewidth"

	"karolbroda.com/lyricline/internal/artwork"
	"karolbroda.com/lyricline/internal/lyrics"
)

const contextLines = 2

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	palette := m.palette
	if palette == nil {
		palette = artwork.DefaultPalette()
	}

	var lines []string
	if !m.hasFrame || m.frame.Idle() {
		lines = m.renderWaitingScreen(palette, width, height)
	} else {
		lines = m.renderMainScreen(palette, width, height)
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderWaitingScreen(palette *artwork.Palette, width int, height int) []string {
	banner := figure.NewFigure("lyricline", "small", true).Slicify()

	bannerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary))
	waitStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Italic(true)

	var body []string
	if width >= 40 {
		for _, row := range banner {
			body = append(body, centerLine(bannerStyle.Render(strings.TrimRight(row, " ")), width))
		}
		body = append(body, "")
	}
	body = append(body, centerLine(waitStyle.Render(fit(m.fallback, width)), width))

	return padVertically(body, height)
}

func (m Model) renderMainScreen(palette *artwork.Palette, width int, height int) []string {
	var lines []string

	if !m.hideHeader {
		lines = append(lines, m.renderHeader(palette, width)...)
	}

	lyricsHeight := height - len(lines)
	lines = append(lines, m.renderLyrics(palette, width, lyricsHeight)...)

	return lines
}

func (m Model) renderHeader(palette *artwork.Palette, width int) []string {
	snapshot := m.frame.Snapshot

	artWidth, artHeight := 12, 6
	if width < 80 {
		artWidth, artHeight = 8, 4
	}
	if width < 50 || m.image == nil {
		artWidth, artHeight = 0, 0
	}

	maxWidth := width - artWidth - 8
	if maxWidth < 10 {
		maxWidth = 10
	}

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary)).Bold(true)
	artistStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))

	var info []string
	title := snapshot.Title
	if title == "" {
		title = "unknown title"
	}
	info = append(info, titleStyle.Render(fit(title, maxWidth)))
	if snapshot.Artist != "" {
		info = append(info, artistStyle.Render(fit(snapshot.Artist, maxWidth)))
	}
	if snapshot.Album != "" {
		info = append(info, dimStyle.Render(fit(snapshot.Album, maxWidth)))
	}

	status := snapshot.Player
	if snapshot.Position != "" {
		status += "  " + snapshot.Position
	}
	if n := m.frame.Index.Len(); n > 0 {
		status += "  " + pluralLines(n)
	} else {
		status += "  no lyrics"
	}
	info = append(info, dimStyle.Render(fit(status, maxWidth)))

	art := artwork.RenderHalfBlockArt(m.image, artWidth, artHeight)

	rows := len(info)
	if len(art) > rows {
		rows = len(art)
	}

	lines := []string{""}
	for i := 0; i < rows; i++ {
		var line strings.Builder
		line.WriteString("  ")
		if artWidth > 0 {
			if i < len(art) {
				line.WriteString(art[i])
			} else {
				line.WriteString(strings.Repeat(" ", artWidth))
			}
			line.WriteString("  ")
		}
		if i < len(info) {
			line.WriteString(info[i])
		}
		lines = append(lines, line.String())
	}
	lines = append(lines, "")

	return lines
}

func (m Model) renderLyrics(palette *artwork.Palette, width int, height int) []string {
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary)).Bold(true)
	nearStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Accent))
	farStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Faint(true)
	waitStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Italic(true)

	maxWidth := width - 4

	if !m.frame.Current {
		return padVertically([]string{centerLine(waitStyle.Render(fit(m.frame.Text, maxWidth)), width)}, height)
	}

	all := m.frame.Index.Lines()
	current := currentLine(all, m.frame.Position)

	var body []string
	for offset := -contextLines; offset <= contextLines; offset++ {
		i := current + offset
		if i < 0 || i >= len(all) {
			body = append(body, "")
			continue
		}

		text := fit(all[i].Text, maxWidth)
		switch {
		case offset == 0:
			body = append(body, centerLine(focusStyle.Render(text), width))
		case offset == -1 || offset == 1:
			body = append(body, centerLine(nearStyle.Render(text), width))
		default:
			body = append(body, centerLine(farStyle.Render(text), width))
		}
		body = append(body, "")
	}

	return padVertically(body, height)
}

// currentLine is the position of the last line starting at or before
// position, or -1.
func currentLine(lines []lyrics.Line, position uint32) int {
	current := -1
	for i, line := range lines {
		if line.Seconds > position {
			break
		}
		current = i
	}
	return current
}

func pluralLines(n int) string {
	if n == 1 {
		return "1 line"
	}
	return strconv.Itoa(n) + " lines"
}

// fit truncates s to width terminal cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func centerLine(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

func padVertically(body []string, height int) []string {
	top := (height - len(body)) / 2
	if top < 0 {
		top = 0
	}
	lines := make([]string, 0, top+len(body))
	for i := 0; i < top; i++ {
		lines = append(lines, "")
	}
	return append(lines, body...)
}
