package engine

import (
	"io"

	"github.com/mattn/go-runewidth"

	"karolbroda.com/lyricline/internal/lyrics"
	"karolbroda.com/lyricline/internal/track"
)

// Frame is the outcome of one cycle.
type Frame struct {
	Snapshot track.Snapshot
	// Index is shared with the engine and must not be modified.
	Index *lyrics.Index
	// Position is the parsed playback position; valid when Synced.
	Position uint32
	Synced   bool
	// Text is the current lyric line when Current, the fallback otherwise.
	Text    string
	Current bool
}

func (f Frame) Idle() bool {
	return f.Snapshot.Player == ""
}

type Sink interface {
	Show(frame Frame)
}

type SinkFunc func(frame Frame)

func (f SinkFunc) Show(frame Frame) {
	f(frame)
}

// LineSink prints one line per frame.
type LineSink struct {
	w      io.Writer
	prefix string
	width  int
}

// NewLineSink writes prefix+text per frame. a positive width truncates lines
// to that many terminal cells.
func NewLineSink(w io.Writer, prefix string, width int) *LineSink {
	return &LineSink{w: w, prefix: prefix, width: width}
}

func (s *LineSink) Show(frame Frame) {
	line := s.prefix + frame.Text
	if s.width > 0 {
		line = runewidth.Truncate(line, s.width, "…")
	}
	_, _ = io.WriteString(s.w, line+"\n")
}
