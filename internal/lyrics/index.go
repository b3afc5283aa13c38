package lyrics

import (
	"slices"
	"sort"
	"strings"
)

type Line struct {
	Seconds uint32
	Text    string
}

// Index maps whole-second timestamps to lyric text for one track. it is built
// once by Parse and never mutated afterwards.
type Index struct {
	lines map[uint32]string
	keys  []uint32
}

func NewIndex(lines map[uint32]string) *Index {
	keys := make([]uint32, 0, len(lines))
	copied := make(map[uint32]string, len(lines))
	for seconds, text := range lines {
		keys = append(keys, seconds)
		copied[seconds] = text
	}
	slices.Sort(keys)

	return &Index{lines: copied, keys: keys}
}

// Parse builds an index from a timed lyric document. malformed lines are
// skipped, and a later line wins when two share the same second.
func Parse(document string) *Index {
	lines := make(map[uint32]string)

	for _, raw := range strings.Split(document, "\n") {
		seconds, text, ok := parseLine(strings.TrimSuffix(raw, "\r"))
		if !ok {
			continue
		}
		lines[seconds] = text
	}

	return NewIndex(lines)
}

func parseLine(line string) (uint32, string, bool) {
	timePart, text, found := strings.Cut(line, "]")
	if !found {
		return 0, "", false
	}

	timePart, found = strings.CutPrefix(timePart, "[")
	if !found {
		return 0, "", false
	}

	// drop sub-second precision
	timePart, _, _ = strings.Cut(timePart, ".")

	seconds, err := ParseDuration(timePart)
	if err != nil {
		return 0, "", false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return 0, "", false
	}

	return seconds, text, true
}

func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.keys)
}

// Resolve returns the line with the largest timestamp not after position.
func (x *Index) Resolve(position uint32) (string, bool) {
	if x.Len() == 0 {
		return "", false
	}

	i := sort.Search(len(x.keys), func(i int) bool { return x.keys[i] > position }) - 1
	if i < 0 {
		return "", false
	}

	return x.lines[x.keys[i]], true
}

// Lines returns the index contents in ascending timestamp order.
func (x *Index) Lines() []Line {
	if x.Len() == 0 {
		return nil
	}

	result := make([]Line, 0, len(x.keys))
	for _, seconds := range x.keys {
		result = append(result, Line{Seconds: seconds, Text: x.lines[seconds]})
	}
	return result
}

func (x *Index) Equal(other *Index) bool {
	if x.Len() != other.Len() {
		return false
	}
	for _, line := range x.Lines() {
		text, ok := other.lines[line.Seconds]
		if !ok || text != line.Text {
			return false
		}
	}
	return true
}
