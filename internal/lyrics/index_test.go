package lyrics

import (
	"testing"
)

func TestParseDocument(t *testing.T) {
	document := "[ti:Some Song]\n" +
		"[ar:Someone]\n" +
		"\n" +
		"[00:01.20]first line\n" +
		"[00:05.99]  second line  \r\n" +
		"[00:09.00]\n" +
		"no brackets here\n" +
		"[xx:yy]bad stamp\n" +
		"[01:02]third line\n" +
		"[00:12.5][00:13]nested stamp\n"

	index := Parse(document)

	expected := []Line{
		{Seconds: 1, Text: "first line"},
		{Seconds: 5, Text: "second line"},
		{Seconds: 12, Text: "[00:13]nested stamp"},
		{Seconds: 62, Text: "third line"},
	}

	lines := index.Lines()
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d: %+v", len(expected), len(lines), lines)
	}
	for i, line := range lines {
		if line != expected[i] {
			t.Errorf("line %d = %+v, want %+v", i, line, expected[i])
		}
	}
}

func TestParseDuplicateTimestampLastWins(t *testing.T) {
	index := Parse("[0:10]first\n[0:10]second")

	if index.Len() != 1 {
		t.Fatalf("expected 1 line, got %d", index.Len())
	}
	text, ok := index.Resolve(10)
	if !ok || text != "second" {
		t.Errorf("Resolve(10) = (%q, %v), want second", text, ok)
	}
}

func TestParseTruncatesSubSecond(t *testing.T) {
	for _, document := range []string{"[0:10.500]hello", "[0:10.999]hello", "[0:10]hello"} {
		lines := Parse(document).Lines()
		if len(lines) != 1 || lines[0].Seconds != 10 {
			t.Errorf("Parse(%q) = %+v, want key 10", document, lines)
		}
	}
}

func TestParseIsIdempotent(t *testing.T) {
	document := "[0:00]a\n[0:03.40]b\n[0:03.90]c\n[1:00]d"

	first := Parse(document)
	second := Parse(document)
	if !first.Equal(second) {
		t.Errorf("parsing twice gave different indexes: %+v vs %+v", first.Lines(), second.Lines())
	}
}

func TestParseEmptyDocument(t *testing.T) {
	for _, document := range []string{"", "\n\n", "[ti:only metadata]", "plain text lyrics"} {
		index := Parse(document)
		if index.Len() != 0 {
			t.Errorf("Parse(%q) expected empty index, got %+v", document, index.Lines())
		}
	}
}

func TestResolve(t *testing.T) {
	index := NewIndex(map[uint32]string{5: "a", 10: "b", 20: "c"})

	tests := []struct {
		position uint32
		text     string
		ok       bool
	}{
		{0, "", false},
		{3, "", false},
		{5, "a", true},
		{9, "a", true},
		{12, "b", true},
		{20, "c", true},
		{100, "c", true},
	}

	for _, tc := range tests {
		text, ok := index.Resolve(tc.position)
		if text != tc.text || ok != tc.ok {
			t.Errorf("Resolve(%d) = (%q, %v), want (%q, %v)", tc.position, text, ok, tc.text, tc.ok)
		}
	}
}

func TestResolveZeroTimestamp(t *testing.T) {
	index := Parse("[0:00]Line one\n[0:10]Line two")

	text, ok := index.Resolve(5)
	if !ok || text != "Line one" {
		t.Errorf("Resolve(5) = (%q, %v), want Line one", text, ok)
	}
}

func TestResolveEmptyIndex(t *testing.T) {
	var nilIndex *Index
	for _, index := range []*Index{nilIndex, NewIndex(nil), Parse("")} {
		for _, position := range []uint32{0, 1, 1000} {
			if text, ok := index.Resolve(position); ok {
				t.Errorf("empty index resolved %d to %q", position, text)
			}
		}
	}
}

func TestNewIndexCopiesInput(t *testing.T) {
	source := map[uint32]string{1: "a"}
	index := NewIndex(source)
	source[1] = "changed"

	if text, _ := index.Resolve(1); text != "a" {
		t.Errorf("index shares caller map: got %q", text)
	}
}
