// Package document converts between byte offsets and line/character positions
// for a single source file.
package document

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrBadLocation is matched (via errors.Is) by every BadLocationError.
var ErrBadLocation = errors.New("bad location")

// BadLocationError reports an offset/length outside the document.
type BadLocationError struct {
	Offset int
	Length int
	Size   int
}

func (e *BadLocationError) Error() string {
	return fmt.Sprintf("bad location: offset %d length %d outside document of %d bytes", e.Offset, e.Length, e.Size)
}

func (e *BadLocationError) Is(target error) bool { return target == ErrBadLocation }

// Position is a 0-based line and character. Character counts UTF-16 code
// units, matching the language server protocol.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open [Start, End) span of positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether p is inside r (end inclusive).
func (r Range) Contains(p Position) bool {
	return !less(p, r.Start) && !less(r.End, p)
}

func less(a, b Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Character < b.Character
}

// TextDocument is an immutable source text with a precomputed line table.
type TextDocument struct {
	uri        string
	text       string
	lineStarts []int
}

// New builds a TextDocument. Lines are split on "\n"; a preceding "\r" stays
// part of the line content.
func New(uri, text string) *TextDocument {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &TextDocument{uri: uri, text: text, lineStarts: starts}
}

// URI returns the document identifier.
func (d *TextDocument) URI() string { return d.uri }

// Text returns the full document text.
func (d *TextDocument) Text() string { return d.text }

// LineCount returns the number of lines.
func (d *TextDocument) LineCount() int { return len(d.lineStarts) }

// ToRange converts a byte offset and length into a Range.
func (d *TextDocument) ToRange(offset, length int) (Range, error) {
	if offset < 0 || length < 0 || offset > len(d.text) || length > len(d.text)-offset {
		return Range{}, &BadLocationError{Offset: offset, Length: length, Size: len(d.text)}
	}
	return Range{
		Start: d.position(offset),
		End:   d.position(offset + length),
	}, nil
}

// PositionToOffset converts a position back into a byte offset. A character
// past the end of its line clamps to the line end.
func (d *TextDocument) PositionToOffset(p Position) (int, error) {
	if p.Line < 0 || p.Line >= len(d.lineStarts) || p.Character < 0 {
		return 0, &BadLocationError{Offset: p.Line, Length: p.Character, Size: len(d.text)}
	}
	start := d.lineStarts[p.Line]
	end := len(d.text)
	if p.Line+1 < len(d.lineStarts) {
		end = d.lineStarts[p.Line+1] - 1
	}
	units := 0
	off := start
	for off < end && units < p.Character {
		r, size := utf8.DecodeRuneInString(d.text[off:])
		units += utf16.RuneLen(r)
		off += size
	}
	return off, nil
}

func (d *TextDocument) position(offset int) Position {
	line := sort.Search(len(d.lineStarts), func(i int) bool { return d.lineStarts[i] > offset }) - 1
	start := d.lineStarts[line]
	char := 0
	for _, r := range d.text[start:offset] {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		char += n
	}
	return Position{Line: line, Character: char}
}
