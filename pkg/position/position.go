package position

import "strings"

// Place is a zero-based line and character, characters counted in bytes.
type Place struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Place `json:"start"`
	End   Place `json:"end"`
}

// RawPosition represents a position in the source text
type RawPosition struct {
	// Offset is the byte offset in the source text
	Offset int
	// Text is the text starting at this position, empty for a bare cursor
	Text string
}

func (p RawPosition) Length() int {
	return len(p.Text)
}

func NewBasicPosition(text string, offset int) RawPosition {
	return RawPosition{Text: text, Offset: offset}
}

// Offset returns the byte offset of a zero-based line and column. Lines past the
// end clamp to the end of the text and columns past the end of a line clamp to the
// end of that line, editors send slightly stale positions while typing.
func Offset(fileText string, line, col int) int {
	if line < 0 {
		return 0
	}

	offset := 0
	for i := 0; i < line; i++ {
		next := strings.IndexByte(fileText[offset:], '\n')
		if next == -1 {
			return len(fileText)
		}
		offset += next + 1
	}

	lineEnd := strings.IndexByte(fileText[offset:], '\n')
	if lineEnd == -1 {
		lineEnd = len(fileText) - offset
	}
	lineEnd = offset + lineEnd
	if lineEnd > offset && fileText[lineEnd-1] == '\r' {
		lineEnd--
	}

	if col < 0 {
		col = 0
	}
	if offset+col > lineEnd {
		return lineEnd
	}
	return offset + col
}

// GetLineAndColumn calculates the line and column number for a given position in the text
// Returns zero-based line and column numbers
func (p RawPosition) GetLineAndColumn(text string) (line, col int) {
	offset := p.Offset
	if offset > len(text) {
		offset = len(text)
	}
	if offset <= 0 {
		return 0, 0
	}

	line = strings.Count(text[:offset], "\n")
	lastNewline := strings.LastIndexByte(text[:offset], '\n')

	return line, offset - lastNewline - 1
}

func (p RawPosition) GetEndPosition() RawPosition {
	return RawPosition{
		Text:   "",
		Offset: p.Offset + p.Length(),
	}
}

// GetRange calculates the line/column range covered by the position's text
func (p RawPosition) GetRange(fileText string) Range {
	startLine, startCol := p.GetLineAndColumn(fileText)
	endLine, endCol := p.GetEndPosition().GetLineAndColumn(fileText)
	return Range{
		Start: Place{Line: startLine, Character: startCol},
		End:   Place{Line: endLine, Character: endCol},
	}
}
