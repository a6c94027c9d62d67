// Package window cuts bounded slices of a document on either side of a cursor so
// that pattern evaluation costs O(size) regardless of document length.
package window

import (
	"unicode/utf8"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

// DefaultSize is the default maximum byte length of each side of a window.
const DefaultSize = 200

// how far past a window edge we look to find grapheme cluster boundaries
const clusterLookaround = 32

// Window is the text immediately to the left and right of a cursor.
type Window struct {
	// Left ends exactly at Offset.
	Left string
	// Right begins exactly at Offset.
	Right string
	// Offset is the cursor byte offset after clamping.
	Offset int
	// Start and End are the document byte offsets of the outer window edges.
	Start int
	End   int
}

// Extract returns the window around offset. Offsets outside the document are
// clamped rather than rejected, and a size <= 0 selects DefaultSize. Both sides
// are at most size bytes long and never split a code point or a grapheme cluster
// at their outer edge.
func Extract(document string, offset, size int) Window {
	if size <= 0 {
		size = DefaultSize
	}

	offset = Clamp(document, offset)

	start := offset - size
	if start < 0 {
		start = 0
	}
	for start < offset && !utf8.RuneStart(document[start]) {
		start++
	}
	start = snapClusterForward(document, start, offset)

	end := offset + size
	if end > len(document) {
		end = len(document)
	}
	for end > offset && end < len(document) && !utf8.RuneStart(document[end]) {
		end--
	}
	end = snapClusterBackward(document, offset, end)

	return Window{
		Left:   document[start:offset],
		Right:  document[offset:end],
		Offset: offset,
		Start:  start,
		End:    end,
	}
}

// Clamp moves offset into [0, len(document)] and back onto a code point boundary.
func Clamp(document string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(document) {
		return len(document)
	}
	for offset > 0 && offset < len(document) && !utf8.RuneStart(document[offset]) {
		offset--
	}
	return offset
}

// snapClusterForward returns the first grapheme cluster boundary in [start, limit].
func snapClusterForward(document string, start, limit int) int {
	if start == 0 || start == limit {
		return start
	}

	lo := start - clusterLookaround
	if lo < 0 {
		lo = 0
	}
	for lo > 0 && !utf8.RuneStart(document[lo]) {
		lo--
	}

	found := limit
	eachClusterBoundary(document[lo:limit], lo, func(boundary int) bool {
		if boundary >= start {
			found = boundary
			return false
		}
		return true
	})
	return found
}

// snapClusterBackward returns the last grapheme cluster boundary in [from, end].
func snapClusterBackward(document string, from, end int) int {
	if end == len(document) || end == from {
		return end
	}

	hi := end + clusterLookaround
	if hi > len(document) {
		hi = len(document)
	}
	for hi < len(document) && !utf8.RuneStart(document[hi]) {
		hi++
	}

	found := from
	eachClusterBoundary(document[from:hi], from, func(boundary int) bool {
		if boundary > end {
			return false
		}
		found = boundary
		return true
	})
	return found
}

func eachClusterBoundary(s string, base int, fn func(boundary int) bool) {
	data := []byte(s)
	pos := 0
	for pos < len(data) {
		advance, _, err := textseg.ScanGraphemeClusters(data[pos:], true)
		if err != nil || advance <= 0 {
			return
		}
		pos += advance
		if !fn(base + pos) {
			return
		}
	}
}
