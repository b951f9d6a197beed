// Package internal contains the byte-level scan mechanics behind the public
// tagline API: delimiter window searches, tag type and parameter extraction,
// and offset-to-position mapping. The public package validates inputs and
// wraps failures in structured errors; everything here assumes a valid window
// and stays pure.
package internal

import "strings"

// FindDelimiters locates the first opening and the first closing delimiter
// inside the window [start, start+count) of text. The two delimiters are
// searched independently of each other, both from start: the reported closing
// index can precede the reported opening index when the text carries a stray
// closing delimiter. Indices are absolute; a miss reports NotFound.
//
// The caller is responsible for window bounds. A non-positive count reports
// a double miss.
func FindDelimiters(text string, start, count int) (openIdx, closeIdx int) {
	if count <= 0 {
		return NotFound, NotFound
	}

	window := text[start : start+count]

	openIdx = strings.IndexByte(window, CharOpenDelimiter)
	closeIdx = strings.IndexByte(window, CharCloseDelimiter)

	if openIdx != NotFound {
		openIdx += start
	}
	if closeIdx != NotFound {
		closeIdx += start
	}

	return openIdx, closeIdx
}
