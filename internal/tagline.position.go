package internal

// LocateOffset maps a byte offset within text to 1-indexed line and column
// numbers. Offsets beyond the text clamp to its end; negative offsets clamp
// to the start.
func LocateOffset(text string, offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	line = FirstLine
	column = FirstColumn

	for i := 0; i < offset; i++ {
		if text[i] == CharNewline {
			line++
			column = FirstColumn
		} else {
			column++
		}
	}

	return line, column
}
