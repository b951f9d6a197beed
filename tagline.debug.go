package tagline

import (
	"fmt"
	"strings"

	"github.com/itsatony/go-tagline/internal"
	"go.uber.org/zap"
)

// InspectResult contains the results of a diagnostic scan.
// Inspect reports structural issues as warnings instead of failing,
// so the result describes even text the strict scan walks reject.
type InspectResult struct {
	// Valid indicates the text carries no structural warnings
	Valid bool

	// Tags lists every tag occurrence in scan order
	Tags []TagReference

	// PlainText is the text with all tags removed (best effort)
	PlainText string

	// Warnings contains structural issues found during the scan
	Warnings []string
}

// TagReference describes one tag occurrence in inspected text.
type TagReference struct {
	RawText   string // Exact tag text, delimiters included
	Type      string // Tag type, leading slashes stripped
	Parameter string // Parameter after "=", quotes stripped
	Closing   bool   // Whether this is a closing tag
	Offset    int    // Byte offset of the opening delimiter
	Line      int    // 1-indexed source line
	Column    int    // 1-indexed source column
}

// Inspect scans text and reports every tag occurrence, the plain text,
// and structural issues. Unlike the strict walks (Tags, StripAll), a
// malformed structure produces a warning, never an error: an opening
// delimiter that is never closed, a stray closing delimiter that would
// reverse a delimiter search, and a closing delimiter sitting on the
// final byte (outside every scan window) are all reported and the scan
// continues or degrades to plain text.
func (s *Scanner) Inspect(text string) (*InspectResult, error) {
	result := &InspectResult{
		Valid:    true,
		Tags:     make([]TagReference, 0),
		Warnings: make([]string, 0),
	}

	var plain strings.Builder
	plain.Grow(len(text))

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if ch == ClosingDelimiter {
			// A bare closing delimiter reverses any delimiter search
			// that starts before it and finds an opening delimiter
			// after it.
			if strings.IndexByte(text[i+1:], OpeningDelimiter) != internal.NotFound {
				line, column := internal.LocateOffset(text, i)
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("line %d, column %d: closing delimiter precedes the next opening delimiter", line, column))
			}
			plain.WriteByte(ch)
			continue
		}

		if !IsOpeningDelimiter(ch) {
			plain.WriteByte(ch)
			continue
		}

		tag, err := s.ParseNextIn(text, i, len(text)-1)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			plain.WriteString(text[i:])
			break
		}
		if tag == nil {
			line, column := internal.LocateOffset(text, i)
			if len(text) > 0 && text[len(text)-1] == ClosingDelimiter {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("line %d, column %d: closing delimiter at the final byte is outside every scan window", line, column))
			} else {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("line %d, column %d: opening delimiter is never closed", line, column))
			}
			// No complete tag remains; the rest is plain text.
			plain.WriteString(text[i:])
			break
		}

		line, column := internal.LocateOffset(text, i)
		result.Tags = append(result.Tags, TagReference{
			RawText:   tag.RawText(),
			Type:      tag.Type(),
			Parameter: tag.Parameter(),
			Closing:   tag.IsClosing(),
			Offset:    i,
			Line:      line,
			Column:    column,
		})

		i += tag.Len() - 1
	}

	result.PlainText = plain.String()
	if len(result.Warnings) > 0 {
		result.Valid = false
	}

	s.logger.Debug(LogMsgTextInspected,
		zap.Int(LogFieldTags, len(result.Tags)),
		zap.Int(LogFieldWarnings, len(result.Warnings)))

	return result, nil
}

// String returns a human-readable summary of the inspect result.
func (r *InspectResult) String() string {
	var sb strings.Builder

	sb.WriteString("=== Inspect Result ===\n")
	sb.WriteString(fmt.Sprintf("Valid: %v\n", r.Valid))

	if len(r.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("\nTags (%d):\n", len(r.Tags)))
		for _, ref := range r.Tags {
			sb.WriteString(fmt.Sprintf("  - %s [line %d, column %d]", ref.RawText, ref.Line, ref.Column))
			if ref.Closing {
				sb.WriteString(" closing")
			} else if ref.Parameter != "" {
				sb.WriteString(fmt.Sprintf(" %s=%q", ref.Type, ref.Parameter))
			} else {
				sb.WriteString(" " + ref.Type)
			}
			sb.WriteString("\n")
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("\nWarnings (%d):\n", len(r.Warnings)))
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", w))
		}
	}

	sb.WriteString("\n=== Plain Text ===\n")
	sb.WriteString(r.PlainText)
	sb.WriteString("\n")

	return sb.String()
}
