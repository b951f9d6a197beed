package tagline

import (
	"strings"

	"github.com/itsatony/go-tagline/internal"
	"go.uber.org/zap"
)

// IsOpeningDelimiter reports whether ch begins a markup tag.
func IsOpeningDelimiter(ch byte) bool {
	return ch == OpeningDelimiter
}

// Scanner scans dialogue text for inline markup tags. A Scanner holds
// no state besides its logger and is safe for concurrent use.
type Scanner struct {
	logger *zap.Logger
}

// NewScanner creates a Scanner with the given options.
func NewScanner(opts ...ScannerOption) *Scanner {
	config := defaultScannerConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgScannerCreated)

	return &Scanner{logger: logger}
}

// ParseNext scans all of text for the first markup tag. It returns
// (nil, nil) when no tag is present; absence is a normal termination
// condition, not an error.
//
// ParseNext delegates to ParseNextIn with the window [0, len(text)-1],
// so a tag whose closing delimiter is the final byte of text is not
// found (see the window arithmetic on ParseNextIn).
func (s *Scanner) ParseNext(text string) (*Tag, error) {
	return s.ParseNextIn(text, 0, len(text)-1)
}

// ParseNextIn scans text for the first markup tag at or after start.
// end is the inclusive end index of the scan, but the searched window
// spans exactly end - start bytes: the byte at end itself is never
// searched. Both delimiters are located independently from start, so
// the candidate tag runs from the first "<" anywhere in the window to
// the first ">" anywhere in the window.
//
// Outcomes:
//   - both delimiters found in order: the tag between them, inclusive.
//   - degenerate window (end - start <= 0) or either delimiter missing:
//     (nil, nil). Absence is not an error.
//   - window out of range, or the located ">" precedes the located "<":
//     a descriptive error.
func (s *Scanner) ParseNextIn(text string, start, end int) (*Tag, error) {
	if start < 0 || start > len(text) || end > len(text)-1 {
		return nil, NewInvalidScanWindowError(start, end, len(text))
	}

	count := end - start
	if count <= 0 {
		return nil, nil
	}

	openIdx, closeIdx := internal.FindDelimiters(text, start, count)
	if openIdx == internal.NotFound || closeIdx == internal.NotFound {
		return nil, nil
	}
	if closeIdx < openIdx {
		return nil, NewReversedDelimitersError(openIdx, closeIdx, positionAt(text, closeIdx))
	}

	tag := NewTag(text[openIdx : closeIdx+1])
	s.logger.Debug(LogMsgTagParsed,
		zap.String(LogFieldTag, tag.RawText()),
		zap.Int(LogFieldOffset, openIdx))
	return &tag, nil
}

// RemoveTags removes every tag of the given type from text and returns
// the result. The text is walked byte by byte; every "<" reached by the
// walk must begin a complete tag or the walk fails with a malformed tag
// error carrying the offending position.
//
// A type match removes ALL textually identical occurrences of the
// matched tag in one pass over the remaining text, so later identical
// tags are already gone when the walk reaches their positions. Tags of
// the same type with different parameters are separate matches and are
// removed on the iteration that reaches them. Matched or not, the walk
// advances past the scanned tag.
func (s *Scanner) RemoveTags(text string, tagType string) (string, error) {
	removed := 0
	for i := 0; i < len(text); i++ {
		if !IsOpeningDelimiter(text[i]) {
			continue
		}

		tag, err := s.ParseNextIn(text, i, len(text)-1)
		if err != nil {
			return "", err
		}
		if tag == nil {
			return "", NewMalformedTagError(positionAt(text, i))
		}

		if tag.Type() == tagType {
			raw := tag.RawText()
			removed += strings.Count(text, raw)
			text = strings.ReplaceAll(text, raw, "")
		}
		// Advance past the scanned tag; the loop increment adds the
		// final step.
		i += tag.Len() - 1
	}

	s.logger.Debug(LogMsgTagsRemoved,
		zap.String(LogFieldTagType, tagType),
		zap.Int(LogFieldRemoved, removed))
	return text, nil
}

// StripAll removes every markup tag from text and returns the plain
// dialogue string. The walk and its failure modes match RemoveTags.
func (s *Scanner) StripAll(text string) (string, error) {
	var plain strings.Builder
	plain.Grow(len(text))

	for i := 0; i < len(text); i++ {
		if !IsOpeningDelimiter(text[i]) {
			plain.WriteByte(text[i])
			continue
		}

		tag, err := s.ParseNextIn(text, i, len(text)-1)
		if err != nil {
			return "", err
		}
		if tag == nil {
			return "", NewMalformedTagError(positionAt(text, i))
		}
		i += tag.Len() - 1
	}

	return plain.String(), nil
}

// Tags collects every markup tag in text in scan order. The walk and
// its failure modes match RemoveTags.
func (s *Scanner) Tags(text string) ([]Tag, error) {
	var tags []Tag
	for i := 0; i < len(text); i++ {
		if !IsOpeningDelimiter(text[i]) {
			continue
		}

		tag, err := s.ParseNextIn(text, i, len(text)-1)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			return nil, NewMalformedTagError(positionAt(text, i))
		}

		tags = append(tags, *tag)
		i += tag.Len() - 1
	}

	return tags, nil
}
