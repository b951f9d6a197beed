package tagline

import (
	"github.com/itsatony/go-tagline/internal"
)

// Tag is an immutable inline markup tag scanned out of dialogue text.
// Every derived field is computed once at construction; a Tag never
// reinterprets its raw text afterwards.
type Tag struct {
	raw       string
	tagType   string
	parameter string
	closing   bool
}

// NewTag constructs a Tag from raw tag text, delimiters included.
// The raw text is taken as-is: NewTag(t).RawText() == t for any t.
func NewTag(raw string) Tag {
	return Tag{
		raw:       raw,
		tagType:   internal.TagName(raw),
		parameter: internal.TagParameter(raw),
		closing:   internal.IsClosingTag(raw),
	}
}

// ClearColorTag returns the well-known fully transparent color tag,
// built through the same construction path as any scanned tag.
func ClearColorTag() Tag {
	return NewTag(ClearColorTagText)
}

// RawText returns the exact tag text, delimiters included.
func (t Tag) RawText() string {
	return t.raw
}

// Type returns the tag type: the text between the delimiters with all
// leading slashes stripped, truncated at the first "=".
func (t Tag) Type() string {
	return t.tagType
}

// Parameter returns the value after the first "=" in the raw text, with
// one enclosing pair of double quotes removed. Empty when the tag
// carries no parameter.
func (t Tag) Parameter() string {
	return t.parameter
}

// IsClosing reports whether the tag is a closing tag (</...>).
func (t Tag) IsClosing() bool {
	return t.closing
}

// IsOpening reports whether the tag is an opening tag.
func (t Tag) IsOpening() bool {
	return !t.closing
}

// Len returns the byte length of the raw tag text. Scan arithmetic is
// byte-indexed throughout, so this is a byte count rather than a rune
// count.
func (t Tag) Len() int {
	return len(t.raw)
}

// ClosingText returns the closing counterpart of the tag: the tag's own
// raw text when it is already closing, otherwise "</" + Type() + ">".
// Parameters never carry over into closing text.
func (t Tag) ClosingText() string {
	if t.closing {
		return t.raw
	}
	return ClosingTagPrefix + t.tagType + ClosingTagSuffix
}

// String implements fmt.Stringer and returns the raw tag text.
func (t Tag) String() string {
	return t.raw
}
