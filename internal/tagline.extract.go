package internal

import "strings"

// TagName extracts the tag type from raw tag text. The delimiters (first and
// last byte) are dropped, leading slashes are stripped so opening and closing
// forms of a tag share one type, and everything from the first equals sign on
// is cut away. Raw text shorter than two bytes has no inner body and yields
// the empty type.
func TagName(raw string) string {
	if len(raw) < MinRawLength {
		return ""
	}

	inner := raw[1 : len(raw)-1]

	for len(inner) > 0 && inner[0] == CharSlash {
		inner = inner[1:]
	}

	if eq := strings.IndexByte(inner, CharEquals); eq != NotFound {
		inner = inner[:eq]
	}

	return inner
}

// TagParameter extracts the parameter value from raw tag text: the span after
// the first equals sign up to, but not including, the final delimiter byte.
// Raw text without an equals sign, or where that span is empty or negative,
// yields the empty parameter. A single enclosing double-quote pair is
// stripped; inner quotes are kept verbatim.
func TagParameter(raw string) string {
	eq := strings.IndexByte(raw, CharEquals)
	if eq == NotFound {
		return ""
	}

	if len(raw)-eq-ParameterTailOffset <= 0 {
		return ""
	}

	return StripQuotes(raw[eq+1 : len(raw)-1])
}

// StripQuotes removes exactly one layer of enclosing double quotes. Values
// that are not fully wrapped, or too short to carry a pair, pass through
// unchanged.
func StripQuotes(value string) string {
	if len(value) >= MinQuotedParameterLength &&
		value[0] == CharDoubleQuote &&
		value[len(value)-1] == CharDoubleQuote {
		return value[1 : len(value)-1]
	}
	return value
}

// IsClosingTag reports whether raw tag text denotes a closing tag: the raw
// text must be longer than the bare delimiter pair and carry a slash as its
// second byte.
func IsClosingTag(raw string) bool {
	return len(raw) > MinClosingRawLength && raw[1] == CharSlash
}
