package internal

// Character constants
const (
	CharOpenDelimiter  = '<'
	CharCloseDelimiter = '>'
	CharEquals         = '='
	CharDoubleQuote    = '"'
	CharSlash          = '/'
	CharNewline        = '\n'
)

// NotFound is the index reported for a missed delimiter search.
const NotFound = -1

// Raw text length thresholds
const (
	// MinRawLength is the shortest raw text that still has an inner body
	// once the two delimiter bytes are dropped.
	MinRawLength = 2

	// MinClosingRawLength is the length a raw text must exceed for its
	// second byte to mark it as a closing tag.
	MinClosingRawLength = 2

	// MinQuotedParameterLength is the shortest parameter that can carry an
	// enclosing quote pair.
	MinQuotedParameterLength = 2
)

// Parameter length arithmetic: the parameter spans from the byte after the
// first equals sign up to, but not including, the final delimiter byte.
const ParameterTailOffset = 2

// Position constants
const (
	FirstLine   = 1
	FirstColumn = 1
)
