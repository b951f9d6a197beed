package tagline

import (
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-tagline/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Scan errors
	ErrMsgMalformedTag       = "malformed tag: opening delimiter is never closed"
	ErrMsgReversedDelimiters = "malformed tag: closing delimiter precedes opening delimiter"
	ErrMsgInvalidScanWindow  = "invalid scan window"

	// Sequencing errors
	ErrMsgInvalidTagParameter = "invalid tag parameter"
	ErrMsgNilFrameHandler     = "frame handler cannot be nil"

	// Profile errors
	ErrMsgInvalidProfile     = "invalid reveal profile"
	ErrMsgProfileParseFailed = "profile parsing failed"

	// Script document errors
	ErrMsgInvalidScript           = "invalid script document"
	ErrMsgScriptParseFailed       = "script parsing failed"
	ErrMsgScriptTooLarge          = "script document exceeds size limit"
	ErrMsgFrontmatterTooLarge     = "script frontmatter exceeds size limit"
	ErrMsgUnterminatedFrontmatter = "unterminated script frontmatter"
)

// Error code constants for categorization
const (
	ErrCodeScan    = "TAGLINE_SCAN"
	ErrCodePlay    = "TAGLINE_PLAY"
	ErrCodeProfile = "TAGLINE_PROFILE"
	ErrCodeScript  = "TAGLINE_SCRIPT"
)

// Position represents a location in scanned text
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// positionAt computes the Position of a byte offset within text.
func positionAt(text string, offset int) Position {
	line, column := internal.LocateOffset(text, offset)
	return Position{Offset: offset, Line: line, Column: column}
}

// NewMalformedTagError creates an error for an opening delimiter that is
// never closed within the scanned window.
func NewMalformedTagError(pos Position) error {
	return cuserr.NewValidationError(ErrCodeScan, ErrMsgMalformedTag).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewReversedDelimitersError creates an error for a window whose first
// closing delimiter sits before its first opening delimiter.
func NewReversedDelimitersError(openOffset, closeOffset int, pos Position) error {
	return cuserr.NewValidationError(ErrCodeScan, ErrMsgReversedDelimiters).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOpenOffset, strconv.Itoa(openOffset)).
		WithMetadata(MetaKeyCloseOffset, strconv.Itoa(closeOffset))
}

// NewInvalidScanWindowError creates an error for out-of-range window bounds.
func NewInvalidScanWindowError(start, end, length int) error {
	return cuserr.NewValidationError(ErrCodeScan, ErrMsgInvalidScanWindow).
		WithMetadata(MetaKeyStart, strconv.Itoa(start)).
		WithMetadata(MetaKeyEnd, strconv.Itoa(end)).
		WithMetadata(MetaKeyLength, strconv.Itoa(length))
}

// NewInvalidTagParameterError creates an error for a tag parameter that
// cannot be interpreted by the sequencer
func NewInvalidTagParameterError(tagType, value string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeScan, ErrMsgInvalidTagParameter)
	} else {
		err = cuserr.NewValidationError(ErrCodeScan, ErrMsgInvalidTagParameter)
	}
	return err.
		WithMetadata(MetaKeyTagType, tagType).
		WithMetadata(MetaKeyValue, value)
}

// NewNilFrameHandlerError creates an error for playback without a handler.
func NewNilFrameHandlerError() error {
	return cuserr.NewValidationError(ErrCodePlay, ErrMsgNilFrameHandler)
}

// NewProfileValidationError creates a profile validation error
func NewProfileValidationError(field, reason string) error {
	return cuserr.NewValidationError(ErrCodeProfile, ErrMsgInvalidProfile).
		WithMetadata(MetaKeyField, field).
		WithMetadata(MetaKeyReason, reason)
}

// NewProfileParseError creates an error for unparseable profile YAML
func NewProfileParseError(cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeProfile, ErrMsgProfileParseFailed)
}

// NewScriptValidationError creates a script document validation error
func NewScriptValidationError(field, reason string) error {
	return cuserr.NewValidationError(ErrCodeScript, ErrMsgInvalidScript).
		WithMetadata(MetaKeyField, field).
		WithMetadata(MetaKeyReason, reason)
}

// NewScriptParseError creates a script parsing error with optional cause
func NewScriptParseError(msg string, cause error) error {
	if cause != nil {
		return cuserr.WrapStdError(cause, ErrCodeScript, msg)
	}
	return cuserr.NewValidationError(ErrCodeScript, msg)
}

// NewScriptTooLargeError creates an error for oversized script documents
func NewScriptTooLargeError(size, limit int) error {
	return cuserr.NewValidationError(ErrCodeScript, ErrMsgScriptTooLarge).
		WithMetadata(MetaKeyActual, strconv.Itoa(size)).
		WithMetadata(MetaKeyExpected, strconv.Itoa(limit))
}
