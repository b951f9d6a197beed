package tagline

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// FrameKind identifies what a reveal frame carries
type FrameKind int

const (
	// FrameGlyph reveals one glyph of plain text
	FrameGlyph FrameKind = iota
	// FramePause holds the reveal for a wait tag's duration
	FramePause
	// FrameTag hands a non-timing tag through to the host
	FrameTag
)

// Frame kind string values
const (
	FrameKindNameGlyph   = "glyph"
	FrameKindNamePause   = "pause"
	FrameKindNameTag     = "tag"
	FrameKindNameUnknown = "unknown"
)

// String returns the string representation of the frame kind
func (k FrameKind) String() string {
	switch k {
	case FrameGlyph:
		return FrameKindNameGlyph
	case FramePause:
		return FrameKindNamePause
	case FrameTag:
		return FrameKindNameTag
	default:
		return FrameKindNameUnknown
	}
}

// Frame is one step of a reveal sequence.
type Frame struct {
	// Kind discriminates glyph, pause, and tag frames
	Kind FrameKind
	// Glyph is the revealed rune (glyph frames only)
	Glyph rune
	// Text is the plain text revealed up to and including this frame
	Text string
	// Tag is the scanned tag (pause and tag frames only)
	Tag *Tag
	// Delay is how long playback rests after delivering this frame
	Delay time.Duration
	// Offset is the byte offset of the frame's source in the original text
	Offset int
}

// Typewriter turns tagged dialogue text into a timed reveal sequence.
// Wait tags become pauses, speed tags scale the glyph rate, and every
// other tag is handed through for the host to interpret. A Typewriter
// is safe for concurrent use.
type Typewriter struct {
	scanner *Scanner
	profile *Profile
	logger  *zap.Logger
}

// NewTypewriter creates a Typewriter with the given options. The
// profile is validated up front so sequencing never runs against a
// broken one.
func NewTypewriter(opts ...TypewriterOption) (*Typewriter, error) {
	config := defaultTypewriterConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	profile := config.profile
	if profile == nil {
		profile = DefaultProfile()
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	scanner := config.scanner
	if scanner == nil {
		scanner = NewScanner(WithLogger(logger))
	}

	logger.Debug(LogMsgTypewriterCreated)

	return &Typewriter{
		scanner: scanner,
		profile: profile,
		logger:  logger,
	}, nil
}

// MustNewTypewriter creates a Typewriter and panics if there's an error.
func MustNewTypewriter(opts ...TypewriterOption) *Typewriter {
	tw, err := NewTypewriter(opts...)
	if err != nil {
		panic(err)
	}
	return tw
}

// Sequence computes the deterministic reveal plan for text. Glyph
// frames carry the profile's base delay scaled by the active speed
// multiplier, plus the punctuation pause after pause-bearing glyphs.
// Wait tags become pause frames, speed tags adjust the multiplier
// without producing a frame (a closing speed tag resets it), and all
// other tags pass through as tag frames. Malformed markup and
// uninterpretable wait/speed parameters fail loudly.
func (tw *Typewriter) Sequence(text string) ([]Frame, error) {
	tw.logger.Debug(LogMsgSequenceStart, zap.Int(LogFieldTextLength, len(text)))

	var frames []Frame
	var revealed strings.Builder
	speed := float64(DefaultSpeedMultiplier)

	for i := 0; i < len(text); {
		if IsOpeningDelimiter(text[i]) {
			tag, err := tw.scanner.ParseNextIn(text, i, len(text)-1)
			if err != nil {
				return nil, err
			}
			if tag == nil {
				return nil, NewMalformedTagError(positionAt(text, i))
			}

			switch tag.Type() {
			case tw.profile.WaitTag:
				frame, err := waitFrame(tag, i)
				if err != nil {
					return nil, err
				}
				frame.Text = revealed.String()
				frames = append(frames, frame)
			case tw.profile.SpeedTag:
				speed, err = speedMultiplier(tag)
				if err != nil {
					return nil, err
				}
			default:
				frames = append(frames, Frame{
					Kind:   FrameTag,
					Text:   revealed.String(),
					Tag:    tag,
					Offset: i,
				})
			}

			i += tag.Len()
			continue
		}

		glyph, size := utf8.DecodeRuneInString(text[i:])
		revealed.WriteRune(glyph)
		frames = append(frames, Frame{
			Kind:   FrameGlyph,
			Glyph:  glyph,
			Text:   revealed.String(),
			Delay:  tw.profile.GlyphDelay(speed) + tw.profile.PauseAfter(glyph),
			Offset: i,
		})
		i += size
	}

	tw.logger.Debug(LogMsgSequenceEnd, zap.Int(LogFieldFrames, len(frames)))
	return frames, nil
}

// Play runs the reveal sequence against real time, delivering each
// frame to fn and then resting for the frame's delay. Context
// cancellation aborts between frames; a handler error aborts
// immediately.
func (tw *Typewriter) Play(ctx context.Context, text string, fn func(Frame) error) error {
	if fn == nil {
		return NewNilFrameHandlerError()
	}

	frames, err := tw.Sequence(text)
	if err != nil {
		return err
	}

	tw.logger.Debug(LogMsgPlaybackStart, zap.Int(LogFieldFrames, len(frames)))

	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(frame); err != nil {
			return err
		}
		if frame.Delay <= 0 {
			continue
		}

		timer := time.NewTimer(frame.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	tw.logger.Debug(LogMsgPlaybackEnd)
	return nil
}

// PlainText returns text with every markup tag removed: the final
// string a host lays out against.
func (tw *Typewriter) PlainText(text string) (string, error) {
	return tw.scanner.StripAll(text)
}

// waitFrame builds the pause frame for a wait tag. The parameter is a
// duration in seconds, fractions allowed.
func waitFrame(tag *Tag, offset int) (Frame, error) {
	seconds, err := strconv.ParseFloat(tag.Parameter(), 64)
	if err != nil {
		return Frame{}, NewInvalidTagParameterError(tag.Type(), tag.Parameter(), err)
	}
	if seconds < 0 {
		return Frame{}, NewInvalidTagParameterError(tag.Type(), tag.Parameter(), nil)
	}

	return Frame{
		Kind:   FramePause,
		Tag:    tag,
		Delay:  time.Duration(seconds * float64(time.Second)),
		Offset: offset,
	}, nil
}

// speedMultiplier interprets a speed tag: an opening tag's parameter is
// the new multiplier, a closing tag restores the default.
func speedMultiplier(tag *Tag) (float64, error) {
	if tag.IsClosing() {
		return DefaultSpeedMultiplier, nil
	}

	value, err := strconv.ParseFloat(tag.Parameter(), 64)
	if err != nil {
		return 0, NewInvalidTagParameterError(tag.Type(), tag.Parameter(), err)
	}
	if value <= 0 {
		return 0, NewInvalidTagParameterError(tag.Type(), tag.Parameter(), nil)
	}
	return value, nil
}
