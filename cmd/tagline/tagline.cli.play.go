package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/itsatony/go-tagline"
)

// playConfig holds parsed play command configuration
type playConfig struct {
	inputPath   string
	profilePath string
	format      string
	timed       bool
}

// playOutput represents JSON output for play
type playOutput struct {
	Frames     []playFrameOutput `json:"frames"`
	TotalDelay string            `json:"total_delay"`
}

type playFrameOutput struct {
	Kind   string `json:"kind"`
	Glyph  string `json:"glyph,omitempty"`
	Text   string `json:"text"`
	Tag    string `json:"tag,omitempty"`
	Delay  string `json:"delay"`
	Offset int    `json:"offset"`
}

func runPlay(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parsePlayFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingInput, err)
		return ExitCodeUsageError
	}

	// Read text
	text, err := readInput(cfg.inputPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	// Load the reveal profile if one was given
	var opts []tagline.TypewriterOption
	if cfg.profilePath != "" {
		profileBytes, err := os.ReadFile(cfg.profilePath)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgProfileLoadFailed, err)
			return ExitCodeInputError
		}
		profile, err := tagline.ParseProfile(profileBytes)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgProfileLoadFailed, err)
			return ExitCodeInputError
		}
		opts = append(opts, tagline.WithProfile(profile))
	}

	tw, err := tagline.NewTypewriter(opts...)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgProfileLoadFailed, err)
		return ExitCodeError
	}

	// Timed mode reveals glyphs against real time
	if cfg.timed {
		return playTimed(tw, string(text), stdout, stderr)
	}

	frames, err := tw.Sequence(string(text))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgSequenceFailed, err)
		return ExitCodeError
	}

	// Output based on format
	if cfg.format == OutputFormatJSON {
		return outputPlayJSON(frames, stdout)
	}
	return outputPlayText(frames, stdout)
}

func parsePlayFlags(args []string) (*playConfig, error) {
	fs := flag.NewFlagSet(CmdNamePlay, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &playConfig{}

	fs.StringVar(&cfg.inputPath, FlagInput, "", "")
	fs.StringVar(&cfg.inputPath, FlagInputShort, "", "")
	fs.StringVar(&cfg.profilePath, FlagProfile, "", "")
	fs.StringVar(&cfg.profilePath, FlagProfileShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.BoolVar(&cfg.timed, FlagTimed, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.inputPath == "" {
		return nil, errors.New(ErrMsgMissingInput)
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

// playTimed delivers the reveal against real time, printing glyphs as
// they appear and resting for each frame's delay.
func playTimed(tw *tagline.Typewriter, text string, stdout, stderr io.Writer) int {
	err := tw.Play(context.Background(), text, func(frame tagline.Frame) error {
		if frame.Kind == tagline.FrameGlyph {
			fmt.Fprintf(stdout, "%c", frame.Glyph)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgPlaybackFailed, err)
		return ExitCodeError
	}

	fmt.Fprint(stdout, FmtNewline)
	return ExitCodeSuccess
}

func outputPlayText(frames []tagline.Frame, stdout io.Writer) int {
	var total time.Duration

	for i, frame := range frames {
		switch frame.Kind {
		case tagline.FramePause:
			fmt.Fprintf(stdout, PlayTextFramePause+FmtNewline, i, frame.Tag.RawText(), frame.Delay)
		case tagline.FrameTag:
			fmt.Fprintf(stdout, PlayTextFrameTag+FmtNewline, i, frame.Tag.RawText())
		default:
			fmt.Fprintf(stdout, PlayTextFrameGlyph+FmtNewline, i, frame.Glyph, frame.Delay)
		}
		total += frame.Delay
	}

	fmt.Fprintf(stdout, PlayTextSummary+FmtNewline, len(frames), total)
	return ExitCodeSuccess
}

func outputPlayJSON(frames []tagline.Frame, stdout io.Writer) int {
	var total time.Duration

	output := playOutput{
		Frames: make([]playFrameOutput, 0, len(frames)),
	}

	for _, frame := range frames {
		fo := playFrameOutput{
			Kind:   frame.Kind.String(),
			Text:   frame.Text,
			Delay:  frame.Delay.String(),
			Offset: frame.Offset,
		}
		if frame.Kind == tagline.FrameGlyph {
			fo.Glyph = string(frame.Glyph)
		}
		if frame.Tag != nil {
			fo.Tag = frame.Tag.RawText()
		}
		output.Frames = append(output.Frames, fo)
		total += frame.Delay
	}
	output.TotalDelay = total.String()

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))
	return ExitCodeSuccess
}
