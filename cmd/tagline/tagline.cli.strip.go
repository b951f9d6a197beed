package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-tagline"
)

// stripConfig holds parsed strip command configuration
type stripConfig struct {
	inputPath  string
	tagType    string
	outputPath string
}

// cleanConfig holds parsed clean command configuration
type cleanConfig struct {
	inputPath  string
	outputPath string
}

func runStrip(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseStripFlags(args)
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

	// Remove the requested tag type
	scanner := tagline.NewScanner()
	stripped, err := scanner.RemoveTags(string(text), cfg.tagType)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStripFailed, err)
		return ExitCodeError
	}

	// Write output
	if err := writeOutput(cfg.outputPath, []byte(stripped), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func runClean(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseCleanFlags(args)
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

	// Strip every tag
	scanner := tagline.NewScanner()
	plain, err := scanner.StripAll(string(text))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStripFailed, err)
		return ExitCodeError
	}

	// Write output
	if err := writeOutput(cfg.outputPath, []byte(plain), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseStripFlags(args []string) (*stripConfig, error) {
	fs := flag.NewFlagSet(CmdNameStrip, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &stripConfig{}

	fs.StringVar(&cfg.inputPath, FlagInput, "", "")
	fs.StringVar(&cfg.inputPath, FlagInputShort, "", "")
	fs.StringVar(&cfg.tagType, FlagTagType, "", "")
	fs.StringVar(&cfg.tagType, FlagTagTypeShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Validation
	if cfg.inputPath == "" {
		return nil, errors.New(ErrMsgMissingInput)
	}
	if cfg.tagType == "" {
		return nil, errors.New(ErrMsgMissingTagType)
	}

	return cfg, nil
}

func parseCleanFlags(args []string) (*cleanConfig, error) {
	fs := flag.NewFlagSet(CmdNameClean, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &cleanConfig{}

	fs.StringVar(&cfg.inputPath, FlagInput, "", "")
	fs.StringVar(&cfg.inputPath, FlagInputShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.inputPath == "" {
		return nil, errors.New(ErrMsgMissingInput)
	}

	return cfg, nil
}
