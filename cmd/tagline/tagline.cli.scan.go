package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-tagline"
)

// scanConfig holds parsed scan command configuration
type scanConfig struct {
	inputPath string
	format    string
	strict    bool
}

// scanOutput represents JSON output for scan
type scanOutput struct {
	Valid     bool            `json:"valid"`
	Tags      []scanTagOutput `json:"tags"`
	Warnings  []string        `json:"warnings,omitempty"`
	PlainText string          `json:"plain_text"`
}

type scanTagOutput struct {
	Raw       string `json:"raw"`
	Type      string `json:"type"`
	Parameter string `json:"parameter,omitempty"`
	Closing   bool   `json:"closing,omitempty"`
	Offset    int    `json:"offset"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
}

func runScan(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseScanFlags(args)
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

	// Inspect the text
	scanner := tagline.NewScanner()
	result, err := scanner.Inspect(string(text))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInspectFailed, err)
		return ExitCodeError
	}

	// Output based on format
	if cfg.format == OutputFormatJSON {
		return outputScanJSON(result, cfg.strict, stdout)
	}
	return outputScanText(result, cfg.strict, stdout)
}

func parseScanFlags(args []string) (*scanConfig, error) {
	fs := flag.NewFlagSet(CmdNameScan, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &scanConfig{}

	fs.StringVar(&cfg.inputPath, FlagInput, "", "")
	fs.StringVar(&cfg.inputPath, FlagInputShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.BoolVar(&cfg.strict, FlagStrictMode, false, "")

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

func outputScanText(result *tagline.InspectResult, strict bool, stdout io.Writer) int {
	if len(result.Tags) == 0 && len(result.Warnings) == 0 {
		fmt.Fprintln(stdout, ScanTextNoTags)
		return ExitCodeSuccess
	}

	if len(result.Tags) > 0 {
		fmt.Fprintln(stdout, ScanTextTagsHeader)
		for _, ref := range result.Tags {
			fmt.Fprintf(stdout, ScanTextTagFormat+FmtNewline,
				ref.Type, ref.RawText, ref.Line, ref.Column)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(stdout, ScanTextWarningsHeader)
		for _, warning := range result.Warnings {
			fmt.Fprintf(stdout, ScanTextWarningFormat+FmtNewline, warning)
		}
	}

	fmt.Fprintf(stdout, ScanTextSummary+FmtNewline, len(result.Tags), len(result.Warnings))

	if strict && len(result.Warnings) > 0 {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func outputScanJSON(result *tagline.InspectResult, strict bool, stdout io.Writer) int {
	output := scanOutput{
		Valid:     result.Valid,
		Tags:      make([]scanTagOutput, 0, len(result.Tags)),
		Warnings:  result.Warnings,
		PlainText: result.PlainText,
	}

	for _, ref := range result.Tags {
		output.Tags = append(output.Tags, scanTagOutput{
			Raw:       ref.RawText,
			Type:      ref.Type,
			Parameter: ref.Parameter,
			Closing:   ref.Closing,
			Offset:    ref.Offset,
			Line:      ref.Line,
			Column:    ref.Column,
		})
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))

	if strict && !result.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}
