package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/itsatony/go-tagline"
	"github.com/joeshaw/envdecode"
	_ "github.com/joho/godotenv/autoload"
)

// storageEnv is the storage selection read from the environment. A
// .env file in the working directory is loaded before decoding.
type storageEnv struct {
	Driver string `env:"TAGLINE_STORAGE_DRIVER,default=bolt"`
	DSN    string `env:"TAGLINE_STORAGE_DSN,default=tagline.db"`
}

// openStorageFromEnv opens the storage backend named by the environment
func openStorageFromEnv() (tagline.ScriptStorage, error) {
	var cfg storageEnv
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, err
	}

	return tagline.OpenStorage(cfg.Driver, cfg.DSN)
}

// scriptSaveConfig holds parsed script-save command configuration
type scriptSaveConfig struct {
	inputPath string
	creator   string
}

// scriptGetConfig holds parsed script-get command configuration
type scriptGetConfig struct {
	name    string
	version int
	format  string
}

// scriptListConfig holds parsed script-list command configuration
type scriptListConfig struct {
	speaker     string
	creator     string
	prefix      string
	contains    string
	tags        string
	limit       int
	allVersions bool
	format      string
}

// scriptDeleteConfig holds parsed script-delete command configuration
type scriptDeleteConfig struct {
	name    string
	version int
}

func runScriptSave(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseScriptSaveFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingInput, err)
		return ExitCodeUsageError
	}

	// Read the script document
	docBytes, err := readInput(cfg.inputPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	script, err := tagline.ParseScript(docBytes)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgScriptParseFailed, err)
		return ExitCodeInputError
	}
	// A document without frontmatter parses as all body; storage needs
	// a name to file it under.
	if script.Name == "" {
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgScriptParseFailed, ErrMsgMissingScriptName)
		return ExitCodeInputError
	}

	storage, err := openStorageFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageOpenFailed, err)
		return ExitCodeError
	}
	defer func() { _ = storage.Close() }()

	stored := &tagline.StoredScript{
		Name:      script.Name,
		Speaker:   script.Speaker,
		Profile:   script.Profile,
		Body:      script.Body,
		Metadata:  script.Metadata,
		Tags:      script.Tags,
		CreatedBy: cfg.creator,
	}
	if err := storage.Save(context.Background(), stored); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgSaveFailed, err)
		return ExitCodeError
	}

	fmt.Fprintf(stdout, ScriptSaveTextFormat+FmtNewline, stored.Name, stored.Version, stored.ID)
	return ExitCodeSuccess
}

func runScriptGet(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseScriptGetFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingScriptName, err)
		return ExitCodeUsageError
	}

	storage, err := openStorageFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageOpenFailed, err)
		return ExitCodeError
	}
	defer func() { _ = storage.Close() }()

	var stored *tagline.StoredScript
	if cfg.version > 0 {
		stored, err = storage.GetVersion(context.Background(), cfg.name, cfg.version)
	} else {
		stored, err = storage.Get(context.Background(), cfg.name)
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgGetFailed, err)
		return ExitCodeError
	}

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(stored, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	// Text output is the round-trippable script document
	doc := &tagline.Script{
		Name:     stored.Name,
		Speaker:  stored.Speaker,
		Profile:  stored.Profile,
		Metadata: stored.Metadata,
		Tags:     stored.Tags,
		Body:     stored.Body,
	}
	docBytes, err := doc.Serialize()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	if err := writeOutput(FlagDefaultOutput, docBytes, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func runScriptList(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseScriptListFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	storage, err := openStorageFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageOpenFailed, err)
		return ExitCodeError
	}
	defer func() { _ = storage.Close() }()

	query := &tagline.ScriptQuery{
		Speaker:            cfg.speaker,
		CreatedBy:          cfg.creator,
		NamePrefix:         cfg.prefix,
		NameContains:       cfg.contains,
		Limit:              cfg.limit,
		IncludeAllVersions: cfg.allVersions,
	}
	for _, tag := range strings.Split(cfg.tags, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			query.Tags = append(query.Tags, tag)
		}
	}

	scripts, err := storage.List(context.Background(), query)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgListFailed, err)
		return ExitCodeError
	}

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(scripts, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	if len(scripts) == 0 {
		fmt.Fprintln(stdout, ScriptListTextEmpty)
		return ExitCodeSuccess
	}

	for _, s := range scripts {
		fmt.Fprintf(stdout, ScriptListTextEntry, s.Name, s.Version)
		if s.Speaker != "" {
			fmt.Fprintf(stdout, ScriptListTextSpeaker, s.Speaker)
		}
		fmt.Fprint(stdout, FmtNewline)
	}

	return ExitCodeSuccess
}

func runScriptDelete(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseScriptDeleteFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingScriptName, err)
		return ExitCodeUsageError
	}

	storage, err := openStorageFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageOpenFailed, err)
		return ExitCodeError
	}
	defer func() { _ = storage.Close() }()

	if cfg.version > 0 {
		if err := storage.DeleteVersion(context.Background(), cfg.name, cfg.version); err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgDeleteFailed, err)
			return ExitCodeError
		}
		fmt.Fprintf(stdout, ScriptDeleteVersionFormat+FmtNewline, cfg.name, cfg.version)
		return ExitCodeSuccess
	}

	if err := storage.Delete(context.Background(), cfg.name); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgDeleteFailed, err)
		return ExitCodeError
	}
	fmt.Fprintf(stdout, ScriptDeleteTextFormat+FmtNewline, cfg.name)
	return ExitCodeSuccess
}

func parseScriptSaveFlags(args []string) (*scriptSaveConfig, error) {
	fs := flag.NewFlagSet(CmdNameScriptSave, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &scriptSaveConfig{}

	fs.StringVar(&cfg.inputPath, FlagInput, "", "")
	fs.StringVar(&cfg.inputPath, FlagInputShort, "", "")
	fs.StringVar(&cfg.creator, FlagCreator, "", "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.inputPath == "" {
		return nil, errors.New(ErrMsgMissingInput)
	}

	return cfg, nil
}

func parseScriptGetFlags(args []string) (*scriptGetConfig, error) {
	fs := flag.NewFlagSet(CmdNameScriptGet, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &scriptGetConfig{}

	fs.StringVar(&cfg.name, FlagName, "", "")
	fs.StringVar(&cfg.name, FlagNameShort, "", "")
	fs.IntVar(&cfg.version, FlagVersionNum, 0, "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.name == "" {
		return nil, errors.New(ErrMsgMissingScriptName)
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func parseScriptListFlags(args []string) (*scriptListConfig, error) {
	fs := flag.NewFlagSet(CmdNameScriptList, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &scriptListConfig{}

	fs.StringVar(&cfg.speaker, FlagSpeaker, "", "")
	fs.StringVar(&cfg.creator, FlagCreator, "", "")
	fs.StringVar(&cfg.prefix, FlagNamePrefix, "", "")
	fs.StringVar(&cfg.contains, FlagNameContains, "", "")
	fs.StringVar(&cfg.tags, FlagTags, "", "")
	fs.IntVar(&cfg.limit, FlagLimit, 0, "")
	fs.BoolVar(&cfg.allVersions, FlagAllVersions, false, "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func parseScriptDeleteFlags(args []string) (*scriptDeleteConfig, error) {
	fs := flag.NewFlagSet(CmdNameScriptDelete, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &scriptDeleteConfig{}

	fs.StringVar(&cfg.name, FlagName, "", "")
	fs.StringVar(&cfg.name, FlagNameShort, "", "")
	fs.IntVar(&cfg.version, FlagVersionNum, 0, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.name == "" {
		return nil, errors.New(ErrMsgMissingScriptName)
	}

	return cfg, nil
}
