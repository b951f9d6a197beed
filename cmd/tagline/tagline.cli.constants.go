package main

// Command names
const (
	CmdNameScan         = "scan"
	CmdNameStrip        = "strip"
	CmdNameClean        = "clean"
	CmdNamePlay         = "play"
	CmdNameScriptSave   = "script-save"
	CmdNameScriptGet    = "script-get"
	CmdNameScriptList   = "script-list"
	CmdNameScriptDelete = "script-delete"
	CmdNameVersion      = "version"
	CmdNameHelp         = "help"
)

// Flag names - long form
const (
	FlagInput        = "input"
	FlagOutput       = "output"
	FlagFormat       = "format"
	FlagStrictMode   = "strict"
	FlagTagType      = "tag"
	FlagProfile      = "profile"
	FlagTimed        = "timed"
	FlagName         = "name"
	FlagSpeaker      = "speaker"
	FlagCreator      = "creator"
	FlagTags         = "tags"
	FlagNamePrefix   = "prefix"
	FlagNameContains = "contains"
	FlagLimit        = "limit"
	FlagAllVersions  = "all-versions"
	FlagVersionNum   = "version"
)

// Flag names - short form
const (
	FlagInputShort   = "i"
	FlagOutputShort  = "o"
	FlagFormatShort  = "F"
	FlagTagTypeShort = "t"
	FlagProfileShort = "p"
	FlagNameShort    = "n"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingInput      = "input text required"
	ErrMsgMissingTagType    = "tag type required"
	ErrMsgMissingScriptName = "script name required"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgInspectFailed     = "failed to inspect text"
	ErrMsgStripFailed       = "failed to strip tags"
	ErrMsgSequenceFailed    = "failed to sequence text"
	ErrMsgPlaybackFailed    = "playback failed"
	ErrMsgProfileLoadFailed = "failed to load profile"
	ErrMsgScriptParseFailed = "failed to parse script document"
	ErrMsgStorageOpenFailed = "failed to open storage"
	ErrMsgSaveFailed        = "failed to save script"
	ErrMsgGetFailed         = "failed to fetch script"
	ErrMsgListFailed        = "failed to list scripts"
	ErrMsgDeleteFailed      = "failed to delete script"
)

// Help text templates
const (
	HelpMainUsage = `go-tagline - Inline dialogue markup CLI

Usage:
    tagline <command> [options]

Commands:
    scan           List markup tags in a text
    strip          Remove one tag type from a text
    clean          Remove every markup tag from a text
    play           Print the reveal frame sequence for a text
    script-save    Save a script document to storage
    script-get     Fetch a script from storage
    script-list    List scripts in storage
    script-delete  Delete a script from storage
    version        Show version information
    help           Show help for a command

Use "tagline help <command>" for more information about a command.`

	HelpScanUsage = `List markup tags in a text

Usage:
    tagline scan [options]

Options:
    -i, --input <file>      Input text file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)
    --strict                Treat structural warnings as errors

Examples:
    tagline scan -i dialogue.txt
    tagline scan -i dialogue.txt -F json
    echo 'Hi <wait=0.5>there' | tagline scan -i -`

	HelpStripUsage = `Remove one tag type from a text

Usage:
    tagline strip [options]

Options:
    -i, --input <file>      Input text file (use "-" for stdin)
    -t, --tag <type>        Tag type to remove (e.g. wait, speed, color)
    -o, --output <file>     Output file (default: stdout)

Examples:
    tagline strip -i dialogue.txt -t wait
    cat dialogue.txt | tagline strip -i - -t color -o plain.txt`

	HelpCleanUsage = `Remove every markup tag from a text

Usage:
    tagline clean [options]

Options:
    -i, --input <file>      Input text file (use "-" for stdin)
    -o, --output <file>     Output file (default: stdout)

Examples:
    tagline clean -i dialogue.txt
    cat dialogue.txt | tagline clean -i -`

	HelpPlayUsage = `Print the reveal frame sequence for a text

Usage:
    tagline play [options]

Options:
    -i, --input <file>      Input text file (use "-" for stdin)
    -p, --profile <file>    Reveal profile YAML file
    -F, --format <format>   Output format: text, json (default: text)
    --timed                 Reveal against real time instead of printing frames

Examples:
    tagline play -i dialogue.txt
    tagline play -i dialogue.txt -F json
    tagline play -i dialogue.txt -p profiles/slow.yaml --timed`

	HelpScriptSaveUsage = `Save a script document to storage

Reads a script document (YAML frontmatter plus tagged body) and saves
it under its frontmatter name. Saving an existing name creates a new
version.

Storage is selected by TAGLINE_STORAGE_DRIVER and TAGLINE_STORAGE_DSN
(default: bolt, tagline.db). A .env file in the working directory is
loaded automatically.

Usage:
    tagline script-save [options]

Options:
    -i, --input <file>      Script document file (use "-" for stdin)
    --creator <name>        Record who created this version

Examples:
    tagline script-save -i greeting.tagline
    cat greeting.tagline | tagline script-save -i - --creator alice`

	HelpScriptGetUsage = `Fetch a script from storage

Text output is the script document (frontmatter plus body); JSON
output is the stored record.

Usage:
    tagline script-get [options]

Options:
    -n, --name <name>       Script name
    --version <n>           Specific version (default: latest)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    tagline script-get -n intro-greeting
    tagline script-get -n intro-greeting --version 2 -F json`

	HelpScriptListUsage = `List scripts in storage

Usage:
    tagline script-list [options]

Options:
    --speaker <name>        Filter by speaker
    --creator <name>        Filter by creator
    --prefix <prefix>       Filter to names starting with prefix
    --contains <substring>  Filter to names containing substring
    --tags <a,b>            Filter to scripts carrying all listed tags
    --limit <n>             Maximum number of results
    --all-versions          Include every version, not just the latest
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    tagline script-list
    tagline script-list --speaker guide --tags intro,act1
    tagline script-list --prefix act1/ -F json`

	HelpScriptDeleteUsage = `Delete a script from storage

Usage:
    tagline script-delete [options]

Options:
    -n, --name <name>       Script name
    --version <n>           Delete one version instead of all

Examples:
    tagline script-delete -n intro-greeting
    tagline script-delete -n intro-greeting --version 1`

	HelpVersionUsage = `Show version information

Usage:
    tagline version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    tagline help [command]

Commands:
    scan           Show help for scan command
    strip          Show help for strip command
    clean          Show help for clean command
    play           Show help for play command
    script-save    Show help for script-save command
    script-get     Show help for script-get command
    script-list    Show help for script-list command
    script-delete  Show help for script-delete command
    version        Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-tagline version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// Scan output format templates
const (
	ScanTextNoTags         = "No tags found"
	ScanTextTagsHeader     = "Tags:"
	ScanTextTagFormat      = "  [%s] %s at line %d, column %d"
	ScanTextWarningsHeader = "Warnings:"
	ScanTextWarningFormat  = "  %s"
	ScanTextSummary        = "%d tag(s), %d warning(s)"
)

// Play output format templates
const (
	PlayTextFrameGlyph = "%4d  glyph %q  +%v"
	PlayTextFramePause = "%4d  pause %s  +%v"
	PlayTextFrameTag   = "%4d  tag   %s"
	PlayTextSummary    = "%d frame(s), total delay %v"
)

// Script command output format templates
const (
	ScriptSaveTextFormat      = "Saved %s v%d (%s)"
	ScriptDeleteTextFormat    = "Deleted %s"
	ScriptDeleteVersionFormat = "Deleted %s v%d"
	ScriptListTextEmpty       = "No scripts found"
	ScriptListTextEntry       = "%s v%d"
	ScriptListTextSpeaker     = " (%s)"
)

// CLI metadata
const (
	CLIName        = "tagline"
	CLIDescription = "Inline dialogue markup CLI"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
