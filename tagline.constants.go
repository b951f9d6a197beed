package tagline

import "time"

// Delimiter constants - the <...> angle syntax of inline dialogue markup
const (
	OpeningDelimiter byte = '<'
	ClosingDelimiter byte = '>'
)

// Closing tag construction constants
const (
	ClosingTagPrefix = "</"
	ClosingTagSuffix = ">"
)

// Well-known tag types consumed by the reveal sequencer
const (
	TagTypeWait  = "wait"  // Pause for the parameter's duration in seconds
	TagTypeSpeed = "speed" // Scale the glyph reveal rate by the parameter
	TagTypeColor = "color" // Passed through to the host renderer
)

// ClearColorTagText is the fully transparent color tag. Hosts append it to
// reset text color without tracking which color tag is currently open.
const ClearColorTagText = "<color=#00000000>"

// YAML frontmatter constants
const (
	// YAMLFrontmatterDelimiter is the standard YAML frontmatter delimiter
	YAMLFrontmatterDelimiter = "---"
)

// Default reveal profile values
const (
	DefaultProfileName         = "default"
	DefaultCharactersPerSecond = 30.0
	DefaultSpeedMultiplier     = 1.0
	DefaultSentencePause       = 350 * time.Millisecond
	DefaultClausePause         = 150 * time.Millisecond
)

// Punctuation classes carrying an extra pause after their glyph
const (
	SentencePunctuation = ".!?"
	ClausePunctuation   = ",;:"
)

// Default configuration values
const (
	DefaultMaxScriptSize      = 1 << 20   // 1MB
	DefaultMaxFrontmatterSize = 64 * 1024 // 64KB - DoS protection for YAML frontmatter
)

// Cache configuration defaults
const (
	DefaultCacheTTL         = 5 * time.Minute
	DefaultCacheMaxEntries  = 1000
	DefaultNegativeCacheTTL = 30 * time.Second
)

// Filesystem storage constants
const (
	FilesystemDirPermissions  = 0755
	FilesystemFilePermissions = 0644
	FilesystemVersionPrefix   = "v"
	FilesystemVersionSuffix   = ".json"
)

// Bolt storage constants
const (
	BoltFilePermissions = 0600
	BoltOpenTimeout     = time.Second
)

// Storage ID prefixes
const (
	ScriptIDPrefix = "scr_"
)

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNameBolt       = "bolt"
	StorageDriverNamePostgres   = "postgres"
)

// PostgreSQL storage driver configuration defaults
const (
	PostgresTablePrefix            = "tagline_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyOffset      = "offset"
	MetaKeyLine        = "line"
	MetaKeyColumn      = "column"
	MetaKeyTag         = "tag"
	MetaKeyTagType     = "tag_type"
	MetaKeyValue       = "value"
	MetaKeyReason      = "reason"
	MetaKeyStart       = "start"
	MetaKeyEnd         = "end"
	MetaKeyLength      = "length"
	MetaKeyOpenOffset  = "open_offset"
	MetaKeyCloseOffset = "close_offset"
	MetaKeyExpected    = "expected"
	MetaKeyActual      = "actual"
	MetaKeyField       = "field"
	MetaKeyScriptName  = "script_name"
)

// Storage error messages
const (
	ErrMsgPathTraversalDetected = "invalid script name: path traversal characters detected"
)

// PostgreSQL storage error messages
const (
	ErrMsgPostgresConnectionFailed  = "failed to connect to PostgreSQL"
	ErrMsgPostgresQueryFailed       = "PostgreSQL query failed"
	ErrMsgPostgresTransactionFailed = "PostgreSQL transaction failed"
	ErrMsgPostgresScanFailed        = "failed to scan PostgreSQL result"
	ErrMsgPostgresMarshalFailed     = "failed to marshal data for PostgreSQL"
	ErrMsgPostgresUnmarshalFailed   = "failed to unmarshal PostgreSQL data"
	ErrMsgPostgresMigrationFailed   = "PostgreSQL migration failed"
	ErrMsgPostgresEmptyConnString   = "PostgreSQL connection string is empty"
	ErrMsgPostgresAlreadyClosed     = "PostgreSQL storage is already closed"
)

// Bolt storage error messages
const (
	ErrMsgBoltOpenFailed    = "failed to open bolt database"
	ErrMsgBoltQueryFailed   = "bolt query failed"
	ErrMsgBoltEmptyPath     = "bolt database path is empty"
	ErrMsgBoltAlreadyClosed = "bolt storage is already closed"
)

// Log messages - scanning, sequencing, storage
const (
	LogMsgScannerCreated    = "scanner created"
	LogMsgTagParsed         = "tag parsed"
	LogMsgTagsRemoved       = "tag occurrences removed"
	LogMsgTypewriterCreated = "typewriter created"
	LogMsgSequenceStart     = "starting reveal sequencing"
	LogMsgSequenceEnd       = "reveal sequencing complete"
	LogMsgPlaybackStart     = "starting timed playback"
	LogMsgPlaybackEnd       = "timed playback complete"
	LogMsgStorageOpened     = "storage opened"
	LogMsgTextInspected     = "text inspected"
)

// Log field names
const (
	LogFieldTag        = "tag"
	LogFieldTagType    = "tag_type"
	LogFieldOffset     = "offset"
	LogFieldTextLength = "text_length"
	LogFieldFrames     = "frame_count"
	LogFieldRemoved    = "removed_count"
	LogFieldDriver     = "driver"
	LogFieldTags       = "tag_count"
	LogFieldWarnings   = "warning_count"
)
