package tagline

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Script field names as they appear in YAML
const (
	ScriptFieldName     = "name"
	ScriptFieldSpeaker  = "speaker"
	ScriptFieldProfile  = "profile"
	ScriptFieldMetadata = "metadata"
	ScriptFieldTags     = "tags"
)

// Script validation reasons
const (
	ReasonRequired = "is required"
)

// Script is a dialogue script document: YAML frontmatter describing the
// script plus a tagged markup body.
type Script struct {
	// Name identifies the script
	Name string `yaml:"name"`
	// Speaker is the character delivering the dialogue
	Speaker string `yaml:"speaker,omitempty"`
	// Profile names the reveal profile the script should be played with
	Profile string `yaml:"profile,omitempty"`
	// Metadata holds free-form annotations
	Metadata map[string]string `yaml:"metadata,omitempty"`
	// Tags label the script for storage queries
	Tags []string `yaml:"tags,omitempty"`
	// Body is the tagged dialogue text after the frontmatter
	Body string `yaml:"-"`
}

// ParseScript parses a script document (YAML frontmatter + markup body).
// The document must start with --- and carry a closing --- delimiter; a
// document without frontmatter is treated entirely as body.
func ParseScript(data []byte) (*Script, error) {
	if len(data) == 0 {
		return nil, NewScriptParseError(ErrMsgScriptParseFailed, nil)
	}
	if len(data) > DefaultMaxScriptSize {
		return nil, NewScriptTooLargeError(len(data), DefaultMaxScriptSize)
	}

	content := string(data)

	// Trim BOM and leading whitespace
	content = strings.TrimLeft(content, "\xef\xbb\xbf \t")

	// Check for frontmatter
	if !strings.HasPrefix(content, YAMLFrontmatterDelimiter) {
		// No frontmatter - the whole document is dialogue body
		return &Script{Body: content}, nil
	}

	// Skip opening delimiter and newline
	afterOpening := content[len(YAMLFrontmatterDelimiter):]
	if len(afterOpening) > 0 && afterOpening[0] == '\n' {
		afterOpening = afterOpening[1:]
	} else if len(afterOpening) > 1 && afterOpening[0] == '\r' && afterOpening[1] == '\n' {
		afterOpening = afterOpening[2:]
	}

	// Find closing delimiter
	closeIdx := strings.Index(afterOpening, "\n"+YAMLFrontmatterDelimiter)
	if closeIdx == -1 {
		return nil, NewScriptParseError(ErrMsgUnterminatedFrontmatter, nil)
	}

	fmYAML := afterOpening[:closeIdx]
	if len(fmYAML) > DefaultMaxFrontmatterSize {
		return nil, NewScriptParseError(ErrMsgFrontmatterTooLarge, nil)
	}

	// Extract body (after closing delimiter and newline)
	bodyStart := closeIdx + len("\n"+YAMLFrontmatterDelimiter)
	body := ""
	if bodyStart < len(afterOpening) {
		body = afterOpening[bodyStart:]
		if len(body) > 0 && body[0] == '\n' {
			body = body[1:]
		} else if len(body) > 1 && body[0] == '\r' && body[1] == '\n' {
			body = body[2:]
		}
	}

	var script Script
	if err := yaml.Unmarshal([]byte(fmYAML), &script); err != nil {
		return nil, NewScriptParseError(ErrMsgScriptParseFailed, err)
	}
	script.Body = body

	if err := script.Validate(); err != nil {
		return nil, err
	}

	return &script, nil
}

// ParseScriptFile reads a file and parses it as a script document.
func ParseScriptFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewScriptParseError(ErrMsgScriptParseFailed, err)
	}
	return ParseScript(data)
}

// MustParseScript parses a script document and panics on error.
func MustParseScript(data []byte) *Script {
	s, err := ParseScript(data)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks the frontmatter invariants. Markup validity of the
// body is a scanning concern and is not checked here.
func (s *Script) Validate() error {
	if s == nil {
		return NewScriptValidationError(ScriptFieldName, ReasonRequired)
	}
	if s.Name == "" {
		return NewScriptValidationError(ScriptFieldName, ReasonRequired)
	}
	return nil
}

// Serialize renders the script back out as frontmatter + body.
func (s *Script) Serialize() ([]byte, error) {
	fm, err := yaml.Marshal(s)
	if err != nil {
		return nil, NewScriptParseError(ErrMsgScriptParseFailed, err)
	}

	var doc strings.Builder
	doc.WriteString(YAMLFrontmatterDelimiter)
	doc.WriteByte('\n')
	doc.Write(fm)
	doc.WriteString(YAMLFrontmatterDelimiter)
	doc.WriteByte('\n')
	doc.WriteString(s.Body)
	return []byte(doc.String()), nil
}

// Lines returns the non-empty dialogue lines of the body, surrounding
// whitespace trimmed.
func (s *Script) Lines() []string {
	var lines []string
	for _, line := range strings.Split(s.Body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
