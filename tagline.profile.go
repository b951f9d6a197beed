package tagline

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile field names as they appear in YAML
const (
	ProfileFieldName                = "name"
	ProfileFieldCharactersPerSecond = "characters_per_second"
	ProfileFieldWaitTag             = "wait_tag"
	ProfileFieldSpeedTag            = "speed_tag"
	ProfileFieldPunctuationPauses   = "punctuation_pauses"
)

// Profile validation reasons
const (
	ReasonProfileNil    = "profile cannot be nil"
	ReasonNotPositive   = "must be greater than zero"
	ReasonEmptyTagType  = "cannot be empty"
	ErrFmtNegativePause = "pause after %q must not be negative"
)

// Duration is a time.Duration that serializes as a duration string
// ("150ms", "1.5s") in YAML.
type Duration time.Duration

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Profile controls reveal pacing for a Typewriter.
type Profile struct {
	// Name identifies the profile
	Name string `yaml:"name"`
	// CharactersPerSecond is the base glyph reveal rate
	CharactersPerSecond float64 `yaml:"characters_per_second"`
	// WaitTag is the tag type interpreted as a timed pause
	WaitTag string `yaml:"wait_tag"`
	// SpeedTag is the tag type interpreted as a reveal rate change
	SpeedTag string `yaml:"speed_tag"`
	// PunctuationPauses maps punctuation glyphs to the extra pause
	// inserted after revealing them
	PunctuationPauses map[string]Duration `yaml:"punctuation_pauses,omitempty"`
}

// DefaultProfile returns the stock reveal profile: 30 characters per
// second, wait/speed tag types, and pauses after sentence and clause
// punctuation.
func DefaultProfile() *Profile {
	pauses := make(map[string]Duration)
	for _, glyph := range SentencePunctuation {
		pauses[string(glyph)] = Duration(DefaultSentencePause)
	}
	for _, glyph := range ClausePunctuation {
		pauses[string(glyph)] = Duration(DefaultClausePause)
	}

	return &Profile{
		Name:                DefaultProfileName,
		CharactersPerSecond: DefaultCharactersPerSecond,
		WaitTag:             TagTypeWait,
		SpeedTag:            TagTypeSpeed,
		PunctuationPauses:   pauses,
	}
}

// ParseProfile parses and validates a YAML reveal profile.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, NewProfileParseError(err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the profile invariants.
func (p *Profile) Validate() error {
	if p == nil {
		return NewProfileValidationError(ProfileFieldName, ReasonProfileNil)
	}
	if p.CharactersPerSecond <= 0 {
		return NewProfileValidationError(ProfileFieldCharactersPerSecond, ReasonNotPositive)
	}
	if p.WaitTag == "" {
		return NewProfileValidationError(ProfileFieldWaitTag, ReasonEmptyTagType)
	}
	if p.SpeedTag == "" {
		return NewProfileValidationError(ProfileFieldSpeedTag, ReasonEmptyTagType)
	}
	for glyph, pause := range p.PunctuationPauses {
		if pause < 0 {
			return NewProfileValidationError(ProfileFieldPunctuationPauses,
				fmt.Sprintf(ErrFmtNegativePause, glyph))
		}
	}
	return nil
}

// Serialize renders the profile as YAML.
func (p *Profile) Serialize() ([]byte, error) {
	return yaml.Marshal(p)
}

// GlyphDelay returns the delay between glyph reveals at the given speed
// multiplier.
func (p *Profile) GlyphDelay(multiplier float64) time.Duration {
	if multiplier <= 0 {
		multiplier = DefaultSpeedMultiplier
	}
	return time.Duration(float64(time.Second) / (p.CharactersPerSecond * multiplier))
}

// PauseAfter returns the extra pause inserted after the given glyph, or
// zero when the glyph carries none.
func (p *Profile) PauseAfter(glyph rune) time.Duration {
	return time.Duration(p.PunctuationPauses[string(glyph)])
}
