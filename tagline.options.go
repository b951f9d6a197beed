package tagline

import (
	"go.uber.org/zap"
)

// ScannerOption is a functional option for configuring a Scanner.
type ScannerOption func(*scannerConfig)

// scannerConfig holds the internal configuration for a Scanner.
type scannerConfig struct {
	logger *zap.Logger
}

// defaultScannerConfig returns the default scanner configuration.
func defaultScannerConfig() *scannerConfig {
	return &scannerConfig{
		logger: nil,
	}
}

// WithLogger sets the logger for the scanner.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) ScannerOption {
	return func(c *scannerConfig) {
		c.logger = logger
	}
}

// TypewriterOption is a functional option for configuring a Typewriter.
type TypewriterOption func(*typewriterConfig)

// typewriterConfig holds the internal configuration for a Typewriter.
type typewriterConfig struct {
	logger  *zap.Logger
	profile *Profile
	scanner *Scanner
}

// defaultTypewriterConfig returns the default typewriter configuration.
func defaultTypewriterConfig() *typewriterConfig {
	return &typewriterConfig{
		logger:  nil,
		profile: nil,
		scanner: nil,
	}
}

// WithTypewriterLogger sets the logger for the typewriter.
// Default: nil (no logging)
func WithTypewriterLogger(logger *zap.Logger) TypewriterOption {
	return func(c *typewriterConfig) {
		c.logger = logger
	}
}

// WithProfile sets the reveal timing profile.
// Default: DefaultProfile()
func WithProfile(profile *Profile) TypewriterOption {
	return func(c *typewriterConfig) {
		c.profile = profile
	}
}

// WithScanner sets the scanner used to parse markup tags.
// Default: a scanner sharing the typewriter's logger.
func WithScanner(scanner *Scanner) TypewriterOption {
	return func(c *typewriterConfig) {
		c.scanner = scanner
	}
}
