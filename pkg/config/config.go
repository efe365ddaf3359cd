// Package config defines core configuration types for mdnorm.
// These types are pure data structures with no dependency on the loader.
package config

// Severity represents the severity level of a parser diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// OutputFormat specifies how normalized documents are reported.
type OutputFormat string

const (
	FormatJSON    OutputFormat = "json"
	FormatTree    OutputFormat = "tree"
	FormatSummary OutputFormat = "summary"
)

// DefaultExtensions are the file extensions picked up during discovery.
//
//nolint:gochecknoglobals // Read-only default.
var DefaultExtensions = []string{".md", ".markdown", ".cheatmd", ".livemd"}

// Config is the root configuration structure for mdnorm.
//
// Parser toggles are pointers so a layer that leaves them unset does not
// override a lower layer.
type Config struct {
	// GFM enables GitHub Flavored Markdown extensions.
	GFM *bool `yaml:"gfm,omitempty"`

	// Breaks turns soft line breaks into <br> when GFM is on.
	Breaks *bool `yaml:"breaks,omitempty"`

	// Linkify turns bare URLs into links.
	Linkify *bool `yaml:"linkify,omitempty"`

	// Math enables $inline$ and $$display$$ math.
	Math *bool `yaml:"math,omitempty"`

	// FrontMatter extracts a leading YAML front matter block.
	FrontMatter *bool `yaml:"front_matter,omitempty"`

	// DetectLanguage labels unlabeled code blocks using content detection.
	DetectLanguage *bool `yaml:"detect_language,omitempty"`

	// Line is the line number of the first source line. Zero means 1.
	Line int `yaml:"line,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// Extensions lists the file extensions discovered in directories.
	Extensions []string `yaml:"extensions,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// OutputDir receives one JSON file per input when set.
	OutputDir string `yaml:"-"`

	// Strict makes any diagnostic fail the run.
	Strict bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		GFM:            Bool(true),
		Breaks:         Bool(false),
		Linkify:        Bool(true),
		Math:           Bool(true),
		FrontMatter:    Bool(false),
		DetectLanguage: Bool(false),
		Line:           1,
		Extensions:     append([]string(nil), DefaultExtensions...),
		Jobs:           0, // 0 means use GOMAXPROCS
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// BoolValue returns the value of p, or def when p is nil.
func BoolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
