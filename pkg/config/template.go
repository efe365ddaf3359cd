package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// settingInfo documents one configuration key.
type settingInfo struct {
	Key         string
	Value       any
	Description string
}

// settings returns the documented keys with their default values, in file order.
func settings() []settingInfo {
	defaults := NewConfig()
	return []settingInfo{
		{"gfm", *defaults.GFM, "Enable GitHub Flavored Markdown: tables, strikethrough, task lists and footnotes."},
		{"breaks", *defaults.Breaks, "Turn single newlines inside paragraphs into <br> elements. Only honored when gfm is enabled."},
		{"linkify", *defaults.Linkify, "Turn bare URLs such as www.example.com into links."},
		{"math", *defaults.Math, "Recognize $inline$ and $$display$$ math and keep it verbatim for a math renderer."},
		{"front_matter", *defaults.FrontMatter, "Extract a leading YAML front matter block instead of parsing it as Markdown."},
		{"detect_language", *defaults.DetectLanguage, "Guess a language class for code blocks that do not name one."},
		{"line", defaults.Line, "Line number of the first source line, used in diagnostics and line metadata."},
		{"extensions", defaults.Extensions, "File extensions picked up when a directory is given."},
		{"ignore", []string{"_build/**", "deps/**"}, "Glob patterns for files to skip."},
	}
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate(), nil
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Parser options
gfm: true
# breaks: false
# linkify: true
# math: true
# front_matter: false

# File patterns to ignore (glob patterns)
# ignore:
#   - "_build/**"
#   - "deps/**"
`)

	return buf.Bytes()
}

// generateFullTemplate writes every setting with its description.
func generateFullTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(" - Full Template\n#\n# Every setting is shown with its default value.\n")

	for _, s := range settings() {
		fmt.Fprintf(&buf, "\n# %s\n", wrapComment(s.Description, commentWrapWidth))
		switch v := s.Value.(type) {
		case []string:
			fmt.Fprintf(&buf, "%s:\n", s.Key)
			for _, item := range v {
				fmt.Fprintf(&buf, "  - %q\n", item)
			}
		default:
			fmt.Fprintf(&buf, "%s: %v\n", s.Key, v)
		}
	}

	return buf.Bytes()
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n# ")
}

// templateToJSON renders the default settings as a JSON object.
func templateToJSON() ([]byte, error) {
	cfg := make(map[string]any)
	for _, s := range settings() {
		cfg[s.Key] = s.Value
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mdnorm configuration
# See: https://github.com/voughtdq/ex-doc`
}
