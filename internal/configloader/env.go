package configloader

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/voughtdq/ex-doc/pkg/config"
)

// envVarPrefix is the prefix for all mdnorm environment variables.
const envVarPrefix = "MDNORM_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"GFM":             {"gfm", envTypeBool, "Enable GitHub Flavored Markdown: true or false"},
	"BREAKS":          {"breaks", envTypeBool, "Turn soft line breaks into <br>: true or false"},
	"LINKIFY":         {"linkify", envTypeBool, "Autolink bare URLs: true or false"},
	"MATH":            {"math", envTypeBool, "Recognize $ and $$ math: true or false"},
	"FRONT_MATTER":    {"front_matter", envTypeBool, "Extract YAML front matter: true or false"},
	"DETECT_LANGUAGE": {"detect_language", envTypeBool, "Label unlabeled code blocks: true or false"},
	"LINE":            {"line", envTypeInt, "Line number of the first source line"},
	"JOBS":            {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	"FORMAT":          {"format", envTypeString, "Output format: json, tree, or summary"},
	"OUTPUT_DIR":      {"output_dir", envTypeString, "Directory receiving one JSON file per input"},
	"STRICT":          {"strict", envTypeBool, "Fail when any diagnostic is reported: true or false"},
	"IGNORE":          {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
	"EXTENSIONS":      {"extensions", envTypeSlice, "Comma-separated list of file extensions"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Variables are prefixed with MDNORM_ (e.g., MDNORM_GFM). Empty values are ignored.
func LoadFromEnv(cfg *config.Config, lookup LookupFunc) error {
	if cfg == nil || lookup == nil {
		return nil
	}

	// Sorted so the first reported error is stable.
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)

	for _, suffix := range suffixes {
		envVar := envVarPrefix + suffix
		value, ok := lookup(envVar)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}

		if err := applyEnvValue(cfg, envMappings[suffix], strings.TrimSpace(value), envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "format":
		cfg.Format = config.OutputFormat(strings.ToLower(value))
	case "output_dir":
		cfg.OutputDir = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "gfm":
		cfg.GFM = config.Bool(value)
	case "breaks":
		cfg.Breaks = config.Bool(value)
	case "linkify":
		cfg.Linkify = config.Bool(value)
	case "math":
		cfg.Math = config.Bool(value)
	case "front_matter":
		cfg.FrontMatter = config.Bool(value)
	case "detect_language":
		cfg.DetectLanguage = config.Bool(value)
	case "strict":
		cfg.Strict = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "line":
		cfg.Line = value
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	case "extensions":
		cfg.Extensions = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		out[envVarPrefix+suffix] = mapping.description
	}
	return out
}
