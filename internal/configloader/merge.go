package configloader

import "github.com/voughtdq/ex-doc/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Pointer toggles: override wins when non-nil, so an explicit false counts
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Strict only ever turns on
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	mergeBool(&result.GFM, override.GFM)
	mergeBool(&result.Breaks, override.Breaks)
	mergeBool(&result.Linkify, override.Linkify)
	mergeBool(&result.Math, override.Math)
	mergeBool(&result.FrontMatter, override.FrontMatter)
	mergeBool(&result.DetectLanguage, override.DetectLanguage)

	if override.Line != 0 {
		result.Line = override.Line
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.Strict {
		result.Strict = true
	}

	if override.Ignore != nil {
		result.Ignore = append([]string(nil), override.Ignore...)
	}
	if override.Extensions != nil {
		result.Extensions = append([]string(nil), override.Extensions...)
	}

	return result
}

func mergeBool(dst **bool, override *bool) {
	if override != nil {
		*dst = config.Bool(*override)
	}
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
