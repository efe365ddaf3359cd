package fsutil

import (
	"path/filepath"
	"strings"
)

// OutputExt is the extension of files written to an output directory.
const OutputExt = ".json"

// OutputPath maps a source path to its JSON output path under outDir.
// Relative sources keep their directory layout; absolute sources and paths
// that climb out of the working directory are flattened to their base name.
func OutputPath(outDir, source string) string {
	rel := filepath.Clean(source)
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(rel)
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + OutputExt
	return filepath.Join(outDir, rel)
}
