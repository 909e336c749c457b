package loader

import (
	"path/filepath"
	"strings"

	"github.com/vexel-lang/vexelc/internal/config"
)

// JoinImportPath renders import segments ["a","b","c"] as "a/b/c" —
// grounded on original_source/frontend/src/support/path_utils.cpp's
// `join_import_path`.
func JoinImportPath(segments []string) string {
	return strings.Join(segments, string(filepath.Separator))
}

// ResolvePath implements spec §4.1's `resolve(import_segments,
// current_file_path) -> file_path`: try `<project_root>/<joined>.ext`
// first, then `<current file's dir>/<joined>.ext`, grounded on
// path_utils.cpp's `try_resolve_relative_path`.
func ResolvePath(projectRoot string, segments []string, currentFile string) (string, bool) {
	rel := JoinImportPath(segments) + config.SourceFileExt

	if projectRoot != "" {
		candidate := filepath.Join(projectRoot, rel)
		if fileExists(candidate) {
			return filepath.Clean(candidate), true
		}
	}

	candidate := filepath.Join(filepath.Dir(currentFile), rel)
	if fileExists(candidate) {
		return filepath.Clean(candidate), true
	}

	return "", false
}

// ResolveResourcePath is the resource-expression analogue (spec §4.9):
// identical search order, but no extension is appended.
func ResolveResourcePath(projectRoot string, segments []string, currentFile string) (string, bool) {
	rel := JoinImportPath(segments)

	if projectRoot != "" {
		candidate := filepath.Join(projectRoot, rel)
		if pathExists(candidate) {
			return filepath.Clean(candidate), true
		}
	}

	candidate := filepath.Join(filepath.Dir(currentFile), rel)
	if pathExists(candidate) {
		return filepath.Clean(candidate), true
	}

	return "", false
}
