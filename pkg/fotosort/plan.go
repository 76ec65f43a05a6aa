package fotosort

import (
	"path/filepath"
	"strings"
)

// PlanLayout lays out the directory and base name of a planned path.
var PlanLayout = "2006/20060102/2006-01-02_150405"

// Plan returns the slash-separated path, relative to the destination root, that
// a file with metadata m and extension ext belongs at.
func Plan(m Metadata, ext string) string {
	parts := []string{m.CreatedAt.Format(PlanLayout)}
	if m.SecondaryTag != "" {
		parts = append(parts, m.SecondaryTag)
	}
	if ext != "" {
		parts = append(parts, strings.ToLower(ext))
	}
	return strings.Join(parts, ".")
}

// Extension returns the lower-cased extension of path without its dot.
// Dotfiles such as ".hidden" have no extension.
func Extension(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
