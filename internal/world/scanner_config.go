package world

import (
	"path"
	"path/filepath"
	"strings"
)

// ScannerConfig controls which files the collector returns.
type ScannerConfig struct {
	// Suffix selects source files by name (e.g. ".swift").
	Suffix string
	// IgnorePatterns skips matching paths/dirs (relative to the root).
	// Supports simple dir names (e.g., "Pods") and glob patterns (e.g., "Vendor/*").
	IgnorePatterns []string
	// MaxFileBytes skips larger files with a warning. Zero disables the limit.
	MaxFileBytes int64
}

// DefaultScannerConfig returns the defaults for Swift source trees.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		Suffix:       ".swift",
		MaxFileBytes: 4 * 1024 * 1024,
	}
}

func normalizePattern(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimSuffix(p, "/")
	p = strings.TrimSuffix(p, "\\")
	return filepath.ToSlash(p)
}

// isIgnoredRel reports whether a relative path should be ignored.
func isIgnoredRel(rel, name string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	for _, raw := range patterns {
		p := normalizePattern(raw)
		if p == "" {
			continue
		}
		// Glob pattern
		if strings.ContainsAny(p, "*?[]") {
			if ok, _ := path.Match(p, rel); ok {
				return true
			}
			if ok, _ := path.Match(p, name); ok && !strings.Contains(p, "/") {
				return true
			}
			// Handle directory globs like "Vendor/*"
			if strings.HasSuffix(p, "/*") {
				prefix := strings.TrimSuffix(p, "/*")
				if strings.HasPrefix(rel, prefix+"/") {
					return true
				}
			}
			continue
		}
		// Simple dir/file name
		if name == p || rel == p {
			return true
		}
		// Prefix match for nested paths
		if strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}
