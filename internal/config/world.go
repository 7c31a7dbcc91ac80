package config

// DefaultIgnorePatterns returns the directories skipped while collecting
// sources. Entries are dir names or globs relative to the source root.
func DefaultIgnorePatterns() []string {
	return []string{
		".git",
		".build",
		".swiftpm",
		"DerivedData",
		"Pods",
		"Carthage",
		"node_modules",
		"build",
	}
}
