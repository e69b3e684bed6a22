package disk

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// IgnoreFile sits at the top of a scanned directory and replaces the
// default ignore patterns, one glob per line. It is never part of the
// scanned tree itself.
const IgnoreFile = "_server.ign"

// Patterns every scan skips unless the directory carries its own ignore
// file: hidden entries plus editor and packaging leftovers.
var defaultIgnorePatterns = []string{
	".*",
	"*~",
	"*-bak",
	"*.bak",
	"*.swp",
	"*.pbl",
	"*.ign",
	"#*#",
	"Thumbs.db",
	"__pycache__",
}

// loadIgnore returns the ignore patterns for a scan of root.
func loadIgnore(root string) []string {
	f, err := os.Open(filepath.Join(root, IgnoreFile))
	if err != nil {
		return defaultIgnorePatterns
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if sc.Err() != nil || len(patterns) == 0 {
		return defaultIgnorePatterns
	}
	return patterns
}

// ignored reports whether a directory entry name matches any pattern.
// Patterns apply to entry names, not paths.
func ignored(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
