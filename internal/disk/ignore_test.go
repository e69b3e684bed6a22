package disk

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadIgnoreFallsBackToDefaults(t *testing.T) {
	// No ignore file at all.
	dir := t.TempDir()
	if got := loadIgnore(dir); len(got) != len(defaultIgnorePatterns) {
		t.Errorf("loadIgnore without a file returned %v", got)
	}

	// An ignore file with only comments and blanks.
	if err := os.WriteFile(filepath.Join(dir, IgnoreFile), []byte("# nothing\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := loadIgnore(dir); len(got) != len(defaultIgnorePatterns) {
		t.Errorf("loadIgnore of a blank file returned %v", got)
	}
}

func TestIgnored(t *testing.T) {
	patterns := []string{"*.bak", ".*", "#*#"}
	cases := []struct {
		name string
		want bool
	}{
		{"save.bak", true},
		{".hidden", true},
		{"#draft#", true},
		{"main.cfg", false},
		{"bak", false},
	}
	for _, tc := range cases {
		if got := ignored(patterns, tc.name); got != tc.want {
			t.Errorf("ignored(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
