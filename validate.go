package addonsync

import (
	"strings"
	"unicode/utf8"
)

// CheckMode selects how tree checks report problems.
type CheckMode int

const (
	// FailFast stops at the first offending path and collects nothing.
	FailFast CheckMode = iota
	// CollectAll records every offending path.
	CollectAll
)

// NameLegal reports whether name is a legal add-on identifier: nonempty,
// ASCII letters, digits, hyphens and underscores only.
func NameLegal(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		switch b := name[i]; {
		case b >= 'a' && b <= 'z':
		case b >= 'A' && b <= 'Z':
		case b >= '0' && b <= '9':
		case b == '-', b == '_':
		default:
			return false
		}
	}
	return true
}

// Reserved DOS device names, matched case-insensitively against the part of
// a filename before its first dot.
var dosDeviceNames = map[string]bool{
	"NUL": true, "CON": true, "AUX": true, "PRN": true,
	"CONIN$": true, "CONOUT$": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

func illegalFileChar(r rune) bool {
	switch r {
	case ' ', '"', '*', '/', ':', '<', '>', '?', '\\', '|', '~', 0x7F:
		return true
	}
	if r < 0x20 {
		return true
	}
	if r >= 0x80 && r <= 0x9F {
		return true
	}
	return r >= 0xD800 && r <= 0xDFFF
}

// FilenameLegal reports whether name is safe as a file or directory name
// inside an add-on: nonempty, no trailing dot, no ".." anywhere, at most 255
// bytes, no reserved DOS device stem, valid UTF-8, and free of code points
// that are unsafe on common filesystems.
func FilenameLegal(name string) bool {
	if name == "" || name[len(name)-1] == '.' {
		return false
	}
	if strings.Contains(name, "..") || len(name) > 255 {
		return false
	}

	stem := name
	if i := strings.IndexByte(name, '.'); i >= 0 {
		stem = name[:i]
	}
	if dosDeviceNames[asciiUpper(stem)] {
		return false
	}

	if !utf8.ValidString(name) {
		return false
	}
	for _, r := range name {
		if illegalFileChar(r) {
			return false
		}
	}
	return true
}

// asciiUpper uppercases ASCII letters only. Name matching is deliberately
// locale-independent: multibyte characters never fold into the reserved set.
func asciiUpper(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - ('a' - 'A')
		}
		return r
	}, s)
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// CheckNames verifies every file and directory name in the tree with
// FilenameLegal. It reports whether the tree is clean and, in CollectAll
// mode, the relative paths of all offenders in walk order: files before
// subdirectories, directory paths with a trailing slash. Directories with
// illegal names are still descended into.
func CheckNames(root *Dir, mode CheckMode) (bool, []string) {
	var bad []string
	ok := checkNames(root, "", mode, &bad)
	return ok, bad
}

func checkNames(d *Dir, prefix string, mode CheckMode, bad *[]string) bool {
	ok := true
	for _, f := range d.Files {
		if FilenameLegal(f.Name) {
			continue
		}
		if mode == FailFast {
			return false
		}
		*bad = append(*bad, prefix+f.Name)
		ok = false
	}
	for _, sub := range d.Dirs {
		subPrefix := prefix + sub.Name + "/"
		if !FilenameLegal(sub.Name) {
			if mode == FailFast {
				return false
			}
			*bad = append(*bad, subPrefix)
			ok = false
		}
		if !checkNames(sub, subPrefix, mode, bad) {
			if mode == FailFast {
				return false
			}
			ok = false
		}
	}
	return ok
}

// CheckDuplicates verifies that no two entries of any directory differ only
// by ASCII letter case. Files and subdirectories share one namespace. In
// CollectAll mode the first occurrence of a clashing name is reported once,
// before the paths that clash with it.
func CheckDuplicates(root *Dir, mode CheckMode) (bool, []string) {
	var bad []string
	ok := checkDuplicates(root, "", mode, &bad)
	return ok, bad
}

type seenName struct {
	path    string
	flagged bool
}

func checkDuplicates(d *Dir, prefix string, mode CheckMode, bad *[]string) bool {
	seen := make(map[string]*seenName)
	ok := true

	// record returns false only to abort a FailFast check.
	record := func(name string) bool {
		lower := asciiLower(name)
		path := prefix + name
		first, dup := seen[lower]
		if !dup {
			seen[lower] = &seenName{path: path}
			return true
		}
		if mode == FailFast {
			return false
		}
		if !first.flagged {
			*bad = append(*bad, first.path)
			first.flagged = true
		}
		*bad = append(*bad, path)
		ok = false
		return true
	}

	for _, f := range d.Files {
		if !record(f.Name) {
			return false
		}
	}
	for _, sub := range d.Dirs {
		if !record(sub.Name) {
			return false
		}
		if !checkDuplicates(sub, prefix+sub.Name+"/", mode, bad) {
			if mode == FailFast {
				return false
			}
			ok = false
		}
	}
	return ok
}
