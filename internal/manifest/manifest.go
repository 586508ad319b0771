// Package manifest handles the dependency manifest file (requirements.txt).
//
// The manifest format is owned by pip, not by envup: the file is passed
// to `pip install -r` verbatim and never rewritten. This package only
// answers two questions the bootstrapper needs — does the manifest exist,
// and roughly how many dependency specifiers does it contain (for the
// summary line). Parsing is therefore deliberately shallow: blank lines
// and comments are skipped, everything else counts as an entry.
package manifest

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultName is the conventional manifest filename at the project root.
const DefaultName = "requirements.txt"

// Exists reports whether a manifest file is present at path.
// A directory at the path does not count.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Entries reads the manifest at path and returns its dependency
// specifier lines.
//
// Skipped lines:
//   - blank lines
//   - full-line comments (leading "#")
//
// Option lines such as "-r other.txt" or "--index-url ..." are kept:
// they are instructions to pip and part of what the install step hands
// over. Inline "#" comments are trimmed the way pip trims them (a
// comment starts at " #", not at any "#", so "pkg#egg" fragments in URLs
// survive).
func Entries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Trim a trailing inline comment. pip requires whitespace before
		// the "#" for it to start a comment.
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
			if line == "" {
				continue
			}
		}

		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	return entries, nil
}

// Count returns the number of dependency specifier lines in the manifest
// at path. Returns 0 (not an error) when the file does not exist, so the
// summary path does not need its own existence check.
func Count(path string) (int, error) {
	if !Exists(path) {
		return 0, nil
	}
	entries, err := Entries(path)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
