package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScoreFileExts are the extensions picked up when a directory is expanded.
var ScoreFileExts = []string{".json", ".json.gz"}

// ResolvePaths turns command-line arguments into score file paths. Relative
// arguments are joined to baseDir. Glob patterns are expanded and
// directories are replaced by the score files directly inside them, both in
// lexical order. Arguments that match nothing are kept as given so the
// caller can report them.
func ResolvePaths(args []string, baseDir string) []string {
	if len(args) == 0 {
		return nil
	}

	var resolved []string
	for _, arg := range args {
		p := arg
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}

		if strings.ContainsAny(p, "*?[") {
			matches, err := filepath.Glob(p)
			if err == nil && len(matches) > 0 {
				for _, m := range matches {
					resolved = append(resolved, expandDir(m)...)
				}
				continue
			}
		}
		resolved = append(resolved, expandDir(p)...)
	}
	return resolved
}

// expandDir lists the score files in p when p is a directory.
func expandDir(p string) []string {
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		return []string{p}
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return []string{p}
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsScoreFile(e.Name()) {
			files = append(files, filepath.Join(p, e.Name()))
		}
	}
	sort.Strings(files)
	return files
}

// IsScoreFile reports whether name has a score file extension.
func IsScoreFile(name string) bool {
	for _, ext := range ScoreFileExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
