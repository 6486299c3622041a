// Package scanner discovers JavaScript and TypeScript source files under a
// project root and provides the stable hashing used for incremental
// indexing.
package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"funcscan/internal/parser"
)

var excludedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".next":        true,
	"coverage":     true,
}

// SourceFiles walks rootPath and returns every supported source file,
// honoring the project's root .gitignore. Well-known heavy directories are
// always skipped regardless of ignore rules.
func SourceFiles(rootPath string) ([]string, error) {
	matcher := loadGitIgnore(rootPath)

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(rootPath, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			if matcher != nil && relPath != "." && matcher.MatchesPath(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if matcher != nil && matcher.MatchesPath(relPath) {
			return nil
		}
		if parser.IsSupportedFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func loadGitIgnore(rootPath string) *ignore.GitIgnore {
	matcher, err := ignore.CompileIgnoreFile(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		// Missing or unreadable .gitignore just means nothing is ignored.
		return nil
	}
	return matcher
}

// HashContent returns the hex-encoded SHA-256 of content.
func HashContent(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// NormalizeProjectRoot resolves rootPath to a cleaned absolute path so the
// same project produces the same identity however it is referenced.
func NormalizeProjectRoot(rootPath string) (string, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return "", err
	}
	normalized := filepath.ToSlash(filepath.Clean(abs))
	if runtime.GOOS == "windows" {
		normalized = strings.ToLower(normalized)
	}
	return normalized, nil
}

// ProjectID returns a short stable fingerprint for a project root, suitable
// for scoping collections and on-disk state.
func ProjectID(rootPath string) (string, error) {
	normalized, err := NormalizeProjectRoot(rootPath)
	if err != nil {
		return "", err
	}
	return HashContent(normalized)[:16], nil
}
