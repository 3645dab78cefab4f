/*
Package probe inspects a project directory on disk and reports the signals
the recommendation engine needs: tests, CI, backend and coverage.
*/
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathInaccessible is returned when the project path is missing, not a
// directory, or cannot be read.
var ErrPathInaccessible = errors.New("path inaccessible")

// DefaultMaxDepth bounds directory walks.
const DefaultMaxDepth = 6

// DefaultCoverageFiles are the report names looked up relative to the project root.
var DefaultCoverageFiles = []string{"coverage.out", "cover.out", "coverage/lcov.info", "lcov.info"}

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".build":       true,
	"Pods":         true,
	"DerivedData":  true,
}

var testDirs = map[string]bool{
	"Tests":     true,
	"tests":     true,
	"test":      true,
	"__tests__": true,
	"spec":      true,
}

var backendDirs = map[string]bool{
	"backend":   true,
	"server":    true,
	"api":       true,
	"functions": true,
}

var backendFiles = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"Procfile",
	"serverless.yml",
}

var ciFiles = []string{
	".gitlab-ci.yml",
	".circleci/config.yml",
	"Jenkinsfile",
	".travis.yml",
	"azure-pipelines.yml",
	"bitrise.yml",
}

// FSInspector reads project signals from the local filesystem.
type FSInspector struct {
	// MaxDepth limits how deep test and backend lookups descend. Zero means DefaultMaxDepth.
	MaxDepth int

	// CoverageFiles are tried in order; the first that exists is parsed.
	CoverageFiles []string
}

// NewFSInspector returns an inspector with default settings.
func NewFSInspector() *FSInspector {
	return &FSInspector{
		MaxDepth:      DefaultMaxDepth,
		CoverageFiles: DefaultCoverageFiles,
	}
}

func (i *FSInspector) maxDepth() int {
	if i.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return i.MaxDepth
}

// checkRoot verifies path is a readable directory.
func checkRoot(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPathInaccessible, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrPathInaccessible, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPathInaccessible, path, err)
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %v", ErrPathInaccessible, path, err)
	}
	return nil
}

// HasTests reports whether a test directory or test-named file exists.
func (i *FSInspector) HasTests(ctx context.Context, path string) (bool, error) {
	if err := checkRoot(path); err != nil {
		return false, err
	}
	return i.find(ctx, path, func(rel string, d fs.DirEntry) bool {
		if d.IsDir() {
			return testDirs[d.Name()]
		}
		return isTestFile(d.Name())
	})
}

func isTestFile(name string) bool {
	switch {
	case strings.HasSuffix(name, "_test.go"),
		strings.HasSuffix(name, "Tests.swift"),
		strings.HasSuffix(name, "Test.swift"),
		strings.HasPrefix(name, "test_") && strings.HasSuffix(name, ".py"),
		strings.HasSuffix(name, "_test.py"):
		return true
	}
	for _, ext := range []string{".js", ".ts", ".jsx", ".tsx"} {
		if strings.HasSuffix(name, ".test"+ext) || strings.HasSuffix(name, ".spec"+ext) {
			return true
		}
	}
	return false
}

// HasCI reports whether a known CI configuration exists at the project root.
func (i *FSInspector) HasCI(ctx context.Context, path string) (bool, error) {
	if err := checkRoot(path); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	for _, name := range ciFiles {
		if exists(filepath.Join(path, name)) {
			return true, nil
		}
	}
	if isDir(filepath.Join(path, ".buildkite")) {
		return true, nil
	}

	workflows, err := os.ReadDir(filepath.Join(path, ".github", "workflows"))
	if err == nil {
		for _, w := range workflows {
			ext := filepath.Ext(w.Name())
			if !w.IsDir() && (ext == ".yml" || ext == ".yaml") {
				return true, nil
			}
		}
	}
	return false, nil
}

// HasBackend reports whether backend directories or service manifests exist.
func (i *FSInspector) HasBackend(ctx context.Context, path string) (bool, error) {
	if err := checkRoot(path); err != nil {
		return false, err
	}
	for _, name := range backendFiles {
		if exists(filepath.Join(path, name)) {
			return true, nil
		}
	}
	return i.find(ctx, path, func(rel string, d fs.DirEntry) bool {
		return d.IsDir() && backendDirs[d.Name()]
	})
}

// find walks root up to MaxDepth and reports whether match accepts any entry.
func (i *FSInspector) find(ctx context.Context, root string, match func(rel string, d fs.DirEntry) bool) (bool, error) {
	found := false
	maxDepth := i.maxDepth()

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Unreadable subtrees are skipped; the root was already checked.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p == root {
			return nil
		}

		rel, _ := filepath.Rel(root, p)
		depth := strings.Count(rel, string(filepath.Separator)) + 1

		if d.IsDir() && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if match(rel, d) {
			found = true
			return filepath.SkipAll
		}
		if d.IsDir() && depth >= maxDepth {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
