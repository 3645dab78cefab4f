package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/khanglvm/dev-advisor/internal/recommend"
)

var _ recommend.Inspector = (*FSInspector)(nil)

// writeTree creates files (and their parent directories) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestHasTests(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  bool
	}{
		{"empty project", map[string]string{"README.md": ""}, false},
		{"go test file", map[string]string{"pkg/util_test.go": "package pkg"}, true},
		{"swift tests dir", map[string]string{"AppTests/Placeholder.txt": "", "Tests/AppTests.swift": ""}, true},
		{"jest spec", map[string]string{"src/button.spec.tsx": ""}, true},
		{"pytest file", map[string]string{"app/test_models.py": ""}, true},
		{"ignored vendor", map[string]string{"vendor/lib/lib_test.go": ""}, false},
		{"ignored node_modules", map[string]string{"node_modules/x/index.test.js": ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tt.files)

			got, err := NewFSInspector().HasTests(context.Background(), root)
			if err != nil {
				t.Fatalf("HasTests failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHasTestsRespectsMaxDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/b/c/d/deep_test.go": ""})

	shallow := &FSInspector{MaxDepth: 2}
	got, err := shallow.HasTests(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("expected deep test file to be out of reach")
	}

	deep := &FSInspector{MaxDepth: 5}
	if got, _ := deep.HasTests(context.Background(), root); !got {
		t.Error("expected deep test file within MaxDepth 5")
	}
}

func TestHasCI(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  bool
	}{
		{"none", map[string]string{"main.go": ""}, false},
		{"github workflow", map[string]string{".github/workflows/ci.yml": ""}, true},
		{"github workflow yaml", map[string]string{".github/workflows/build.yaml": ""}, true},
		{"github without workflows", map[string]string{".github/CODEOWNERS": ""}, false},
		{"gitlab", map[string]string{".gitlab-ci.yml": ""}, true},
		{"circleci", map[string]string{".circleci/config.yml": ""}, true},
		{"jenkins", map[string]string{"Jenkinsfile": ""}, true},
		{"buildkite", map[string]string{".buildkite/pipeline.yml": ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tt.files)

			got, err := NewFSInspector().HasCI(context.Background(), root)
			if err != nil {
				t.Fatalf("HasCI failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHasBackend(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  bool
	}{
		{"client only", map[string]string{"App/ContentView.swift": ""}, false},
		{"server dir", map[string]string{"server/main.go": ""}, true},
		{"nested api dir", map[string]string{"services/api/handler.ts": ""}, true},
		{"compose file", map[string]string{"docker-compose.yml": ""}, true},
		{"procfile", map[string]string{"Procfile": "web: ./run"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tt.files)

			got, err := NewFSInspector().HasBackend(context.Background(), root)
			if err != nil {
				t.Fatalf("HasBackend failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestInaccessiblePath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	inspector := NewFSInspector()
	ctx := context.Background()

	for _, path := range []string{missing, file} {
		if _, err := inspector.HasTests(ctx, path); !errors.Is(err, ErrPathInaccessible) {
			t.Errorf("HasTests(%s): expected ErrPathInaccessible, got %v", path, err)
		}
		if _, err := inspector.HasCI(ctx, path); !errors.Is(err, ErrPathInaccessible) {
			t.Errorf("HasCI(%s): expected ErrPathInaccessible, got %v", path, err)
		}
		if _, err := inspector.HasBackend(ctx, path); !errors.Is(err, ErrPathInaccessible) {
			t.Errorf("HasBackend(%s): expected ErrPathInaccessible, got %v", path, err)
		}
		if _, err := inspector.CoveragePercent(ctx, path); !errors.Is(err, ErrPathInaccessible) {
			t.Errorf("CoveragePercent(%s): expected ErrPathInaccessible, got %v", path, err)
		}
	}
}

func TestCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/b.txt": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFSInspector().HasTests(ctx, root); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestAnalyzeWithFSInspector runs the engine end to end over a real tree.
func TestAnalyzeWithFSInspector(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":                  "package main",
		"main_test.go":             "package main",
		".github/workflows/ci.yml": "on: push",
		"coverage.out":             "mode: set\nexample.com/m/main.go:1.1,3.2 4 1\nexample.com/m/main.go:5.1,7.2 6 0\n",
	})

	engine := recommend.NewEngine(NewFSInspector())
	set, err := engine.Analyze(context.Background(), root)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// 40% coverage, no backend.
	if len(set.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %v", set.Recommendations)
	}
	if cov, ok := set.Recommendations[0].(recommend.ImproveCoverage); !ok || cov.Current != 40 {
		t.Errorf("expected ImproveCoverage(40, 70), got %v", set.Recommendations[0])
	}
	if _, ok := set.Recommendations[1].(recommend.AddBackend); !ok {
		t.Errorf("expected AddBackend, got %v", set.Recommendations[1])
	}
	if set.Priority != recommend.Low {
		t.Errorf("expected Low priority, got %v", set.Priority)
	}
}

func TestAnalyzeMissingPathLeavesHistory(t *testing.T) {
	engine := recommend.NewEngine(NewFSInspector())
	engine.Apply(recommend.AddCI{}, "/somewhere")

	_, err := engine.Analyze(context.Background(), filepath.Join(t.TempDir(), "gone"))
	if !errors.Is(err, ErrPathInaccessible) {
		t.Fatalf("expected ErrPathInaccessible, got %v", err)
	}
	if len(engine.History()) != 1 {
		t.Error("failed analysis touched history")
	}
}
