package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/khanglvm/dev-advisor/internal/config"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
)

// setupConfig writes a config whose database lives in a temp dir and points
// DEV_ADVISOR_CONFIG at it.
func setupConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.Settings.DBPath = filepath.Join(dir, "history.db")
	cfg.Settings.Seed = 5

	path := filepath.Join(dir, "config.json")
	if err := config.Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	t.Setenv(config.EnvConfigPath, path)
	t.Setenv(config.EnvTracking, "")
	t.Setenv(config.EnvMetricsAddr, "")
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCommandConstructors(t *testing.T) {
	tests := []struct {
		name string
		cmd  *cobra.Command
		use  string
	}{
		{"init", NewInitCmd(), "init"},
		{"verify", NewVerifyCmd(), "verify"},
		{"analyze", NewAnalyzeCmd(), "analyze [path]"},
		{"apply", NewApplyCmd(), "apply <kind> [path]"},
		{"history", NewHistoryCmd(), "history"},
		{"generate", NewGenerateCmd(), "generate [topic...]"},
		{"search", NewSearchCmd(), "search <query>"},
		{"impact", NewImpactCmd(), "impact"},
		{"export", NewExportCmd(), "export"},
		{"serve", NewServeCmd(), "serve"},
		{"version", NewVersionCmd(), "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cmd == nil {
				t.Fatal("constructor returned nil")
			}
			if tt.cmd.Use != tt.use {
				t.Errorf("Expected Use=%q, got %q", tt.use, tt.cmd.Use)
			}
			if tt.cmd.Short == "" {
				t.Error("Short description is empty")
			}
		})
	}
}

func TestCommandHelp(t *testing.T) {
	tests := []struct {
		cmd      *cobra.Command
		expected []string
	}{
		{NewServeCmd(), []string{"serve", "MCP server", "stdio", "advisor_analyze"}},
		{NewExportCmd(), []string{"--format", "--compress", "zstd"}},
		{NewInitCmd(), []string{"--force", "configuration"}},
		{NewImpactCmd(), []string{"record", "learn", "show"}},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			output, err := execute(t, tt.cmd, "--help")
			if err != nil {
				t.Fatalf("Execute() with --help failed: %v", err)
			}
			for _, expected := range tt.expected {
				if !strings.Contains(output, expected) {
					t.Errorf("Help output missing %q", expected)
				}
			}
		})
	}
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	t.Setenv(config.EnvConfigPath, path)

	output, err := execute(t, NewInitCmd())
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(output, path) {
		t.Errorf("expected path in output, got %q", output)
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Settings.DefaultTopic != "SwiftUI" {
		t.Errorf("unexpected default topic %q", cfg.Settings.DefaultTopic)
	}

	if _, err := execute(t, NewInitCmd()); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, err := execute(t, NewInitCmd(), "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("expected backup after --force: %v", err)
	}
}

func TestVerifyCommand(t *testing.T) {
	setupConfig(t)

	output, err := execute(t, NewVerifyCmd())
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	for _, expected := range []string{"Config file", "History database", "0 upgrades"} {
		if !strings.Contains(output, expected) {
			t.Errorf("verify output missing %q: %s", expected, output)
		}
	}

	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.json"))
	if _, err := execute(t, NewVerifyCmd()); err == nil {
		t.Error("verify should fail when the config is missing")
	}
}

func TestAnalyzeCommand(t *testing.T) {
	setupConfig(t)
	project := t.TempDir()

	output, err := execute(t, NewAnalyzeCmd(), project, "--json")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var set struct {
		Priority        string `json:"priority"`
		Recommendations []struct {
			Kind string `json:"kind"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(output), &set); err != nil {
		t.Fatalf("bad JSON %q: %v", output, err)
	}
	if set.Priority != "High" || len(set.Recommendations) != 4 {
		t.Errorf("empty project should get all four recommendations at High, got %+v", set)
	}

	if _, err := execute(t, NewAnalyzeCmd(), filepath.Join(project, "nope")); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestApplyAndHistory(t *testing.T) {
	setupConfig(t)
	project := t.TempDir()

	if _, err := execute(t, NewApplyCmd(), "add_ci", project); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if _, err := execute(t, NewApplyCmd(), "improve_coverage", project, "--current", "35"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if _, err := execute(t, NewApplyCmd(), "rewrite_in_rust", project); err == nil {
		t.Error("expected error for unknown kind")
	}

	output, err := execute(t, NewHistoryCmd(), "--json")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	var history []struct {
		Recommendation struct {
			Kind    string `json:"kind"`
			Current *int   `json:"current"`
			Target  *int   `json:"target"`
		} `json:"recommendation"`
	}
	if err := json.Unmarshal([]byte(output), &history); err != nil {
		t.Fatalf("bad JSON %q: %v", output, err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 upgrades, got %d", len(history))
	}
	if history[0].Recommendation.Kind != "add_ci" || history[1].Recommendation.Kind != "improve_coverage" {
		t.Errorf("unexpected order %+v", history)
	}
	if *history[1].Recommendation.Current != 35 || *history[1].Recommendation.Target != 70 {
		t.Errorf("unexpected coverage payload %+v", history[1].Recommendation)
	}
}

func TestGenerateCommand(t *testing.T) {
	setupConfig(t)

	output, err := execute(t, NewGenerateCmd(), "Testing", "security", "-n", "3", "--json")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	var items []struct {
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal([]byte(output), &items); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for _, it := range items {
		if it.Topic != "Testing" && it.Topic != "Security" {
			t.Errorf("unexpected topic %q", it.Topic)
		}
	}

	output, err = execute(t, NewGenerateCmd())
	if err != nil {
		t.Fatalf("generate with default topic failed: %v", err)
	}
	if !strings.Contains(output, "SwiftUI") {
		t.Errorf("expected default topic in output, got %q", output)
	}

	if _, err := execute(t, NewGenerateCmd(), "Kotlin"); err == nil {
		t.Error("expected unknown topic error")
	}
	if _, err := execute(t, NewGenerateCmd(), "-n", "-1"); err == nil {
		t.Error("expected negative count error")
	}
	if _, err := execute(t, NewGenerateCmd(), "-n", "1001"); err == nil || !strings.Contains(err.Error(), "maxBatch") {
		t.Errorf("expected batch limit error, got %v", err)
	}
}

func TestSearchCommand(t *testing.T) {
	setupConfig(t)

	output, err := execute(t, NewSearchCmd(), "test", "--topic", "Testing", "--json")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	var results []struct {
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal([]byte(output), &results); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	for _, r := range results {
		if r.Topic != "Testing" {
			t.Errorf("scoped search returned %q", r.Topic)
		}
	}

	if _, err := execute(t, NewSearchCmd(), "x", "--topic", "Perl"); err == nil {
		t.Error("expected unknown topic error")
	}
}

func TestImpactCommands(t *testing.T) {
	setupConfig(t)

	if _, err := execute(t, NewImpactCmd(), "record", "post"); err != nil {
		t.Fatalf("impact record failed: %v", err)
	}
	if _, err := execute(t, NewImpactCmd(), "learn", "Testing", "60"); err != nil {
		t.Fatalf("impact learn failed: %v", err)
	}
	if _, err := execute(t, NewImpactCmd(), "record", "upvote"); err == nil {
		t.Error("expected unknown contribution error")
	}
	if _, err := execute(t, NewImpactCmd(), "learn", "Testing", "ten"); err == nil {
		t.Error("expected invalid minutes error")
	}

	output, err := execute(t, NewImpactCmd(), "show", "--json")
	if err != nil {
		t.Fatalf("impact show failed: %v", err)
	}
	var shown struct {
		TotalContributions int      `json:"totalContributions"`
		LearningHours      float64  `json:"learningHours"`
		TopicsLearned      []string `json:"topicsLearned"`
		Score              float64  `json:"score"`
	}
	if err := json.Unmarshal([]byte(output), &shown); err != nil {
		t.Fatalf("bad JSON %q: %v", output, err)
	}
	if shown.TotalContributions != 1 || shown.LearningHours != 1 || shown.Score != 3 {
		t.Errorf("state not restored across invocations: %+v", shown)
	}
	if len(shown.TopicsLearned) != 1 || shown.TopicsLearned[0] != "Testing" {
		t.Errorf("unexpected topics %v", shown.TopicsLearned)
	}
}

func TestExportCommand(t *testing.T) {
	setupConfig(t)
	project := t.TempDir()

	execute(t, NewApplyCmd(), "add_backend", project)
	execute(t, NewImpactCmd(), "record", "comment")
	execute(t, NewGenerateCmd(), "Animations")

	out := filepath.Join(t.TempDir(), "export.jsonl")
	if _, err := execute(t, NewExportCmd(), "--output", out); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	types := exportTypes(t, bytes.NewReader(data))
	if strings.Join(types, ",") != "upgrade,activity,content" {
		t.Errorf("unexpected entry order %v", types)
	}
	if _, err := os.Stat(out + ".lock"); !os.IsNotExist(err) {
		t.Error("lock file should be removed after export")
	}

	output, err := execute(t, NewExportCmd(), "--output", out, "--compress")
	if err != nil {
		t.Fatalf("compressed export failed: %v", err)
	}
	if !strings.Contains(output, out+".zst") {
		t.Errorf("expected .zst path in output, got %q", output)
	}
	f, err := os.Open(out + ".zst")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	if got := exportTypes(t, zr); len(got) != 3 {
		t.Errorf("expected 3 compressed entries, got %v", got)
	}

	if _, err := execute(t, NewExportCmd(), "--format", "xml"); err == nil {
		t.Error("expected unsupported format error")
	}
}

func exportTypes(t *testing.T, r interface{ Read([]byte) (int, error) }) []string {
	t.Helper()
	var types []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		var e ExportEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("bad line %q: %v", scanner.Text(), err)
		}
		types = append(types, e.Type)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	return types
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, NewVersionCmd())
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, expected := range []string{"Version:", "Commit:", "Built:"} {
		if !strings.Contains(output, expected) {
			t.Errorf("version output missing %q", expected)
		}
	}
}
