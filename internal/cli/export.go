package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/khanglvm/dev-advisor/internal/config"
	"github.com/khanglvm/dev-advisor/internal/storage"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

// ExportEntry is one line of the exported history.
type ExportEntry struct {
	Type     string                 `json:"type"`
	Upgrade  *storage.UpgradeRow    `json:"upgrade,omitempty"`
	Activity *storage.ActivityEvent `json:"activity,omitempty"`
	Content  *storage.ContentRecord `json:"content,omitempty"`
}

// Export entry types.
const (
	exportUpgrade  = "upgrade"
	exportActivity = "activity"
	exportContent  = "content"
)

// NewExportCmd creates the 'export' command.
func NewExportCmd() *cobra.Command {
	var format string
	var output string
	var compress bool
	var contentLimit int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recorded history for offline analysis",
		Long: `Write the upgrade history, impact activity and generated content log to
a file for grep/jq processing.

Default output: ~/.dev-advisor-export.jsonl
Default format: JSONL (one entry per line)

With --compress the output is zstd-compressed and ".zst" is appended to
the file name.`,
		Example: `  # Export to default location
  dev-advisor export

  # Export as JSON array
  dev-advisor export --format json

  # Compressed, custom path
  dev-advisor export --compress --output ./history.jsonl

Usage examples:
  # Count upgrades by kind
  jq -r 'select(.type=="upgrade") | .upgrade.kind' ~/.dev-advisor-export.jsonl | sort | uniq -c

  # Read a compressed export
  zstd -dc history.jsonl.zst | jq .`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, format, output, compress, contentLimit)
		},
	}

	cmd.Flags().StringVar(&format, "format", "jsonl", "Output format: json or jsonl")
	cmd.Flags().StringVar(&output, "output", "", "Output path (default: ~/.dev-advisor-export.jsonl)")
	cmd.Flags().BoolVar(&compress, "compress", false, "Compress output with zstd")
	cmd.Flags().IntVar(&contentLimit, "content-limit", 500, "Maximum content log entries to export")

	return cmd
}

// runExport executes the export command.
func runExport(cmd *cobra.Command, format, output string, compress bool, contentLimit int) error {
	if format != "json" && format != "jsonl" {
		return fmt.Errorf("unsupported format %q (use json or jsonl)", format)
	}

	output, err := exportPath(output, format, compress)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dbPath, err := cfg.ResolvedDBPath()
	if err != nil {
		return err
	}

	store := storage.NewStorage(dbPath)
	defer store.Close()
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}

	entries, err := collectExport(store, contentLimit)
	if err != nil {
		return err
	}

	// Acquire file lock to prevent concurrent writes
	lockFile, err := acquireFileLock(output)
	if err != nil {
		return fmt.Errorf("failed to acquire file lock: %w", err)
	}
	defer releaseFileLock(lockFile)

	if err := writeExport(entries, output, format, compress); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d entries to %s\n", len(entries), output)
	return nil
}

func exportPath(output, format string, compress bool) (string, error) {
	if output == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		output = filepath.Join(home, ".dev-advisor-export."+format)
	} else {
		expanded, err := config.ExpandPath(output)
		if err != nil {
			return "", err
		}
		output = expanded
	}
	if compress && !strings.HasSuffix(output, ".zst") {
		output += ".zst"
	}
	return output, nil
}

// collectExport reads upgrades and activity in append order, then content newest first.
func collectExport(s storage.Storage, contentLimit int) ([]ExportEntry, error) {
	upgrades, err := s.ListUpgrades()
	if err != nil {
		return nil, err
	}
	activity, err := s.ListActivity()
	if err != nil {
		return nil, err
	}
	logged, err := s.ListContent(contentLimit)
	if err != nil {
		return nil, err
	}

	entries := make([]ExportEntry, 0, len(upgrades)+len(activity)+len(logged))
	for i := range upgrades {
		entries = append(entries, ExportEntry{Type: exportUpgrade, Upgrade: &upgrades[i]})
	}
	for i := range activity {
		entries = append(entries, ExportEntry{Type: exportActivity, Activity: &activity[i]})
	}
	for i := range logged {
		entries = append(entries, ExportEntry{Type: exportContent, Content: &logged[i]})
	}
	return entries, nil
}

// writeExport writes entries to path, optionally through a zstd encoder.
func writeExport(entries []ExportEntry, path, format string, compress bool) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close export file: %w", cerr)
		}
	}()

	var w io.Writer = file
	if compress {
		zw, zerr := zstd.NewWriter(file)
		if zerr != nil {
			return fmt.Errorf("failed to create zstd writer: %w", zerr)
		}
		defer func() {
			if cerr := zw.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("failed to finish zstd stream: %w", cerr)
			}
		}()
		w = zw
	}

	return encodeExport(w, entries, format)
}

func encodeExport(w io.Writer, entries []ExportEntry, format string) error {
	encoder := json.NewEncoder(w)

	if format == "json" {
		// JSON array format
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode entries: %w", err)
		}
		return nil
	}

	// JSONL format (one per line)
	for _, e := range entries {
		if err := encoder.Encode(e); err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
	}
	return nil
}

// acquireFileLock acquires an exclusive lock on the export file.
func acquireFileLock(path string) (*os.File, error) {
	lockPath := path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	// Try to acquire exclusive lock (non-blocking)
	err = unix.Flock(int(lockFile.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		lockFile.Close()
		return nil, fmt.Errorf("failed to acquire lock (another export in progress?): %w", err)
	}

	return lockFile, nil
}

// releaseFileLock releases the file lock and removes the lock file.
func releaseFileLock(lockFile *os.File) error {
	if lockFile == nil {
		return nil
	}

	lockPath := lockFile.Name()

	unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)
	lockFile.Close()

	return os.Remove(lockPath)
}
