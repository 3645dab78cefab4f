package probe

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/cover"
)

// CoveragePercent returns the statement coverage from the first coverage
// report found, truncated to an integer in 0..100. A project without a
// report has 0% coverage.
func (i *FSInspector) CoveragePercent(ctx context.Context, path string) (int, error) {
	if err := checkRoot(path); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	files := i.CoverageFiles
	if len(files) == 0 {
		files = DefaultCoverageFiles
	}

	for _, name := range files {
		report := filepath.Join(path, name)
		if !exists(report) {
			continue
		}

		var covered, total int64
		var err error
		if strings.HasSuffix(name, ".info") {
			covered, total, err = lcovTotals(report)
		} else {
			covered, total, err = goProfileTotals(report)
		}
		if err != nil {
			return 0, fmt.Errorf("failed to parse coverage report %s: %w", report, err)
		}
		return percent(covered, total), nil
	}

	return 0, nil
}

// goProfileTotals sums statements from a `go test -coverprofile` file.
func goProfileTotals(path string) (covered, total int64, err error) {
	profiles, err := cover.ParseProfiles(path)
	if err != nil {
		return 0, 0, err
	}
	for _, p := range profiles {
		for _, b := range p.Blocks {
			total += int64(b.NumStmt)
			if b.Count > 0 {
				covered += int64(b.NumStmt)
			}
		}
	}
	return covered, total, nil
}

// lcovTotals sums LH (lines hit) and LF (lines found) records.
func lcovTotals(path string) (covered, total int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "LF:"):
			n, err := strconv.ParseInt(line[3:], 10, 64)
			if err != nil {
				return 0, 0, fmt.Errorf("bad LF record %q: %w", line, err)
			}
			total += n
		case strings.HasPrefix(line, "LH:"):
			n, err := strconv.ParseInt(line[3:], 10, 64)
			if err != nil {
				return 0, 0, fmt.Errorf("bad LH record %q: %w", line, err)
			}
			covered += n
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, err
	}
	return covered, total, nil
}

func percent(covered, total int64) int {
	if total <= 0 {
		return 0
	}
	p := int(covered * 100 / total)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
