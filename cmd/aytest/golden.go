package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/aycc/aycc/pkg/config"
	"github.com/aycc/aycc/pkg/diag"
	"github.com/aycc/aycc/pkg/driver"
)

// Golden is the recorded front end output for one source file.
type Golden struct {
	Hash     string `json:"hash"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
}

type FileTestResult struct {
	File    string `json:"file"`
	Status  string `json:"status"` // PASS, FAIL, SKIP, ERROR, UPDATED
	Message string `json:"message,omitempty"`
	Diff    string `json:"diff,omitempty"`
}

type TestSuiteResults map[string]*FileTestResult

func getJSONPath(sourceFile, dir string) string {
	jsonFileName := "." + filepath.Base(sourceFile) + ".json"
	if dir != "" {
		return filepath.Join(dir, jsonFileName)
	}
	return filepath.Join(filepath.Dir(sourceFile), jsonFileName)
}

// hashFile computes the xxhash of a file's content
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum64()), nil
}

// capture runs the lexer and preprocessor over file the way `aycc -E` does
// and records what it prints. Paths under the file's directory are made
// relative so goldens can be moved with their sources.
func capture(file string, cfg *config.Config) (Golden, error) {
	d, err := driver.New(cfg)
	if err != nil {
		return Golden{}, err
	}
	var stdout, stderr bytes.Buffer
	d.Out = &stdout
	d.Printer = &diag.Printer{W: &stderr}
	d.PrintTokens = true

	g := Golden{}
	if _, err := d.Run(context.Background(), []string{file}); err != nil {
		if !errors.Is(err, driver.ErrNotEnoughObjects) {
			return Golden{}, err
		}
		g.ExitCode = 1
	}
	prefix := filepath.Dir(file) + string(filepath.Separator)
	g.Stdout = strings.ReplaceAll(stdout.String(), prefix, "")
	g.Stderr = strings.ReplaceAll(stderr.String(), prefix, "")
	return g, nil
}

func writeGolden(path string, g Golden) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal golden data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// testFile compares file against its golden file, or rewrites the golden
// file when update is set.
func testFile(file, goldenDir string, cfg *config.Config, update bool) *FileTestResult {
	fileHash, err := hashFile(file)
	if err != nil {
		return &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Failed to hash source file: %v", err)}
	}
	got, err := capture(file, cfg)
	if err != nil {
		return &FileTestResult{File: file, Status: "ERROR", Message: err.Error()}
	}
	got.Hash = fileHash

	goldenFile := getJSONPath(file, goldenDir)
	if update {
		if err := writeGolden(goldenFile, got); err != nil {
			return &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Failed to write golden file: %v", err)}
		}
		return &FileTestResult{File: file, Status: "UPDATED", Message: goldenFile}
	}

	data, err := os.ReadFile(goldenFile)
	if errors.Is(err, os.ErrNotExist) {
		return &FileTestResult{File: file, Status: "SKIP", Message: "No golden file, run with -update"}
	}
	if err != nil {
		return &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Could not read golden file %s: %v", goldenFile, err)}
	}
	var want Golden
	if err := json.Unmarshal(data, &want); err != nil {
		return &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Could not parse golden file %s: %v", goldenFile, err)}
	}
	if want.Hash != fileHash {
		return &FileTestResult{File: file, Status: "SKIP", Message: "Source changed since the golden file was recorded, run with -update"}
	}

	if diff := cmp.Diff(want, got); diff != "" {
		return &FileTestResult{File: file, Status: "FAIL", Message: "Output differs from golden file", Diff: diff}
	}
	return &FileTestResult{File: file, Status: "PASS", Message: "Output matches golden file"}
}

func hasFailures(results TestSuiteResults) bool {
	for _, result := range results {
		if result.Status == "FAIL" || result.Status == "ERROR" {
			return true
		}
	}
	return false
}

func expandGlobPatterns(patterns string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]bool)
	for _, pattern := range strings.Fields(patterns) {
		files, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %s: %w", pattern, err)
		}
		for _, file := range files {
			absFile, err := filepath.Abs(file)
			if err != nil {
				continue
			}
			if seen[absFile] {
				continue
			}
			if info, err := os.Stat(absFile); err == nil && info.Mode().IsRegular() {
				allFiles = append(allFiles, absFile)
				seen[absFile] = true
			}
		}
	}
	return allFiles, nil
}
