// aytest checks the token streams and diagnostics of C sources against
// golden files recorded next to them.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aycc/aycc/pkg/config"
)

var (
	testFiles   = flag.String("test-files", "tests/*.c", "Glob pattern(s) for files to test (space-separated).")
	skipFiles   = flag.String("skip-files", "", "Files to skip (space-separated).")
	update      = flag.Bool("update", false, "Record the current output as the golden files.")
	outputJSON  = flag.String("output", ".test_results.json", "Output file for the JSON test report.")
	jsonDir     = flag.String("dir", "", "Directory to store/read golden JSON files (defaults to source file dir).")
	stdInclude  = flag.String("std-include", config.DefaultStdIncludeRoot, "Root directory of the standard headers.")
	configFile  = flag.String("config", "", "Toolchain configuration file.")
	jobs        = flag.Int("j", 4, "Number of parallel test jobs.")
	showPassing = flag.Bool("v", false, "Also list passing files.")
)

const (
	cRed    = "\x1b[91m"
	cYellow = "\x1b[93m"
	cGreen  = "\x1b[92m"
	cCyan   = "\x1b[96m"
	cBold   = "\x1b[1m"
	cNone   = "\x1b[0m"
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	cfg := config.NewConfig()
	cfg.StdIncludeRoot = *stdInclude
	if *configFile != "" {
		if err := cfg.LoadFile(*configFile); err != nil {
			log.Fatalf("%s[ERROR]%s %v\n", cRed, cNone, err)
		}
	}
	// Each file is run on its own; parallelism comes from -j.
	cfg.Jobs = 1

	files, err := expandGlobPatterns(*testFiles)
	if err != nil {
		log.Fatalf("%s[ERROR]%s Invalid glob pattern(s): %v\n", cRed, cNone, err)
	}
	if len(files) == 0 {
		log.Println("No test files found matching the pattern(s).")
		return
	}

	skipList := make(map[string]bool)
	for _, f := range strings.Fields(*skipFiles) {
		skipList[f] = true
	}

	results := make([]*FileTestResult, len(files))
	var g errgroup.Group
	g.SetLimit(max(*jobs, 1))
	for i, file := range files {
		if skipList[file] {
			results[i] = &FileTestResult{File: file, Status: "SKIP", Message: "Explicitly skipped"}
			continue
		}
		i, file := i, file
		g.Go(func() error {
			results[i] = testFile(file, *jsonDir, cfg, *update)
			return nil
		})
	}
	g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	printSummary(results)
	if hasFailures(writeJSONReport(results)) {
		os.Exit(1)
	}
}

func printSummary(results []*FileTestResult) {
	counts := make(map[string]int)
	for _, result := range results {
		counts[result.Status]++
		if result.Status == "PASS" && !*showPassing {
			continue
		}
		color := cYellow
		switch result.Status {
		case "PASS", "UPDATED":
			color = cGreen
		case "FAIL", "ERROR":
			color = cRed
		}
		fmt.Printf("%s%s%s\n  [%s%s%s] %s\n", cCyan, result.File, cNone, color, result.Status, cNone, result.Message)
		if result.Diff != "" {
			fmt.Print(formatDiff(result.Diff))
		}
	}
	fmt.Println("----------------------------------------------------------------------")
	fmt.Printf("%sTest Summary:%s %s%d Passed%s, %s%d Failed%s, %s%d Skipped%s, %s%d Errored%s, %d Updated, %d Total\n",
		cBold, cNone, cGreen, counts["PASS"], cNone, cRed, counts["FAIL"], cNone,
		cYellow, counts["SKIP"], cNone, cRed, counts["ERROR"], cNone, counts["UPDATED"], len(results))
}

func formatDiff(diff string) string {
	var builder strings.Builder
	builder.WriteString("    --- Diff ---\n")
	for _, line := range strings.Split(diff, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if strings.HasPrefix(trimmedLine, "-") {
			builder.WriteString(cRed)
		} else if strings.HasPrefix(trimmedLine, "+") {
			builder.WriteString(cGreen)
		}
		builder.WriteString("    " + line)
		builder.WriteString(cNone)
		builder.WriteString("\n")
	}
	return builder.String()
}

func writeJSONReport(results []*FileTestResult) TestSuiteResults {
	resultsMap := make(TestSuiteResults, len(results))
	for _, r := range results {
		resultsMap[r.File] = r
	}

	jsonData, err := json.MarshalIndent(resultsMap, "", "  ")
	if err != nil {
		log.Printf("%s[ERROR]%s Failed to marshal results to JSON: %v\n", cRed, cNone, err)
		return resultsMap
	}
	if err := os.WriteFile(*outputJSON, jsonData, 0o644); err != nil {
		log.Printf("%s[ERROR]%s Failed to write JSON report to %s: %v\n", cRed, cNone, *outputJSON, err)
	} else {
		fmt.Printf("Full test report saved to %s\n", *outputJSON)
	}
	return resultsMap
}
