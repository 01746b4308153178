// Package main measures how much the lint cache speeds up the commitscore CLI.
// Each command runs several times without a cache and several times with the
// SQLite cache. The first cached run is cold and the rest are averaged as warm.
// The results are written to a CSV file for documentation.
//
// Prerequisites:
// - commitscore, pylint and golint installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: requests, flask, black, cobra
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Repository  string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	Commits     int
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
	RepoRefs    map[string][2]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	repoBase := os.Args[1]

	config := BenchmarkConfig{
		RepoBase:    repoBase,
		Timeout:     10 * time.Minute,
		Commits:     25,
		NoCacheRuns: 3,
		CacheRuns:   4,
		TestRepos:   []string{"requests", "flask", "black", "cobra"},
		RepoRefs: map[string][2]string{
			"requests": {"v2.31.0", "v2.32.0"},
			"flask":    {"3.0.0", "3.0.1"},
			"black":    {"24.1.0", "24.2.0"},
			"cobra":    {"v1.8.0", "v1.8.1"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Start from an empty lint cache
	fmt.Printf("Clearing lint cache...\n")
	clearCmd := exec.Command("commitscore", "store", "clear", "--cache")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear lint cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Lint cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the binaries and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	for _, bin := range []string{"commitscore", "pylint"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s binary not found in PATH", bin)
		}
	}

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured repositories
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d commits, no-cache: %d runs, cache: %d runs\n",
		len(config.TestRepos), config.Timeout, config.Commits, config.NoCacheRuns, config.CacheRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)

		repoPath := filepath.Join(config.RepoBase, repo)

		// History mode over the most recent commits
		args := []string{"history", "--commits", strconv.Itoa(config.Commits)}
		desc := fmt.Sprintf("history (%d commits)", config.Commits)
		results = append(results, runBenchmarkSuite(config, repo, repoPath, "history", desc, args))

		// Range scoring between two releases
		if refs, ok := config.RepoRefs[repo]; ok {
			args = []string{"run", "--base-ref", refs[0], "--target-ref", refs[1]}
			desc = fmt.Sprintf("run (%s -> %s)", refs[0], refs[1])
			results = append(results, runBenchmarkSuite(config, repo, repoPath, "run", desc, args))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath, command, description string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, repo)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, repoPath, args, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository:  repo,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a commitscore command multiple times with the given cache backend and returns cold time and warm times.
// The history store and the repository score are disabled so runs do not affect each other.
func runBenchmark(config BenchmarkConfig, repoPath string, args []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	full := append([]string{}, args...)
	full = append(full, "--cache-backend", cacheBackend, "--store-backend", "none",
		"--ledger-file", filepath.Join(os.TempDir(), "commitscore_benchmark.score"))

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()

		cmd := exec.CommandContext(ctx, "commitscore", full...)
		cmd.Dir = repoPath
		err := cmd.Run()
		elapsed := time.Since(start).Seconds()
		cancel()

		if isSuccess(err) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess reports whether the command finished scoring. A rejected commit
// exits with 1 and still counts; a missing linter exits with 2.
func isSuccess(err error) bool {
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("commitscore_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"repo", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "history", "History Mode:")
	printCommandSummary(results, "run", "Range Scoring:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", result.Repository, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
