// Benchmark tool for testing Gavel against labeled contract clause data.
//
// Usage:
//   go run cmd/benchmark/main.go -csv /path/to/clauses.csv -url http://localhost:8080
//
// The CSV needs the columns: category, title, text, is_risky (0/1).
// Datasets in the CUAD style can be converted to this shape with one
// awk pass over the export.
//
// This tool:
//   1. Reads labeled clause data (with risky/benign labels)
//   2. Sends each clause to Gavel for analysis
//   3. Compares Gavel's verdict (elevated risk or not) with the labels
//   4. Calculates precision, recall, F1-score, and confusion matrix
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LabeledClause represents a row from the benchmark dataset
type LabeledClause struct {
	Category string
	Title    string
	Text     string
	IsRisky  bool
}

// AnalyzeRequest is the Gavel API request format
type AnalyzeRequest struct {
	Title   string        `json:"title"`
	Clauses []ClauseInput `json:"clauses"`
}

type ClauseInput struct {
	Category   string  `json:"category"`
	Title      string  `json:"title,omitempty"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}

// AnalyzeResponse is the subset of the Gavel API response the benchmark needs
type AnalyzeResponse struct {
	Report struct {
		OverallRiskScore    float64 `json:"overallRiskScore"`
		OverallRiskLevel    string  `json:"overallRiskLevel"`
		HighRiskClauseCount int     `json:"highRiskClauseCount"`
	} `json:"report"`
}

// Metrics tracks benchmark results
type Metrics struct {
	TruePositives  int64 // Risky clause flagged as elevated
	FalsePositives int64 // Benign clause flagged as elevated
	TrueNegatives  int64 // Benign clause passed
	FalseNegatives int64 // Risky clause passed (missed risk!)

	TotalProcessed int64
	TotalRisky     int64
	TotalBenign    int64
	TotalErrors    int64

	ProcessingTimeMs int64
}

func main() {
	// Parse flags
	csvPath := flag.String("csv", "", "Path to labeled clause CSV file")
	baseURL := flag.String("url", "http://localhost:8080", "Gavel base URL")
	tenantID := flag.String("tenant", "benchmark-test", "Tenant ID for requests")
	limit := flag.Int("limit", 10000, "Maximum clauses to process (0 = all)")
	workers := flag.Int("workers", 10, "Number of concurrent workers")
	riskyOnly := flag.Bool("risky-only", false, "Only test risky clauses")
	verbose := flag.Bool("verbose", false, "Print each clause result")
	flag.Parse()

	if *csvPath == "" {
		fmt.Println("Usage: benchmark -csv /path/to/clauses.csv [-url http://localhost:8080]")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║         GAVEL BENCHMARK - Clause Risk Classification          ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nCSV File:    %s\n", *csvPath)
	fmt.Printf("Gavel URL:   %s\n", *baseURL)
	fmt.Printf("Tenant ID:   %s\n", *tenantID)
	fmt.Printf("Workers:     %d\n", *workers)
	fmt.Printf("Limit:       %d\n", *limit)
	fmt.Printf("Risky Only:  %v\n", *riskyOnly)
	fmt.Println()

	// Check Gavel is running
	if err := checkHealth(*baseURL); err != nil {
		fmt.Printf("ERROR: Gavel not reachable at %s: %v\n", *baseURL, err)
		fmt.Println("\nMake sure Gavel is running:")
		fmt.Println("  cd gavel && go run cmd/gavel/main.go")
		os.Exit(1)
	}
	fmt.Println("✓ Gavel is healthy")

	// Read dataset
	fmt.Printf("\nReading clause data from %s...\n", *csvPath)
	clauses, err := readClauseCSV(*csvPath, *limit, *riskyOnly)
	if err != nil {
		fmt.Printf("ERROR: Failed to read CSV: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Loaded %d clauses\n", len(clauses))

	// Count risky vs benign
	riskyCount := 0
	for _, c := range clauses {
		if c.IsRisky {
			riskyCount++
		}
	}
	fmt.Printf("  - Risky:  %d (%.2f%%)\n", riskyCount, 100*float64(riskyCount)/float64(len(clauses)))
	fmt.Printf("  - Benign: %d (%.2f%%)\n", len(clauses)-riskyCount, 100*float64(len(clauses)-riskyCount)/float64(len(clauses)))

	// Run benchmark
	fmt.Printf("\nRunning benchmark with %d workers...\n", *workers)
	startTime := time.Now()
	metrics := runBenchmark(clauses, *baseURL, *tenantID, *workers, *verbose)
	duration := time.Since(startTime)

	// Print results
	printResults(metrics, duration)
}

func checkHealth(baseURL string) error {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func readClauseCSV(path string, limit int, riskyOnly bool) ([]LabeledClause, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Map column indices
	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"category", "text", "is_risky"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var clauses []LabeledClause

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // Skip malformed rows
		}

		isRisky := record[colIndex["is_risky"]] == "1"

		if riskyOnly && !isRisky {
			continue
		}

		title := ""
		if idx, ok := colIndex["title"]; ok {
			title = record[idx]
		}

		clauses = append(clauses, LabeledClause{
			Category: record[colIndex["category"]],
			Title:    title,
			Text:     record[colIndex["text"]],
			IsRisky:  isRisky,
		})

		if limit > 0 && len(clauses) >= limit {
			break
		}
	}

	return clauses, nil
}

func runBenchmark(clauses []LabeledClause, baseURL, tenantID string, numWorkers int, verbose bool) *Metrics {
	metrics := &Metrics{}

	// Create work channel
	work := make(chan LabeledClause, 100)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{Timeout: 10 * time.Second}

			for clause := range work {
				start := time.Now()
				result, err := analyzeClause(client, baseURL, tenantID, clause)
				elapsed := time.Since(start).Milliseconds()

				atomic.AddInt64(&metrics.ProcessingTimeMs, elapsed)
				atomic.AddInt64(&metrics.TotalProcessed, 1)

				if err != nil {
					atomic.AddInt64(&metrics.TotalErrors, 1)
					if verbose {
						fmt.Printf("ERROR: %s -> %v\n", clause.Category, err)
					}
					continue
				}

				// Track actual labels
				if clause.IsRisky {
					atomic.AddInt64(&metrics.TotalRisky, 1)
				} else {
					atomic.AddInt64(&metrics.TotalBenign, 1)
				}

				// Calculate confusion matrix. A single clause drives the
				// whole report, so the high risk count is the clause verdict.
				predicted := result.Report.HighRiskClauseCount > 0
				actual := clause.IsRisky

				if predicted && actual {
					atomic.AddInt64(&metrics.TruePositives, 1)
				} else if predicted && !actual {
					atomic.AddInt64(&metrics.FalsePositives, 1)
				} else if !predicted && !actual {
					atomic.AddInt64(&metrics.TrueNegatives, 1)
				} else { // !predicted && actual
					atomic.AddInt64(&metrics.FalseNegatives, 1)
				}

				if verbose {
					status := "✓"
					if (predicted && !actual) || (!predicted && actual) {
						status = "✗"
					}
					preview := clause.Text
					if len(preview) > 40 {
						preview = preview[:40]
					}
					fmt.Printf("%s %-22s | Risky: %-5v | Gavel: %-8s (%.1f) | %s\n",
						status,
						clause.Category,
						clause.IsRisky,
						result.Report.OverallRiskLevel,
						result.Report.OverallRiskScore,
						preview,
					)
				}
			}
		}()
	}

	// Send work
	for _, clause := range clauses {
		work <- clause
	}
	close(work)

	// Wait for completion
	wg.Wait()

	return metrics
}

func analyzeClause(client *http.Client, baseURL, tenantID string, clause LabeledClause) (*AnalyzeResponse, error) {
	req := AnalyzeRequest{
		Title: "benchmark: " + clause.Category,
		Clauses: []ClauseInput{
			{
				Category:   clause.Category,
				Title:      clause.Title,
				Text:       clause.Text,
				Confidence: 1.0,
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Tenant-ID", tenantID)

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var result AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func printResults(m *Metrics, duration time.Duration) {
	fmt.Println("\n╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      BENCHMARK RESULTS                        ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")

	fmt.Printf("\n📊 DATASET STATISTICS\n")
	fmt.Printf("   Total Processed:  %d\n", m.TotalProcessed)
	fmt.Printf("   Total Risky:      %d\n", m.TotalRisky)
	fmt.Printf("   Total Benign:     %d\n", m.TotalBenign)
	fmt.Printf("   Errors:           %d\n", m.TotalErrors)

	fmt.Printf("\n📈 CONFUSION MATRIX\n")
	fmt.Println("                        Predicted")
	fmt.Println("                 Elevated      Passed")
	fmt.Println("              ┌──────────┬──────────┐")
	fmt.Printf("   Actual  R  │ %8d │ %8d │  (TP, FN)\n", m.TruePositives, m.FalseNegatives)
	fmt.Println("              ├──────────┼──────────┤")
	fmt.Printf("           B  │ %8d │ %8d │  (FP, TN)\n", m.FalsePositives, m.TrueNegatives)
	fmt.Println("              └──────────┴──────────┘")

	// Calculate metrics
	precision := float64(0)
	if m.TruePositives+m.FalsePositives > 0 {
		precision = float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives)
	}

	recall := float64(0)
	if m.TruePositives+m.FalseNegatives > 0 {
		recall = float64(m.TruePositives) / float64(m.TruePositives+m.FalseNegatives)
	}

	f1 := float64(0)
	if precision+recall > 0 {
		f1 = 2 * (precision * recall) / (precision + recall)
	}

	accuracy := float64(0)
	total := m.TruePositives + m.TrueNegatives + m.FalsePositives + m.FalseNegatives
	if total > 0 {
		accuracy = float64(m.TruePositives+m.TrueNegatives) / float64(total)
	}

	fmt.Printf("\n🎯 DETECTION METRICS\n")
	fmt.Printf("   Precision:  %.4f  (of flagged clauses, how many were actually risky)\n", precision)
	fmt.Printf("   Recall:     %.4f  (of risky clauses, how many did we catch)\n", recall)
	fmt.Printf("   F1-Score:   %.4f  (harmonic mean of precision & recall)\n", f1)
	fmt.Printf("   Accuracy:   %.4f  (overall correct predictions)\n", accuracy)

	// Detection rate analysis
	fmt.Printf("\n🔍 DETECTION ANALYSIS\n")
	if m.TotalRisky > 0 {
		detectionRate := float64(m.TruePositives) / float64(m.TotalRisky) * 100
		missRate := float64(m.FalseNegatives) / float64(m.TotalRisky) * 100
		fmt.Printf("   Risk Detected:     %d / %d (%.2f%%)\n", m.TruePositives, m.TotalRisky, detectionRate)
		fmt.Printf("   Risk Missed:       %d / %d (%.2f%%) ⚠️\n", m.FalseNegatives, m.TotalRisky, missRate)
	}
	if m.TotalBenign > 0 {
		falseAlarmRate := float64(m.FalsePositives) / float64(m.TotalBenign) * 100
		fmt.Printf("   False Alarms:      %d / %d (%.2f%%)\n", m.FalsePositives, m.TotalBenign, falseAlarmRate)
	}

	fmt.Printf("\n⏱️  PERFORMANCE\n")
	fmt.Printf("   Total Duration:   %v\n", duration.Round(time.Millisecond))
	if m.TotalProcessed > 0 {
		avgMs := float64(m.ProcessingTimeMs) / float64(m.TotalProcessed)
		cps := float64(m.TotalProcessed) / duration.Seconds()
		fmt.Printf("   Avg Latency:      %.2f ms\n", avgMs)
		fmt.Printf("   Throughput:       %.2f clauses/sec\n", cps)
	}

	// Interpretation
	fmt.Printf("\n💡 INTERPRETATION\n")
	if recall >= 0.9 {
		fmt.Println("   ✅ Excellent recall - catching most risky clauses")
	} else if recall >= 0.7 {
		fmt.Println("   ⚠️  Good recall - but missing some risky clauses")
	} else if recall >= 0.5 {
		fmt.Println("   ⚠️  Moderate recall - significant risk being missed")
	} else {
		fmt.Println("   ❌ Poor recall - most risky clauses are being missed!")
	}

	if precision >= 0.5 {
		fmt.Println("   ✅ Good precision - flags are meaningful")
	} else if precision >= 0.2 {
		fmt.Println("   ⚠️  Low precision - many false alarms")
	} else {
		fmt.Println("   ❌ Very low precision - mostly false alarms")
	}

	fmt.Println()
}
