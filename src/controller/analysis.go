package controller

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/service/csharp"
	"code-analyzer/src/service/detector"
	"code-analyzer/src/service/metrics"
	"code-analyzer/src/service/scanner"
	"code-analyzer/src/service/telemetry"
	"code-analyzer/src/util"
)

// AnalysisController orchestrates the analysis process
type AnalysisController struct {
	cfg     *config.Config
	parser  scanner.Parser
	metrics *telemetry.Metrics
}

// NewAnalysisController creates a new analysis controller using the C# parser
func NewAnalysisController(cfg *config.Config) *AnalysisController {
	return NewAnalysisControllerWithParser(cfg, csharp.NewParser())
}

// NewAnalysisControllerWithParser creates a controller around any parser
func NewAnalysisControllerWithParser(cfg *config.Config, parser scanner.Parser) *AnalysisController {
	return &AnalysisController{cfg: cfg, parser: parser, metrics: telemetry.New()}
}

// Metrics returns the counters recorded by this controller's runs
func (c *AnalysisController) Metrics() *telemetry.Metrics {
	return c.metrics
}

// AnalyzeRequest represents a request to analyze a directory or file
type AnalyzeRequest struct {
	Path      string
	Detectors []string // Optional: specific detectors to run (empty = all)
}

// Analyze runs the full analysis pipeline
func (c *AnalysisController) Analyze(ctx context.Context, req AnalyzeRequest) (*model.AnalysisReport, error) {
	startTime := time.Now()
	runID := uuid.New().String()

	root, err := filepath.Abs(req.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", req.Path, err)
	}
	util.Info("Starting analysis %s for %s", runID, root)

	scan, err := scanner.New(c.cfg, c.parser, nil, c.metrics).Scan(ctx, root)
	if err != nil {
		util.Error("Scan failed: %v", err)
		return nil, err
	}

	// Create metrics provider
	metricsProvider := metrics.NewProvider(root, scan.Files, c.cfg.Cache)
	util.Debug("Metrics provider initialized (cache enabled: %v)", c.cfg.Cache.Enabled)

	// Run detectors
	detectorRunner := detector.NewRunner(metricsProvider, c.cfg)
	issues, err := detectorRunner.Run(ctx, req.Detectors)
	if err != nil {
		util.Error("Detector run failed: %v", err)
		return nil, err
	}

	// Apply global filters
	preFilterCount := len(issues)
	issues = c.applyGlobalFilters(issues)
	if preFilterCount != len(issues) {
		util.Debug("Global filters reduced issues from %d to %d", preFilterCount, len(issues))
	}
	for _, issue := range issues {
		c.metrics.Issues.WithLabelValues(string(issue.Category)).Inc()
	}

	report := &model.AnalysisReport{
		RunID:       runID,
		RootPath:    root,
		GeneratedAt: time.Now().UTC(),
		Files:       scan.Files,
		FileErrors:  scan.Errors,
		Issues:      issues,
		Summary:     c.generateSummary(scan.Files, issues),
	}
	report.Summary.FilesAnalyzed = len(scan.Files) - scan.Errors

	if path := c.cfg.Output.MetricsFile; path != "" {
		if err := c.metrics.WriteFile(path); err != nil {
			util.Warn("Failed to write metrics file %s: %v", path, err)
		} else {
			util.Debug("Metrics written to %s", path)
		}
	}

	util.Info("Analysis complete: %d files, %d issues found, debt score: %.1f (took %v)",
		len(scan.Files), len(issues), report.Summary.DebtScore, time.Since(startTime))

	return report, nil
}

// applyGlobalFilters caps the issues kept per category, preserving order
func (c *AnalysisController) applyGlobalFilters(issues []model.DebtIssue) []model.DebtIssue {
	maxPerCategory := c.cfg.Output.MaxIssuesPerCategory
	if maxPerCategory <= 0 {
		return issues
	}

	kept := make(map[model.Category]int)
	filtered := make([]model.DebtIssue, 0, len(issues))
	for _, issue := range issues {
		if kept[issue.Category] < maxPerCategory {
			kept[issue.Category]++
			filtered = append(filtered, issue)
		}
	}

	return filtered
}

func (c *AnalysisController) generateSummary(files []model.FileMetrics, issues []model.DebtIssue) model.ReportSummary {
	byCategory := make(map[model.Category]int)
	bySeverity := make(map[model.Severity]int)
	byFile := make(map[string]int)

	for _, issue := range issues {
		byCategory[issue.Category]++
		bySeverity[issue.Severity]++
		byFile[issue.FilePath]++
	}

	// Find hotspots
	type fileCount struct {
		path  string
		count int
	}
	var hot []fileCount
	for path, count := range byFile {
		hot = append(hot, fileCount{path, count})
	}
	sort.Slice(hot, func(i, j int) bool {
		if hot[i].count != hot[j].count {
			return hot[i].count > hot[j].count
		}
		return hot[i].path < hot[j].path
	})

	topN := min(c.cfg.Output.HotspotsTopN, len(hot))
	hotspots := make([]model.FileHotspot, max(topN, 0))
	for i := range hotspots {
		hotspots[i] = model.FileHotspot{
			FilePath:   hot[i].path,
			IssueCount: hot[i].count,
		}
	}

	summary := model.ReportSummary{
		TotalIssues:  len(issues),
		ByCategory:   byCategory,
		BySeverity:   bySeverity,
		HotspotFiles: hotspots,
		DebtScore:    c.calculateDebtScore(issues),
	}

	// Namespaces are counted once per canonical name across files
	namespaces := make(map[string]bool)
	for _, f := range files {
		for _, ns := range f.Namespaces {
			if len(ns.Types) > 0 {
				namespaces[ns.Name] = true
			}
			summary.Types += len(ns.Types)
			for _, t := range ns.Types {
				summary.Methods += len(t.Methods)
			}
		}
	}
	summary.Namespaces = len(namespaces)

	return summary
}

func (c *AnalysisController) calculateDebtScore(issues []model.DebtIssue) float64 {
	if len(issues) == 0 {
		return 0
	}

	weights := map[model.Severity]int{
		model.SeverityLow:      1,
		model.SeverityMedium:   3,
		model.SeverityHigh:     7,
		model.SeverityCritical: 15,
	}

	var total int
	for _, issue := range issues {
		total += weights[issue.Severity]
	}

	return min(float64(total)/10.0, 100)
}
