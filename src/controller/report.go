package controller

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/service/report"
	"code-analyzer/src/service/store"
	"code-analyzer/src/util"
)

// ReportController handles report generation
type ReportController struct {
	cfg *config.Config
}

// NewReportController creates a new report controller
func NewReportController(cfg *config.Config) *ReportController {
	return &ReportController{cfg: cfg}
}

// Formats lists every output format, including the sqlite run database
func Formats() []string {
	return append(slices.Clone(report.Formats), "sqlite")
}

// GenerateReports writes reports in all configured formats and returns the
// paths written. The sqlite format appends the run to the configured database.
func (c *ReportController) GenerateReports(ctx context.Context, analysisReport *model.AnalysisReport) ([]string, error) {
	util.Debug("Generating reports for %d formats: %v", len(c.cfg.Output.Formats), c.cfg.Output.Formats)
	reportGenerator := report.NewGenerator(c.cfg.Output, c.cfg.Agent)
	var outputPaths []string

	for _, format := range c.cfg.Output.Formats {
		if format == "sqlite" {
			path, err := c.saveRun(ctx, analysisReport)
			if err != nil {
				util.Error("Failed to save run to database: %v", err)
				return nil, err
			}
			outputPaths = append(outputPaths, path)
			continue
		}

		util.Debug("Generating %s report", format)
		output, err := reportGenerator.Generate(analysisReport, format)
		if err != nil {
			util.Error("Failed to generate %s report: %v", format, err)
			return nil, err
		}

		outputPath := c.getOutputPath(analysisReport.RootPath, format)

		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			util.Error("Failed to create output directory: %v", err)
			return nil, err
		}

		if err := os.WriteFile(outputPath, []byte(output), 0644); err != nil {
			util.Error("Failed to write report to %s: %v", outputPath, err)
			return nil, err
		}

		util.Info("Report written: %s", outputPath)
		outputPaths = append(outputPaths, outputPath)
	}

	return outputPaths, nil
}

// GenerateToString generates a report to a string
func (c *ReportController) GenerateToString(analysisReport *model.AnalysisReport, format string) (string, error) {
	reportGenerator := report.NewGenerator(c.cfg.Output, c.cfg.Agent)
	return reportGenerator.Generate(analysisReport, format)
}

func (c *ReportController) saveRun(ctx context.Context, analysisReport *model.AnalysisReport) (string, error) {
	path := c.cfg.Output.Database
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.cfg.Output.OutputDir, path)
	}

	db, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer db.Close()

	if err := db.Save(ctx, analysisReport); err != nil {
		return "", err
	}
	return path, nil
}

func (c *ReportController) getOutputPath(rootPath, format string) string {
	name := strings.TrimSuffix(filepath.Base(rootPath), filepath.Ext(rootPath))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "code"
	}

	filename := name + "-metrics-report." + report.Extension(format)
	return filepath.Join(c.cfg.Output.OutputDir, filename)
}
