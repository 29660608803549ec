package report

import (
	"encoding/json"
	"fmt"
	"sort"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

// Formats lists the file formats the generator renders
var Formats = []string{"json", "markdown", "sarif", "text"}

// Generator generates reports in various formats
type Generator struct {
	cfg   config.OutputConfig
	agent config.AgentConfig
}

// NewGenerator creates a new report generator
func NewGenerator(cfg config.OutputConfig, agent config.AgentConfig) *Generator {
	return &Generator{cfg: cfg, agent: agent}
}

// Generate generates a report in the specified format
func (g *Generator) Generate(report *model.AnalysisReport, format string) (string, error) {
	util.Debug("Generating report in %s format (%d issues)", format, len(report.Issues))
	switch format {
	case "json":
		return g.generateJSON(report)
	case "markdown", "md":
		return g.generateMarkdown(report)
	case "sarif":
		return g.generateSARIF(report)
	case "text", "txt":
		return g.generateText(report)
	default:
		util.Warn("Unsupported report format requested: %s", format)
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// Extension returns the file extension used for a format
func Extension(format string) string {
	switch format {
	case "markdown":
		return "md"
	case "text":
		return "txt"
	case "sarif":
		return "sarif.json"
	default:
		return format
	}
}

func (g *Generator) generateJSON(report *model.AnalysisReport) (string, error) {
	out := report
	if !g.cfg.IncludeMetrics {
		trimmed := *report
		trimmed.Files = nil
		out = &trimmed
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func severityLabel(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "[CRITICAL]"
	case model.SeverityHigh:
		return "[HIGH]"
	case model.SeverityMedium:
		return "[MEDIUM]"
	default:
		return "[LOW]"
	}
}
