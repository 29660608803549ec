package report

import (
	"fmt"
	"strings"

	"code-analyzer/src/model"
)

// generateText lists every file's namespaces, types and methods one per
// line, indented by nesting, followed by the detected issues.
func (g *Generator) generateText(report *model.AnalysisReport) (string, error) {
	var sb strings.Builder

	for _, f := range report.Files {
		sb.WriteString(fmt.Sprintf("%s (%d lines)\n", f.Path, f.LineCount))
		if f.Error != "" {
			sb.WriteString(fmt.Sprintf("  error: %s\n", f.Error))
		}
		for _, ns := range f.Namespaces {
			if len(ns.Types) == 0 {
				continue
			}
			sb.WriteString("  " + ns.String() + "\n")
			for _, t := range ns.Types {
				sb.WriteString("    " + t.String() + "\n")
				for _, m := range t.Methods {
					sb.WriteString("      " + m.String() + "\n")
				}
			}
		}
		for _, d := range f.Diagnostics {
			sb.WriteString(fmt.Sprintf("  %s at line %d: %s\n", d.Kind, d.Line, d.Message))
		}
	}

	if len(report.Issues) == 0 {
		sb.WriteString("\nNo issues found\n")
		return sb.String(), nil
	}

	sb.WriteString(fmt.Sprintf("\n%d issues\n", len(report.Issues)))
	for _, issue := range report.Issues {
		sb.WriteString(fmt.Sprintf("%s %s:%d %s: %s\n",
			severityLabel(issue.Severity), issue.FilePath, issue.StartLine, issue.EntityName, issue.Description))
		if g.cfg.IncludeSuggestions && issue.Suggestion != "" {
			sb.WriteString("    " + issue.Suggestion + "\n")
		}
	}
	return sb.String(), nil
}
