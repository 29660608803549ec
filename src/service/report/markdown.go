package report

import (
	"fmt"
	"sort"
	"strings"

	"code-analyzer/src/model"
)

const topMethods = 10

func (g *Generator) generateMarkdown(report *model.AnalysisReport) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Code Metrics Report\n\n")
	sb.WriteString(fmt.Sprintf("**Root:** %s\n", report.RootPath))
	sb.WriteString(fmt.Sprintf("**Run:** %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	s := report.Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Files:** %d (%d failed)\n", s.FilesAnalyzed, report.FileErrors))
	sb.WriteString(fmt.Sprintf("- **Namespaces:** %d\n", s.Namespaces))
	sb.WriteString(fmt.Sprintf("- **Types:** %d\n", s.Types))
	sb.WriteString(fmt.Sprintf("- **Methods:** %d\n", s.Methods))
	sb.WriteString(fmt.Sprintf("- **Total Issues:** %d\n", s.TotalIssues))
	sb.WriteString(fmt.Sprintf("- **Debt Score:** %.1f/100\n\n", s.DebtScore))

	sb.WriteString("### Issues by Severity\n\n")
	sb.WriteString("| Severity | Count |\n")
	sb.WriteString("|----------|-------|\n")
	for _, sev := range []model.Severity{model.SeverityCritical, model.SeverityHigh, model.SeverityMedium, model.SeverityLow} {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", sev, s.BySeverity[sev]))
	}
	sb.WriteString("\n")

	sb.WriteString("### Issues by Category\n\n")
	sb.WriteString("| Category | Count |\n")
	sb.WriteString("|----------|-------|\n")
	for _, cat := range model.Categories {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", cat, s.ByCategory[cat]))
	}
	sb.WriteString("\n")

	if len(s.HotspotFiles) > 0 {
		sb.WriteString("### Hotspot Files\n\n")
		sb.WriteString("| File | Issue Count |\n")
		sb.WriteString("|------|-------------|\n")
		for _, hs := range s.HotspotFiles {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", hs.FilePath, hs.IssueCount))
		}
		sb.WriteString("\n")
	}

	if g.cfg.IncludeMetrics {
		g.writeComplexMethods(&sb, report.Files)
	}

	if report.FileErrors > 0 {
		sb.WriteString("## Files Not Analyzed\n\n")
		for _, f := range report.Files {
			if f.Error != "" {
				sb.WriteString(fmt.Sprintf("- `%s`: %s\n", f.Path, f.Error))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Issues\n\n")

	byCategory := make(map[model.Category][]model.DebtIssue)
	for _, issue := range report.Issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	for _, cat := range model.Categories {
		issues := byCategory[cat]
		if len(issues) == 0 {
			continue
		}

		title := string(cat)
		sb.WriteString(fmt.Sprintf("### %s (%d issues)\n\n", strings.ToUpper(title[:1])+title[1:], len(issues)))

		for _, issue := range issues {
			sb.WriteString(fmt.Sprintf("#### %s `%s`\n\n", severityLabel(issue.Severity), issue.EntityName))
			sb.WriteString(fmt.Sprintf("- **File:** `%s:%d-%d`\n", issue.FilePath, issue.StartLine, issue.EndLine))
			sb.WriteString(fmt.Sprintf("- **Type:** %s\n", issue.Subcategory))
			sb.WriteString(fmt.Sprintf("- **Severity:** %s\n", issue.Severity))
			sb.WriteString(fmt.Sprintf("- **Description:** %s\n", issue.Description))

			if g.cfg.IncludeSuggestions && issue.Suggestion != "" {
				sb.WriteString(fmt.Sprintf("- **Suggestion:** %s\n", issue.Suggestion))
			}

			if g.cfg.IncludeMetrics && len(issue.Metrics) > 0 {
				sb.WriteString("- **Metrics:**\n")
				for _, k := range sortedKeys(issue.Metrics) {
					sb.WriteString(fmt.Sprintf("  - %s: %v\n", k, issue.Metrics[k]))
				}
			}

			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

type rankedMethod struct {
	file, name string
	m          *model.Method
}

// writeComplexMethods lists the methods with the highest cyclomatic complexity
func (g *Generator) writeComplexMethods(sb *strings.Builder, files []model.FileMetrics) {
	var ranked []rankedMethod
	for _, f := range files {
		for _, ns := range f.Namespaces {
			for _, t := range ns.Types {
				for _, m := range t.Methods {
					name := t.Name + "." + m.Name
					if ns.Name != "" {
						name = ns.Name + "." + name
					}
					ranked = append(ranked, rankedMethod{file: f.Path, name: name, m: m})
				}
			}
		}
	}
	if len(ranked) == 0 {
		return
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].m.CyclomaticComplexity > ranked[j].m.CyclomaticComplexity
	})
	if len(ranked) > topMethods {
		ranked = ranked[:topMethods]
	}

	sb.WriteString("### Most Complex Methods\n\n")
	sb.WriteString("| Method | File | CC | Tokens | Params | Comments |\n")
	sb.WriteString("|--------|------|----|--------|--------|----------|\n")
	for _, r := range ranked {
		sb.WriteString(fmt.Sprintf("| %s | %s:%d | %d | %d | %d | %d |\n",
			r.name, r.file, r.m.StartLine, r.m.CyclomaticComplexity, r.m.CodeTokens, r.m.Parameters, r.m.CommentLines))
	}
	sb.WriteString("\n")
}
