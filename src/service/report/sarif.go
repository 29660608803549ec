package report

import (
	"encoding/json"

	"code-analyzer/src/model"
)

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

func (g *Generator) generateSARIF(report *model.AnalysisReport) (string, error) {
	sarif := map[string]any{
		"$schema": sarifSchema,
		"version": "2.1.0",
		"runs": []map[string]any{
			{
				"tool": map[string]any{
					"driver": map[string]any{
						"name":    g.agent.Name,
						"version": g.agent.Version,
						"rules":   g.buildSARIFRules(report.Issues),
					},
				},
				"automationDetails": map[string]any{"id": report.RunID},
				"results":           g.buildSARIFResults(report.Issues),
			},
		},
	}

	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func ruleID(issue model.DebtIssue) string {
	return string(issue.Category) + "/" + issue.Subcategory
}

func (g *Generator) buildSARIFRules(issues []model.DebtIssue) []map[string]any {
	seen := make(map[string]bool)
	rules := []map[string]any{}

	for _, issue := range issues {
		id := ruleID(issue)
		if seen[id] {
			continue
		}
		seen[id] = true

		rules = append(rules, map[string]any{
			"id":   id,
			"name": issue.Subcategory,
			"shortDescription": map[string]any{
				"text": issue.Subcategory,
			},
			"defaultConfiguration": map[string]any{
				"level": sarifLevel(issue.Severity),
			},
		})
	}

	return rules
}

func (g *Generator) buildSARIFResults(issues []model.DebtIssue) []map[string]any {
	results := []map[string]any{}

	for _, issue := range issues {
		result := map[string]any{
			"ruleId":  ruleID(issue),
			"level":   sarifLevel(issue.Severity),
			"message": map[string]any{"text": issue.EntityName + ": " + issue.Description},
			"locations": []map[string]any{
				{
					"physicalLocation": map[string]any{
						"artifactLocation": map[string]any{
							"uri": issue.FilePath,
						},
						"region": map[string]any{
							"startLine": max(issue.StartLine, 1),
							"endLine":   max(issue.EndLine, issue.StartLine, 1),
						},
					},
				},
			},
		}

		if g.cfg.IncludeSuggestions && issue.Suggestion != "" {
			result["fixes"] = []map[string]any{
				{
					"description": map[string]any{"text": issue.Suggestion},
				},
			}
		}

		results = append(results, result)
	}

	return results
}

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
