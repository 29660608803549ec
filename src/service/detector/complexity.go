package detector

import (
	"context"
	"fmt"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

// ComplexityDetector detects complexity issues in methods
type ComplexityDetector struct {
	BaseDetector
	cfg config.ComplexityDetectorConfig
}

// NewComplexityDetector creates a new complexity detector
func NewComplexityDetector(base BaseDetector, cfg config.ComplexityDetectorConfig) *ComplexityDetector {
	return &ComplexityDetector{
		BaseDetector: base,
		cfg:          cfg,
	}
}

// Name returns the detector name
func (d *ComplexityDetector) Name() string {
	return "complexity"
}

// Description says what the detector looks for
func (d *ComplexityDetector) Description() string {
	return fmt.Sprintf("methods with cyclomatic complexity above %d or more than %d lambdas",
		d.cfg.CyclomaticModerate, d.cfg.MaxLambdas)
}

// IsEnabled returns whether the detector is enabled
func (d *ComplexityDetector) IsEnabled() bool {
	return d.cfg.Enabled
}

// Detect runs complexity detection
func (d *ComplexityDetector) Detect(ctx context.Context) ([]model.DebtIssue, error) {
	functions, err := d.Metrics.GetAllFunctionMetrics(ctx)
	if err != nil {
		return nil, err
	}

	util.Debug("Complexity detector: analyzing %d methods", len(functions))
	var issues []model.DebtIssue
	excluded := 0

	for _, fn := range functions {
		if d.ShouldExclude(fn.FilePath, fn.ClassName, fn.Name) {
			excluded++
			continue
		}

		if fn.CyclomaticComplexity > d.cfg.CyclomaticModerate {
			issues = append(issues, d.createCCIssue(fn))
		}

		if d.cfg.MaxLambdas > 0 && fn.Lambdas > d.cfg.MaxLambdas {
			issues = append(issues, d.createLambdaIssue(fn))
		}
	}

	util.Debug("Complexity detector: %d methods excluded by filters", excluded)
	return d.FilterBySeverity(issues), nil
}

func (d *ComplexityDetector) createCCIssue(fn model.FunctionMetrics) model.DebtIssue {
	cc := fn.CyclomaticComplexity

	var severity model.Severity
	switch {
	case cc > d.cfg.CyclomaticCritical:
		severity = model.SeverityCritical
	case cc > d.cfg.CyclomaticHigh:
		severity = model.SeverityHigh
	default:
		severity = model.SeverityMedium
	}

	issue := methodIssue(fn)
	issue.Category = model.CategoryComplexity
	issue.Subcategory = "cyclomatic_complexity"
	issue.Severity = severity
	issue.Description = fmt.Sprintf("High cyclomatic complexity (CC=%d, threshold: %d)", cc, d.cfg.CyclomaticModerate)
	issue.Metrics = map[string]any{
		"cyclomatic_complexity": cc,
		"code_tokens":           fn.CodeTokens,
		"lambdas":               fn.Lambdas,
	}
	issue.Suggestion = d.ccSuggestion(cc)
	return issue
}

func (d *ComplexityDetector) createLambdaIssue(fn model.FunctionMetrics) model.DebtIssue {
	issue := methodIssue(fn)
	issue.Category = model.CategoryComplexity
	issue.Subcategory = "lambda_heavy"
	issue.Severity = severityByRatio(fn.Lambdas, d.cfg.MaxLambdas)
	issue.Description = fmt.Sprintf("Method declares many lambdas (%d, threshold: %d)", fn.Lambdas, d.cfg.MaxLambdas)
	issue.Metrics = map[string]any{
		"lambdas": fn.Lambdas,
	}
	issue.Suggestion = "Name the larger lambdas as private methods or split the pipeline into steps"
	return issue
}

func (d *ComplexityDetector) ccSuggestion(cc int) string {
	switch {
	case cc > d.cfg.CyclomaticCritical:
		return "Split into multiple smaller methods; consider strategy or state pattern"
	case cc > d.cfg.CyclomaticHigh:
		return "Extract conditional logic into separate methods"
	default:
		return "Consider simplifying conditionals or extracting helper methods"
	}
}
