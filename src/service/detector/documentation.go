package detector

import (
	"context"
	"fmt"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

// DocumentationDetector flags complex code that carries no comments
type DocumentationDetector struct {
	BaseDetector
	cfg config.DocumentationDetectorConfig
}

// NewDocumentationDetector creates a new documentation detector
func NewDocumentationDetector(base BaseDetector, cfg config.DocumentationDetectorConfig) *DocumentationDetector {
	return &DocumentationDetector{
		BaseDetector: base,
		cfg:          cfg,
	}
}

// Name returns the detector name
func (d *DocumentationDetector) Name() string {
	return "documentation"
}

// Description says what the detector looks for
func (d *DocumentationDetector) Description() string {
	return fmt.Sprintf("methods with complexity %d or more and types with %d or more methods that have no comment lines",
		d.cfg.MinComplexity, d.cfg.MinTypeMethods)
}

// IsEnabled returns whether the detector is enabled
func (d *DocumentationDetector) IsEnabled() bool {
	return d.cfg.Enabled
}

// Detect runs documentation detection
func (d *DocumentationDetector) Detect(ctx context.Context) ([]model.DebtIssue, error) {
	functions, err := d.Metrics.GetAllFunctionMetrics(ctx)
	if err != nil {
		return nil, err
	}
	classes, err := d.Metrics.GetAllClassMetrics(ctx)
	if err != nil {
		return nil, err
	}

	var issues []model.DebtIssue
	for _, fn := range functions {
		if fn.CommentLines > 0 || fn.CyclomaticComplexity < d.cfg.MinComplexity {
			continue
		}
		if d.ShouldExclude(fn.FilePath, fn.ClassName, fn.Name) {
			continue
		}
		issue := methodIssue(fn)
		issue.Category = model.CategoryDocumentation
		issue.Subcategory = "undocumented_complex_method"
		issue.Severity = model.SeverityMedium
		if fn.CyclomaticComplexity >= 2*d.cfg.MinComplexity {
			issue.Severity = model.SeverityHigh
		}
		issue.Description = fmt.Sprintf("Complex method (CC=%d) has no comments", fn.CyclomaticComplexity)
		issue.Metrics = map[string]any{
			"cyclomatic_complexity": fn.CyclomaticComplexity,
			"comment_lines":         fn.CommentLines,
		}
		issue.Suggestion = "Document the intent and the non-obvious branches"
		issues = append(issues, issue)
	}

	for _, cls := range classes {
		if cls.CommentLines > 0 || cls.MethodCount < d.cfg.MinTypeMethods {
			continue
		}
		if d.ShouldExclude(cls.FilePath, cls.Name, "") {
			continue
		}
		issue := typeIssue(cls)
		issue.Category = model.CategoryDocumentation
		issue.Subcategory = "undocumented_type"
		issue.Severity = model.SeverityLow
		issue.Description = fmt.Sprintf("%s with %d methods has no comments", cls.Kind, cls.MethodCount)
		issue.Metrics = map[string]any{
			"method_count":  cls.MethodCount,
			"comment_lines": cls.CommentLines,
		}
		issue.Suggestion = "Add a summary describing the type's responsibility"
		issues = append(issues, issue)
	}

	util.Debug("Documentation detector: found %d issues", len(issues))
	return d.FilterBySeverity(issues), nil
}
