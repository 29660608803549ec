package detector

import (
	"context"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/service/metrics"
	"code-analyzer/src/util"
)

// Detector is the interface for all debt detectors
type Detector interface {
	// Name returns the detector name
	Name() string

	// Description says what the detector looks for
	Description() string

	// IsEnabled returns whether the detector is enabled
	IsEnabled() bool

	// Detect runs the detection and returns found issues
	Detect(ctx context.Context) ([]model.DebtIssue, error)
}

// BaseDetector provides common functionality for detectors
type BaseDetector struct {
	Metrics    *metrics.Provider
	Cfg        *config.Config
	Exclusions *util.ExclusionMatcher
}

// NewBaseDetector creates a new base detector
func NewBaseDetector(metricsProvider *metrics.Provider, cfg *config.Config) BaseDetector {
	return BaseDetector{
		Metrics:    metricsProvider,
		Cfg:        cfg,
		Exclusions: util.NewExclusionMatcher(cfg.Exclusions),
	}
}

// ShouldExclude checks if an entity should be excluded
func (b *BaseDetector) ShouldExclude(filePath, typeName, methodName string) bool {
	return b.Exclusions.Matches(filePath, typeName, methodName)
}

var severityOrder = []model.Severity{
	model.SeverityLow, model.SeverityMedium,
	model.SeverityHigh, model.SeverityCritical,
}

func severityRank(s model.Severity) int {
	for i, o := range severityOrder {
		if o == s {
			return i
		}
	}
	return -1
}

// FilterBySeverity applies severity overrides by subcategory, then drops
// issues below the configured minimum. Suggestions are cleared when
// disabled in the output settings.
func (b *BaseDetector) FilterBySeverity(issues []model.DebtIssue) []model.DebtIssue {
	minIdx := severityRank(model.Severity(b.Cfg.Severity.MinSeverity))
	if minIdx < 0 {
		minIdx = 0
	}

	filtered := make([]model.DebtIssue, 0, len(issues))
	for _, issue := range issues {
		if override, ok := b.Cfg.Severity.Overrides[issue.Subcategory]; ok {
			issue.Severity = model.Severity(override)
		}
		if severityRank(issue.Severity) < minIdx {
			continue
		}
		if !b.Cfg.Output.IncludeSuggestions {
			issue.Suggestion = ""
		}
		filtered = append(filtered, issue)
	}

	return filtered
}

// severityByRatio grades how far value exceeds threshold
func severityByRatio(value, threshold int) model.Severity {
	if threshold <= 0 {
		return model.SeverityMedium
	}
	ratio := float64(value) / float64(threshold)
	switch {
	case ratio >= 3:
		return model.SeverityCritical
	case ratio >= 2:
		return model.SeverityHigh
	case ratio >= 1.5:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

func methodIssue(fn model.FunctionMetrics) model.DebtIssue {
	return model.DebtIssue{
		FilePath:   fn.FilePath,
		StartLine:  fn.StartLine,
		EndLine:    fn.EndLine,
		EntityName: fn.QualifiedName(),
		EntityType: "method",
	}
}

func typeIssue(cls model.ClassMetrics) model.DebtIssue {
	return model.DebtIssue{
		FilePath:   cls.FilePath,
		StartLine:  cls.StartLine,
		EndLine:    cls.EndLine,
		EntityName: cls.QualifiedName(),
		EntityType: "type",
	}
}
