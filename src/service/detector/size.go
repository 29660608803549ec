package detector

import (
	"context"
	"fmt"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

// SizeAndStructureDetector detects size-related issues in methods and types
type SizeAndStructureDetector struct {
	BaseDetector
	cfg config.SizeDetectorConfig
}

// NewSizeAndStructureDetector creates a new size and structure detector
func NewSizeAndStructureDetector(base BaseDetector, cfg config.SizeDetectorConfig) *SizeAndStructureDetector {
	return &SizeAndStructureDetector{
		BaseDetector: base,
		cfg:          cfg,
	}
}

// Name returns the detector name
func (d *SizeAndStructureDetector) Name() string {
	return "size_structure"
}

// Description says what the detector looks for
func (d *SizeAndStructureDetector) Description() string {
	return "long parameter lists, oversized method bodies and signatures, types with too many methods"
}

// IsEnabled returns whether the detector is enabled
func (d *SizeAndStructureDetector) IsEnabled() bool {
	return d.cfg.Enabled
}

// Detect runs size and structure detection
func (d *SizeAndStructureDetector) Detect(ctx context.Context) ([]model.DebtIssue, error) {
	var issues []model.DebtIssue

	methodIssues, err := d.detectMethodIssues(ctx)
	if err != nil {
		return nil, err
	}
	issues = append(issues, methodIssues...)
	util.Debug("Size detector: found %d method-level issues", len(methodIssues))

	typeIssues, err := d.detectTypeIssues(ctx)
	if err != nil {
		return nil, err
	}
	issues = append(issues, typeIssues...)
	util.Debug("Size detector: found %d type-level issues", len(typeIssues))

	return d.FilterBySeverity(issues), nil
}

func (d *SizeAndStructureDetector) detectMethodIssues(ctx context.Context) ([]model.DebtIssue, error) {
	functions, err := d.Metrics.GetAllFunctionMetrics(ctx)
	if err != nil {
		return nil, err
	}

	var issues []model.DebtIssue
	for _, fn := range functions {
		if d.ShouldExclude(fn.FilePath, fn.ClassName, fn.Name) {
			continue
		}

		if d.cfg.MaxParameters > 0 && fn.ParameterCount > d.cfg.MaxParameters {
			issues = append(issues, d.createLongParameterListIssue(fn))
		}
		if d.cfg.MaxCodeTokens > 0 && fn.CodeTokens > d.cfg.MaxCodeTokens {
			issues = append(issues, d.createLongMethodIssue(fn))
		}
		if d.cfg.MaxContractComplexity > 0 && fn.ContractComplexity > d.cfg.MaxContractComplexity {
			issues = append(issues, d.createComplexSignatureIssue(fn))
		}
	}
	return issues, nil
}

func (d *SizeAndStructureDetector) detectTypeIssues(ctx context.Context) ([]model.DebtIssue, error) {
	classes, err := d.Metrics.GetAllClassMetrics(ctx)
	if err != nil {
		return nil, err
	}

	var issues []model.DebtIssue
	for _, cls := range classes {
		if d.ShouldExclude(cls.FilePath, cls.Name, "") {
			continue
		}
		if d.cfg.MaxTypeMethods > 0 && cls.MethodCount > d.cfg.MaxTypeMethods {
			issues = append(issues, d.createGodTypeIssue(cls))
		}
	}
	return issues, nil
}

func (d *SizeAndStructureDetector) createLongParameterListIssue(fn model.FunctionMetrics) model.DebtIssue {
	issue := methodIssue(fn)
	issue.Category = model.CategorySize
	issue.Subcategory = "long_parameter_list"
	issue.Severity = severityByRatio(fn.ParameterCount, d.cfg.MaxParameters)
	issue.Description = fmt.Sprintf("Method has too many parameters (%d, threshold: %d)", fn.ParameterCount, d.cfg.MaxParameters)
	issue.Metrics = map[string]any{
		"parameter_count": fn.ParameterCount,
	}
	issue.Suggestion = "Group related parameters into a parameter object or record"
	return issue
}

func (d *SizeAndStructureDetector) createLongMethodIssue(fn model.FunctionMetrics) model.DebtIssue {
	issue := methodIssue(fn)
	issue.Category = model.CategorySize
	issue.Subcategory = "long_method"
	issue.Severity = severityByRatio(fn.CodeTokens, d.cfg.MaxCodeTokens)
	issue.Description = fmt.Sprintf("Method body is too large (%d tokens, threshold: %d)", fn.CodeTokens, d.cfg.MaxCodeTokens)
	issue.Metrics = map[string]any{
		"code_tokens": fn.CodeTokens,
		"line_count":  fn.EndLine - fn.StartLine + 1,
	}
	issue.Suggestion = "Extract cohesive blocks into well-named methods"
	return issue
}

func (d *SizeAndStructureDetector) createComplexSignatureIssue(fn model.FunctionMetrics) model.DebtIssue {
	issue := methodIssue(fn)
	issue.Category = model.CategorySize
	issue.Subcategory = "complex_signature"
	issue.Severity = severityByRatio(fn.ContractComplexity, d.cfg.MaxContractComplexity)
	issue.Description = fmt.Sprintf("Method signature is complex (%d tokens in parameter lists, threshold: %d)",
		fn.ContractComplexity, d.cfg.MaxContractComplexity)
	issue.Metrics = map[string]any{
		"contract_complexity": fn.ContractComplexity,
		"parameter_count":     fn.ParameterCount,
	}
	issue.Suggestion = "Simplify parameter types or introduce a dedicated request type"
	return issue
}

func (d *SizeAndStructureDetector) createGodTypeIssue(cls model.ClassMetrics) model.DebtIssue {
	issue := typeIssue(cls)
	issue.Category = model.CategorySize
	issue.Subcategory = "god_type"
	issue.Severity = severityByRatio(cls.MethodCount, d.cfg.MaxTypeMethods)
	issue.Description = fmt.Sprintf("%s has too many methods (%d, threshold: %d)", cls.Kind, cls.MethodCount, d.cfg.MaxTypeMethods)
	issue.Metrics = map[string]any{
		"method_count":                cls.MethodCount,
		"total_cyclomatic_complexity": cls.TotalCyclomaticComplexity,
	}
	issue.Suggestion = "Split responsibilities into smaller types"
	return issue
}
