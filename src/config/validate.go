package config

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	severities = []string{"low", "medium", "high", "critical"}
	formats    = []string{"json", "markdown", "sarif", "text", "sqlite"}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	if c.Concurrency.MaxParallelFiles < 1 {
		errs = append(errs, fmt.Errorf("concurrency.max_parallel_files must be at least 1, got %d", c.Concurrency.MaxParallelFiles))
	}
	if c.Concurrency.MaxParallelDetectors < 1 {
		errs = append(errs, fmt.Errorf("concurrency.max_parallel_detectors must be at least 1, got %d", c.Concurrency.MaxParallelDetectors))
	}
	if len(c.Analysis.Extensions) == 0 {
		errs = append(errs, errors.New("analysis.extensions must not be empty"))
	}
	for _, ext := range c.Analysis.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("analysis.extensions: %q must start with a dot", ext))
		}
	}

	cx := c.Detectors.Complexity
	if cx.Enabled && !(cx.CyclomaticModerate <= cx.CyclomaticHigh && cx.CyclomaticHigh <= cx.CyclomaticCritical) {
		errs = append(errs, fmt.Errorf("detectors.complexity: thresholds must be ordered moderate <= high <= critical, got %d/%d/%d",
			cx.CyclomaticModerate, cx.CyclomaticHigh, cx.CyclomaticCritical))
	}

	if !slices.Contains(severities, c.Severity.MinSeverity) {
		errs = append(errs, fmt.Errorf("severity.min_severity: unknown severity %q", c.Severity.MinSeverity))
	}
	for key, sev := range c.Severity.Overrides {
		if !slices.Contains(severities, sev) {
			errs = append(errs, fmt.Errorf("severity.overrides[%s]: unknown severity %q", key, sev))
		}
	}

	for _, f := range c.Output.Formats {
		if !slices.Contains(formats, f) {
			errs = append(errs, fmt.Errorf("output.formats: unknown format %q", f))
		}
	}
	if slices.Contains(c.Output.Formats, "sqlite") && c.Output.Database == "" {
		errs = append(errs, errors.New("output.database is required for the sqlite format"))
	}

	if !slices.Contains(logLevels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	if !slices.Contains(logFormats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	for _, p := range append(slices.Clone(c.Exclusions.TypePatterns), c.Exclusions.MethodPatterns...) {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("exclusions: invalid pattern %q: %w", p, err))
		}
	}

	return errors.Join(errs...)
}
