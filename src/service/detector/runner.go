package detector

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/service/metrics"
	"code-analyzer/src/util"
)

// Runner manages and runs all detectors.
// It handles detector registration, parallel execution, and result aggregation.
type Runner struct {
	detectors []Detector
	cfg       *config.Config
}

// NewRunner creates a new detector runner with all detectors registered
func NewRunner(metricsProvider *metrics.Provider, cfg *config.Config) *Runner {
	base := NewBaseDetector(metricsProvider, cfg)

	detectors := []Detector{
		NewComplexityDetector(base, cfg.Detectors.Complexity),
		NewSizeAndStructureDetector(base, cfg.Detectors.SizeAndStructure),
		NewDocumentationDetector(base, cfg.Detectors.Documentation),
	}

	util.Debug("Detector runner initialized with %d detectors", len(detectors))
	for _, d := range detectors {
		status := "disabled"
		if d.IsEnabled() {
			status = "enabled"
		}
		util.Debug("  - %s: %s", d.Name(), status)
	}

	return &Runner{
		detectors: detectors,
		cfg:       cfg,
	}
}

// RunAll executes all enabled detectors and returns combined issues,
// ordered by file, line and subcategory.
func (r *Runner) RunAll(ctx context.Context) ([]model.DebtIssue, error) {
	return r.Run(ctx, nil)
}

// Run executes the enabled detectors named in only, or all enabled detectors
// when only is empty.
func (r *Runner) Run(ctx context.Context, only []string) ([]model.DebtIssue, error) {
	for _, name := range only {
		if r.GetDetector(name) == nil {
			return nil, fmt.Errorf("unknown detector: %s", name)
		}
	}

	startTime := time.Now()
	util.Info("Starting debt detection")

	parallel := r.cfg.Concurrency.MaxParallelDetectors
	if parallel < 1 {
		parallel = 1
	}

	var (
		allIssues []model.DebtIssue
		mu        sync.Mutex
		wg        sync.WaitGroup
		errChan   = make(chan error, len(r.detectors))
		sem       = make(chan struct{}, parallel)
	)

	enabledCount := 0
	for _, d := range r.detectors {
		if !d.IsEnabled() {
			util.Debug("Skipping disabled detector: %s", d.Name())
			continue
		}
		if len(only) > 0 && !slices.Contains(only, d.Name()) {
			continue
		}
		enabledCount++

		wg.Add(1)
		go func(detector Detector) {
			defer wg.Done()

			sem <- struct{}{}        // Acquire semaphore
			defer func() { <-sem }() // Release semaphore

			detectorStart := time.Now()
			util.Debug("Running detector: %s", detector.Name())

			issues, err := detector.Detect(ctx)
			if err != nil {
				util.Error("Detector %s failed: %v", detector.Name(), err)
				if r.cfg.Detectors.FailFast {
					errChan <- fmt.Errorf("detector %s: %w", detector.Name(), err)
				}
				return
			}

			util.Info("Detector %s found %d issues (took %v)", detector.Name(), len(issues), time.Since(detectorStart))

			mu.Lock()
			allIssues = append(allIssues, issues...)
			mu.Unlock()
		}(d)
	}

	util.Debug("Running %d enabled detectors (max parallel: %d)", enabledCount, parallel)

	wg.Wait()
	close(errChan)

	if err, ok := <-errChan; ok {
		util.Error("Detection aborted due to error: %v", err)
		return nil, err
	}

	sort.SliceStable(allIssues, func(i, j int) bool {
		a, b := allIssues[i], allIssues[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.Subcategory < b.Subcategory
	})

	util.Info("Detection complete: %d total issues found (took %v)", len(allIssues), time.Since(startTime))
	return allIssues, nil
}

// GetDetector returns a detector by name
func (r *Runner) GetDetector(name string) Detector {
	for _, d := range r.detectors {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// Detectors returns every registered detector
func (r *Runner) Detectors() []Detector {
	return r.detectors
}

// ListDetectors returns names of all registered detectors
func (r *Runner) ListDetectors() []string {
	names := make([]string, len(r.detectors))
	for i, d := range r.detectors {
		names[i] = d.Name()
	}
	return names
}
