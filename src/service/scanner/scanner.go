// Package scanner discovers source files under a root and computes their
// metrics in parallel.
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/service/metrics"
	"code-analyzer/src/service/telemetry"
	"code-analyzer/src/syntax"
	"code-analyzer/src/util"
)

// Parser builds the syntax tree of one file
type Parser interface {
	Parse(ctx context.Context, path string, src []byte) (*syntax.Tree, error)
}

// Result is the outcome of scanning one root
type Result struct {
	Root   string
	Files  []model.FileMetrics
	Errors int
}

// Scanner walks directories and measures every matching file
type Scanner struct {
	analysis config.AnalysisConfig
	parallel int
	parser   Parser
	matcher  *util.ExclusionMatcher
	metrics  *telemetry.Metrics
}

// New creates a scanner. A nil telemetry set is replaced by a fresh one.
func New(cfg *config.Config, parser Parser, matcher *util.ExclusionMatcher, m *telemetry.Metrics) *Scanner {
	if m == nil {
		m = telemetry.New()
	}
	if matcher == nil {
		matcher = util.NewExclusionMatcher(cfg.Exclusions)
	}
	parallel := cfg.Concurrency.MaxParallelFiles
	if parallel < 1 {
		parallel = 1
	}
	return &Scanner{
		analysis: cfg.Analysis,
		parallel: parallel,
		parser:   parser,
		matcher:  matcher,
		metrics:  m,
	}
}

// Scan measures root, which may be a directory or a single file. Per-file
// failures are recorded on the file and do not stop the scan; only context
// cancellation or an unreadable root returns an error.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	var paths []string
	base := root
	if info.IsDir() {
		paths, err = s.discover(ctx, root)
		if err != nil {
			return nil, err
		}
	} else {
		paths = []string{root}
		base = filepath.Dir(root)
	}
	util.Info("Scanning %d files under %s", len(paths), root)

	files := make([]model.FileMetrics, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rel, err := filepath.Rel(base, path)
			if err != nil {
				rel = path
			}
			files[i] = s.AnalyzeFile(gctx, path, filepath.ToSlash(rel))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	result := &Result{Root: root, Files: files}
	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Path < result.Files[j].Path })
	for _, f := range result.Files {
		if f.Error != "" {
			result.Errors++
		}
	}
	util.Info("Scanned %d files, %d failed", len(result.Files), result.Errors)
	return result, nil
}

// discover lists matching files under root in lexical order
func (s *Scanner) discover(ctx context.Context, root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			util.Warn("Skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != root && slices.Contains(s.analysis.SkipDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.hasExtension(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		if s.matcher.MatchesFile(rel) {
			util.Debug("Excluded %s", rel)
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return paths, nil
}

func (s *Scanner) hasExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range s.analysis.Extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// AnalyzeFile reads, parses and walks one file. Failures are reported in
// the returned FileMetrics.Error.
func (s *Scanner) AnalyzeFile(ctx context.Context, path, rel string) model.FileMetrics {
	fm := model.FileMetrics{Path: rel}

	if limit := int64(s.analysis.MaxFileSizeKB) * 1024; limit > 0 {
		if info, err := os.Stat(path); err == nil && info.Size() > limit {
			return s.fail(fm, telemetry.ReasonTooLarge, fmt.Errorf("file is %d bytes, limit is %d", info.Size(), limit))
		}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return s.fail(fm, telemetry.ReasonRead, err)
	}
	fm.Hash = fmt.Sprintf("%016x", xxhash.Sum64(src))
	fm.LineCount = lineCount(src)

	start := time.Now()
	defer func() { s.metrics.ParseDuration.Observe(time.Since(start).Seconds()) }()

	tree, err := s.parser.Parse(ctx, rel, src)
	if err != nil {
		return s.fail(fm, telemetry.ReasonParse, err)
	}
	fm.ParseErrors = tree.HasErrors
	if tree.HasErrors {
		s.metrics.Anomalies.WithLabelValues("syntax_error").Inc()
	}

	res, err := metrics.Analyze(tree)
	fm.Namespaces = res.Namespaces
	fm.Diagnostics = res.Diagnostics
	for _, d := range res.Diagnostics {
		s.metrics.Anomalies.WithLabelValues(d.Kind).Inc()
	}
	if err != nil {
		reason := telemetry.ReasonParse
		if errors.Is(err, metrics.ErrStructuralViolation) {
			reason = telemetry.ReasonStructure
		}
		return s.fail(fm, reason, err)
	}

	s.metrics.FilesAnalyzed.Inc()
	s.metrics.Methods.Add(float64(countMethods(fm.Namespaces)))
	util.Debug("Analyzed %s: %d namespaces, %d lines", rel, len(fm.Namespaces), fm.LineCount)
	return fm
}

func (s *Scanner) fail(fm model.FileMetrics, reason string, err error) model.FileMetrics {
	fm.Error = err.Error()
	s.metrics.FileErrors.WithLabelValues(reason).Inc()
	util.Warn("Failed to analyze %s: %v", fm.Path, err)
	return fm
}

// lineCount counts lines, with a final line lacking a newline counted too
func lineCount(src []byte) int {
	n := bytes.Count(src, []byte{'\n'})
	if len(src) > 0 && src[len(src)-1] != '\n' {
		n++
	}
	return n
}

func countMethods(namespaces []*model.Namespace) int {
	n := 0
	for _, ns := range namespaces {
		for _, t := range ns.Types {
			n += len(t.Methods)
		}
	}
	return n
}
