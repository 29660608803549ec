package metrics

import (
	"context"
	"sync"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

// Provider exposes flattened views of per-file walk results for detectors,
// computing each view on first use.
type Provider struct {
	root  string
	files []model.FileMetrics
	cfg   config.CacheConfig

	// Cached views
	mu              sync.RWMutex
	functionMetrics []model.FunctionMetrics
	classMetrics    []model.ClassMetrics
}

// NewProvider creates a provider over the files of one scan
func NewProvider(root string, files []model.FileMetrics, cfg config.CacheConfig) *Provider {
	return &Provider{
		root:  root,
		files: files,
		cfg:   cfg,
	}
}

// RootPath returns the scanned root
func (p *Provider) RootPath() string {
	return p.root
}

// GetAllFileMetrics returns the per-file results in path order
func (p *Provider) GetAllFileMetrics(ctx context.Context) ([]model.FileMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.files, nil
}

// GetAllFunctionMetrics returns one entry per method
func (p *Provider) GetAllFunctionMetrics(ctx context.Context) ([]model.FunctionMetrics, error) {
	return cached(ctx, p, &p.functionMetrics, "function", p.flattenFunctions)
}

// GetAllClassMetrics returns one entry per type
func (p *Provider) GetAllClassMetrics(ctx context.Context) ([]model.ClassMetrics, error) {
	return cached(ctx, p, &p.classMetrics, "class", p.flattenClasses)
}

// cached returns *slot if already computed, otherwise computes it under the
// write lock and stores it when caching is enabled.
func cached[T any](ctx context.Context, p *Provider, slot *[]T, name string, compute func() []T) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	if *slot != nil {
		defer p.mu.RUnlock()
		util.Debug("Returning %d cached %s metrics", len(*slot), name)
		return *slot, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if *slot != nil {
		util.Debug("Returning %d cached %s metrics (after lock upgrade)", len(*slot), name)
		return *slot, nil
	}

	metrics := compute()
	util.Debug("Computed %d %s metrics", len(metrics), name)
	if p.cfg.Enabled {
		*slot = metrics
	}
	return metrics, nil
}

func (p *Provider) flattenFunctions() []model.FunctionMetrics {
	out := make([]model.FunctionMetrics, 0)
	for _, f := range p.files {
		for _, ns := range f.Namespaces {
			for _, t := range ns.Types {
				for _, m := range t.Methods {
					out = append(out, model.FunctionMetrics{
						Name:                 m.Name,
						FilePath:             f.Path,
						Namespace:            ns.Name,
						ClassName:            t.Name,
						ClassKind:            t.Kind,
						StartLine:            m.StartLine,
						EndLine:              m.EndLine,
						CyclomaticComplexity: int(m.CyclomaticComplexity),
						CommentLines:         int(m.CommentLines),
						CodeTokens:           int(m.CodeTokens),
						Lambdas:              int(m.Lambdas),
						ParameterCount:       int(m.Parameters),
						ContractComplexity:   int(m.ContractComplexity),
					})
				}
			}
		}
	}
	return out
}

func (p *Provider) flattenClasses() []model.ClassMetrics {
	out := make([]model.ClassMetrics, 0)
	for _, f := range p.files {
		for _, ns := range f.Namespaces {
			for _, t := range ns.Types {
				total := 0
				for _, m := range t.Methods {
					total += int(m.CyclomaticComplexity)
				}
				out = append(out, model.ClassMetrics{
					Name:                      t.Name,
					Kind:                      t.Kind,
					FilePath:                  f.Path,
					Namespace:                 ns.Name,
					StartLine:                 t.StartLine,
					EndLine:                   t.EndLine,
					MethodCount:               len(t.Methods),
					CommentLines:              int(t.CommentLines),
					TotalCyclomaticComplexity: total,
				})
			}
		}
	}
	return out
}

// ClearCache clears all cached views
func (p *Provider) ClearCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.functionMetrics = nil
	p.classMetrics = nil
	util.Debug("Metrics cache cleared")
}
