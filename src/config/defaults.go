package config

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:        "code-analyzer",
			Version:     "1.0.0",
			Description: "C# source metrics and technical debt analyzer",
		},
		Analysis: AnalysisConfig{
			Extensions:    []string{".cs"},
			SkipDirs:      []string{"obj", "bin", ".git", ".vs", "node_modules"},
			MaxFileSizeKB: 2048,
		},
		Concurrency: ConcurrencyConfig{
			MaxParallelFiles:     8,
			MaxParallelDetectors: 3,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Detectors: DetectorsConfig{
			FailFast: false,
			Complexity: ComplexityDetectorConfig{
				Enabled:            true,
				CyclomaticModerate: 10,
				CyclomaticHigh:     15,
				CyclomaticCritical: 25,
				MaxLambdas:         5,
			},
			SizeAndStructure: SizeDetectorConfig{
				Enabled:               true,
				MaxParameters:         5,
				MaxCodeTokens:         400,
				MaxContractComplexity: 30,
				MaxTypeMethods:        20,
			},
			Documentation: DocumentationDetectorConfig{
				Enabled:        true,
				MinComplexity:  10,
				MinTypeMethods: 5,
			},
		},
		Exclusions: ExclusionsConfig{
			FilePatterns: []string{
				"**/*.Designer.cs", "**/*.g.cs", "**/*.g.i.cs",
				"**/Migrations/**",
			},
		},
		Severity: SeverityConfig{
			MinSeverity: "low",
			Overrides:   map[string]string{},
		},
		Output: OutputConfig{
			Formats:              []string{"text"},
			OutputDir:            ".",
			IncludeSuggestions:   true,
			IncludeMetrics:       true,
			MaxIssuesPerCategory: 100,
			HotspotsTopN:         10,
			Database:             "code-analyzer.db",
		},
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "text",
			IncludeTimestamp: true,
			IncludeCaller:    false,
		},
	}
}
