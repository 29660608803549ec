package config

// Config is the root configuration structure
type Config struct {
	Agent       AgentConfig       `yaml:"agent" toml:"agent"`
	Analysis    AnalysisConfig    `yaml:"analysis" toml:"analysis"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" toml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" toml:"cache"`
	Detectors   DetectorsConfig   `yaml:"detectors" toml:"detectors"`
	Exclusions  ExclusionsConfig  `yaml:"exclusions" toml:"exclusions"`
	Severity    SeverityConfig    `yaml:"severity" toml:"severity"`
	Output      OutputConfig      `yaml:"output" toml:"output"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
}

// AgentConfig contains tool metadata
type AgentConfig struct {
	Name        string `yaml:"name" toml:"name"`
	Version     string `yaml:"version" toml:"version"`
	Description string `yaml:"description" toml:"description"`
}

// AnalysisConfig controls which files are scanned
type AnalysisConfig struct {
	Extensions []string `yaml:"extensions" toml:"extensions"`
	SkipDirs   []string `yaml:"skip_dirs" toml:"skip_dirs"`
	// Files larger than this are reported as errors instead of parsed. 0 disables the limit.
	MaxFileSizeKB int `yaml:"max_file_size_kb" toml:"max_file_size_kb"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	MaxParallelFiles     int `yaml:"max_parallel_files" toml:"max_parallel_files"`
	MaxParallelDetectors int `yaml:"max_parallel_detectors" toml:"max_parallel_detectors"`
}

// CacheConfig contains caching settings
type CacheConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// DetectorsConfig contains settings for all detectors
type DetectorsConfig struct {
	FailFast         bool                        `yaml:"fail_fast" toml:"fail_fast"`
	Complexity       ComplexityDetectorConfig    `yaml:"complexity" toml:"complexity"`
	SizeAndStructure SizeDetectorConfig          `yaml:"size_and_structure" toml:"size_and_structure"`
	Documentation    DocumentationDetectorConfig `yaml:"documentation" toml:"documentation"`
}

// ComplexityDetectorConfig contains complexity detector settings
type ComplexityDetectorConfig struct {
	Enabled            bool `yaml:"enabled" toml:"enabled"`
	CyclomaticModerate int  `yaml:"cyclomatic_moderate" toml:"cyclomatic_moderate"`
	CyclomaticHigh     int  `yaml:"cyclomatic_high" toml:"cyclomatic_high"`
	CyclomaticCritical int  `yaml:"cyclomatic_critical" toml:"cyclomatic_critical"`
	MaxLambdas         int  `yaml:"max_lambdas" toml:"max_lambdas"`
}

// SizeDetectorConfig contains size detector settings
type SizeDetectorConfig struct {
	Enabled               bool `yaml:"enabled" toml:"enabled"`
	MaxParameters         int  `yaml:"max_parameters" toml:"max_parameters"`
	MaxCodeTokens         int  `yaml:"max_code_tokens" toml:"max_code_tokens"`
	MaxContractComplexity int  `yaml:"max_contract_complexity" toml:"max_contract_complexity"`
	MaxTypeMethods        int  `yaml:"max_type_methods" toml:"max_type_methods"`
}

// DocumentationDetectorConfig contains documentation detector settings
type DocumentationDetectorConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	// Methods at or above this complexity need at least one comment line
	MinComplexity int `yaml:"min_complexity" toml:"min_complexity"`
	// Types with at least this many methods need at least one comment line
	MinTypeMethods int `yaml:"min_type_methods" toml:"min_type_methods"`
}

// ExclusionsConfig contains exclusion patterns
type ExclusionsConfig struct {
	FilePatterns   []string `yaml:"file_patterns" toml:"file_patterns"`
	Files          []string `yaml:"files" toml:"files"`
	TypePatterns   []string `yaml:"type_patterns" toml:"type_patterns"`
	MethodPatterns []string `yaml:"method_patterns" toml:"method_patterns"`
}

// SeverityConfig contains severity settings
type SeverityConfig struct {
	MinSeverity string            `yaml:"min_severity" toml:"min_severity"`
	Overrides   map[string]string `yaml:"overrides" toml:"overrides"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	Formats              []string `yaml:"formats" toml:"formats"`
	OutputDir            string   `yaml:"output_dir" toml:"output_dir"`
	IncludeSuggestions   bool     `yaml:"include_suggestions" toml:"include_suggestions"`
	IncludeMetrics       bool     `yaml:"include_metrics" toml:"include_metrics"`
	MaxIssuesPerCategory int      `yaml:"max_issues_per_category" toml:"max_issues_per_category"`
	HotspotsTopN         int      `yaml:"hotspots_top_n" toml:"hotspots_top_n"`
	// Database receives every run when the sqlite format is enabled
	Database string `yaml:"database" toml:"database"`
	// MetricsFile, when set, receives the run counters in Prometheus text format
	MetricsFile string `yaml:"metrics_file" toml:"metrics_file"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level            string `yaml:"level" toml:"level"`
	Format           string `yaml:"format" toml:"format"` // text, json
	File             string `yaml:"file" toml:"file"`
	IncludeTimestamp bool   `yaml:"include_timestamp" toml:"include_timestamp"`
	IncludeCaller    bool   `yaml:"include_caller" toml:"include_caller"`
}
