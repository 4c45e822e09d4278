package types

import "time"

// AIConfig holds shared settings for stages that call the text-completion
// collaborator.
type AIConfig struct {
	// Backend selects the completion client: "claude" or "ollama".
	Backend string `json:"backend" yaml:"backend"`

	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929"
	// or "llama3.2:latest").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for hosted backends.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Host is the base URL for self-hosted backends
	// (default "http://localhost:11434" for Ollama).
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Timeout bounds each completion call. Zero means 60s.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ExtractionConfig holds settings for the field extraction stage.
type ExtractionConfig struct {
	AIConfig `yaml:",inline"`

	// RuleBased selects the deterministic keyword extractor instead of
	// the completion-backed one.
	RuleBased bool `json:"rule_based" yaml:"rule_based"`

	// ConsultationsDir is the base directory for pipeline artifacts
	// (contains transcripts/, records/, reports/).
	ConsultationsDir string `json:"consultations_dir" yaml:"consultations_dir"`
}

// CodingConfig holds settings for the code extraction stage.
type CodingConfig struct {
	AIConfig `yaml:",inline"`

	// RuleBased selects the curated code tables instead of the
	// completion-backed coder.
	RuleBased bool `json:"rule_based" yaml:"rule_based"`
}

// ArchiveConfig holds settings for the consultation archive.
type ArchiveConfig struct {
	// ArchiveDir is the base directory for the archive (contains index/).
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`

	// MaxResults is the default maximum number of search results
	// (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Coding     CodingConfig     `json:"coding" yaml:"coding"`
	Archive    ArchiveConfig    `json:"archive" yaml:"archive"`
}
