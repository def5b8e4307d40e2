package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-digest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// RateLimitRetries is how many times an HTTP 429 is retried with backoff.
	// Zero disables retries: a single failed request is final.
	RateLimitRetries int `json:"rate_limit_retries" yaml:"rate_limit_retries" mapstructure:"rate_limit_retries"`
}

// SearchConfig holds the metadata fetch criteria. Exactly one of IDs,
// Categories, Query drives a fetch, in that order of precedence.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Query is the free-text arXiv query.
	Query string `json:"query" yaml:"query" mapstructure:"query"`

	// Categories lists arXiv categories (e.g. "cs.AI"), ORed together.
	Categories []string `json:"categories" yaml:"categories" mapstructure:"categories"`

	// IDs lists explicit arXiv IDs to fetch.
	IDs []string `json:"ids" yaml:"ids" mapstructure:"ids"`

	// MaxResults bounds the metadata results per fetch (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// LookbackDays is the submission-date window length in days.
	// Zero disables date filtering.
	LookbackDays int `json:"lookback_days" yaml:"lookback_days" mapstructure:"lookback_days"`
}

// SelectionConfig bounds how many papers a run analyzes.
type SelectionConfig struct {
	// MaxNewPapers is the maximum number of unseen papers deeply analyzed per run.
	MaxNewPapers int `json:"max_new_papers" yaml:"max_new_papers" mapstructure:"max_new_papers"`
}

// ModelProvider selects the language-model backend.
type ModelProvider string

const (
	ProviderGemini    ModelProvider = "gemini"
	ProviderAnthropic ModelProvider = "anthropic"
	ProviderOllama    ModelProvider = "ollama"
	ProviderOpenAI    ModelProvider = "openai"
)

// ModelConfig holds settings for the language model used for scoring and analysis.
type ModelConfig struct {
	// Provider selects the backend: gemini, anthropic, ollama, or openai.
	Provider ModelProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Name is the model identifier (e.g. "gemini-2.5-flash").
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// APIKey is the credential. Empty disables the model for hosted providers.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the server URL (ollama).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// ExtractorBackend identifies the PDF text extraction tool.
type ExtractorBackend string

const (
	ExtractorPDF        ExtractorBackend = "pdf"
	ExtractorMarkitdown ExtractorBackend = "markitdown"
)

// AnalysisConfig holds settings for download, extraction, and deep analysis.
type AnalysisConfig struct {
	// Extractor selects the text extraction backend.
	Extractor ExtractorBackend `json:"extractor" yaml:"extractor" mapstructure:"extractor"`

	// MaxInputChars truncates the full text placed in the analysis prompt.
	MaxInputChars int `json:"max_input_chars" yaml:"max_input_chars" mapstructure:"max_input_chars"`

	// MaxPDFBytes caps a downloaded PDF.
	MaxPDFBytes int64 `json:"max_pdf_bytes" yaml:"max_pdf_bytes" mapstructure:"max_pdf_bytes"`
}

// MailConfig holds SMTP delivery settings.
type MailConfig struct {
	Host       string   `json:"host" yaml:"host" mapstructure:"host"`
	Port       int      `json:"port" yaml:"port" mapstructure:"port"`
	Sender     string   `json:"sender" yaml:"sender" mapstructure:"sender"`
	Recipients []string `json:"recipients" yaml:"recipients" mapstructure:"recipients"`
	Password   string   `json:"-" yaml:"-" mapstructure:"password"`
}

// Enabled reports whether enough is configured to attempt delivery.
func (m MailConfig) Enabled() bool {
	return m.Sender != "" && len(m.Recipients) > 0
}

// DedupBackend identifies the dedup store implementation.
type DedupBackend string

const (
	DedupFile   DedupBackend = "file"
	DedupSQLite DedupBackend = "sqlite"
)

// DedupConfig locates the dedup store.
type DedupConfig struct {
	Backend DedupBackend `json:"backend" yaml:"backend" mapstructure:"backend"`
	Path    string       `json:"path" yaml:"path" mapstructure:"path"`
}

// DigestRenderer selects how analysis text becomes HTML.
type DigestRenderer string

const (
	RendererLines    DigestRenderer = "lines"
	RendererGoldmark DigestRenderer = "goldmark"
)

// DigestConfig holds digest rendering settings.
type DigestConfig struct {
	Renderer DigestRenderer `json:"renderer" yaml:"renderer" mapstructure:"renderer"`

	// ArchiveDir, when set, receives a copy of every rendered digest.
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir" mapstructure:"archive_dir"`
}

// ScheduleConfig holds the daily trigger.
type ScheduleConfig struct {
	// At is the local wall-clock trigger time, "HH:MM".
	At string `json:"at" yaml:"at" mapstructure:"at"`

	// PollInterval is how often the trigger time is checked.
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval" mapstructure:"poll_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// File, when set, receives JSON log lines in addition to stderr.
	File string `json:"file" yaml:"file" mapstructure:"file"`
}

// TelemetryConfig holds tracing settings.
type TelemetryConfig struct {
	// OTLPEndpoint is the OTLP/HTTP collector host:port. Empty disables export.
	OTLPEndpoint string `json:"otlp_endpoint" yaml:"otlp_endpoint" mapstructure:"otlp_endpoint"`
}

// Config groups every stage configuration. It is built once at startup and
// passed by value; nothing mutates it afterwards.
type Config struct {
	Search    SearchConfig    `json:"search" yaml:"search" mapstructure:"search"`
	Selection SelectionConfig `json:"selection" yaml:"selection" mapstructure:"selection"`
	Model     ModelConfig     `json:"model" yaml:"model" mapstructure:"model"`
	Analysis  AnalysisConfig  `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Mail      MailConfig      `json:"mail" yaml:"mail" mapstructure:"mail"`
	Dedup     DedupConfig     `json:"dedup" yaml:"dedup" mapstructure:"dedup"`
	Digest    DigestConfig    `json:"digest" yaml:"digest" mapstructure:"digest"`
	Schedule  ScheduleConfig  `json:"schedule" yaml:"schedule" mapstructure:"schedule"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry" mapstructure:"telemetry"`
}
