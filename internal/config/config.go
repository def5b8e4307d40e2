// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config turns the viper key space (config file, PAPER_DIGEST_*
// environment, secrets directory) into one immutable types.Config, and
// builds the process logger.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// EnvPrefix is prepended to every environment override, e.g.
// PAPER_DIGEST_SELECTION_MAX_NEW_PAPERS.
const EnvPrefix = "PAPER_DIGEST"

// Secret file names recognised in the secrets directory.
const (
	SecretGemini    = "gemini-api-key"
	SecretAnthropic = "anthropic-api-key"
	SecretOpenAI    = "openai-api-key"
	SecretSMTP      = "smtp-password"
)

// defaults mirrors the documented configuration file. Every key must appear
// here so AutomaticEnv can resolve it during Unmarshal.
var defaults = map[string]any{
	"search.query":              `"large language model" OR "LLM" OR "transformer" OR "reinforcement learning"`,
	"search.categories":         []string{"cs.AI", "cs.CL", "cs.LG", "stat.ML"},
	"search.ids":                []string{},
	"search.max_results":        20,
	"search.lookback_days":      7,
	"search.user_agent":         "paper-digest/0.1",
	"search.timeout":            60 * time.Second,
	"search.rate_limit_retries": 0,
	"selection.max_new_papers":  5,
	"model.provider":            string(types.ProviderGemini),
	"model.name":                "",
	"model.api_key":             "",
	"model.base_url":            "",
	"analysis.extractor":        string(types.ExtractorPDF),
	"analysis.max_input_chars":  400000,
	"analysis.max_pdf_bytes":    int64(64 << 20),
	"mail.host":                 "smtp.gmail.com",
	"mail.port":                 587,
	"mail.sender":               "",
	"mail.recipients":           []string{},
	"mail.password":             "",
	"dedup.backend":             string(types.DedupFile),
	"dedup.path":                "analyzed_papers.txt",
	"digest.renderer":           string(types.RendererLines),
	"digest.archive_dir":        "",
	"schedule.at":               "08:00",
	"schedule.poll_interval":    30 * time.Second,
	"log.level":                 "info",
	"log.file":                  "",
	"telemetry.otlp_endpoint":   "",
}

// SetDefaults registers defaults and environment binding on v.
func SetDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load materialises the configuration. Credentials missing from v are taken
// from secrets (filename → value), so explicit configuration always wins.
func Load(v *viper.Viper, secrets map[string]string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}

	if cfg.Model.APIKey == "" {
		cfg.Model.APIKey = secrets[secretForProvider(cfg.Model.Provider)]
	}
	if cfg.Mail.Password == "" {
		cfg.Mail.Password = secrets[SecretSMTP]
	}
	cfg.Search.Categories = compact(cfg.Search.Categories)
	cfg.Search.IDs = compact(cfg.Search.IDs)
	cfg.Mail.Recipients = compact(cfg.Mail.Recipients)

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations no stage could run with.
func Validate(cfg types.Config) error {
	var problems []string

	if cfg.Selection.MaxNewPapers < 0 {
		problems = append(problems, "selection.max_new_papers must be >= 0")
	}
	if cfg.Search.MaxResults <= 0 {
		problems = append(problems, "search.max_results must be > 0")
	}
	if cfg.Search.LookbackDays < 0 {
		problems = append(problems, "search.lookback_days must be >= 0")
	}
	if cfg.Search.Query == "" && len(cfg.Search.Categories) == 0 && len(cfg.Search.IDs) == 0 {
		problems = append(problems, "one of search.ids, search.categories, search.query is required")
	}
	switch cfg.Model.Provider {
	case types.ProviderGemini, types.ProviderAnthropic, types.ProviderOllama, types.ProviderOpenAI:
	default:
		problems = append(problems, fmt.Sprintf("unsupported model.provider %q", cfg.Model.Provider))
	}
	switch cfg.Analysis.Extractor {
	case types.ExtractorPDF, types.ExtractorMarkitdown:
	default:
		problems = append(problems, fmt.Sprintf("unsupported analysis.extractor %q", cfg.Analysis.Extractor))
	}
	switch cfg.Dedup.Backend {
	case types.DedupFile, types.DedupSQLite:
	default:
		problems = append(problems, fmt.Sprintf("unsupported dedup.backend %q", cfg.Dedup.Backend))
	}
	if cfg.Dedup.Path == "" {
		problems = append(problems, "dedup.path is required")
	}
	switch cfg.Digest.Renderer {
	case types.RendererLines, types.RendererGoldmark:
	default:
		problems = append(problems, fmt.Sprintf("unsupported digest.renderer %q", cfg.Digest.Renderer))
	}
	if _, _, err := ParseClock(cfg.Schedule.At); err != nil {
		problems = append(problems, err.Error())
	}
	if cfg.Schedule.PollInterval <= 0 {
		problems = append(problems, "schedule.poll_interval must be > 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ParseClock parses an "HH:MM" wall-clock time.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("schedule.at %q is not HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

func secretForProvider(p types.ModelProvider) string {
	switch p {
	case types.ProviderAnthropic:
		return SecretAnthropic
	case types.ProviderOpenAI:
		return SecretOpenAI
	case types.ProviderGemini:
		return SecretGemini
	default:
		return ""
	}
}

// compact trims entries and drops empty ones. Environment values arrive as a
// single comma-separated string, so each entry is split again.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
