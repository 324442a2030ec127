// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/capture/internal/hackernews"
	"github.com/pdiddy/capture/internal/reducto"
	"github.com/pdiddy/capture/internal/secrets"
	"github.com/pdiddy/capture/pkg/types"
)

const defaultUserAgent = "capture/0.1"

// defaultModels is the model used when ai.model is unset.
var defaultModels = map[string]string{
	types.AIBackendClaude: "claude-sonnet-4-5-20250929",
	types.AIBackendOpenAI: "gpt-4.1",
}

// setDefaults registers every config key with its default.
func setDefaults(v *viper.Viper) {
	v.SetDefault("strategy", string(types.StrategyMerge))
	v.SetDefault("no_sandbox", true)
	v.SetDefault("cleanup_pdf", false)

	v.SetDefault("reducto.base_url", reducto.DefaultBaseURL)
	v.SetDefault("reducto.upload_timeout", reducto.DefaultUploadTimeout)
	v.SetDefault("reducto.parse_timeout", reducto.DefaultParseTimeout)

	v.SetDefault("ai.backend", types.AIBackendClaude)
	v.SetDefault("ai.max_tokens", 0)

	v.SetDefault("converter.backend", types.ConverterPandoc)
	v.SetDefault("formatter.enabled", true)

	v.SetDefault("hackernews.enabled", true)
	v.SetDefault("hackernews.base_url", hackernews.DefaultBaseURL)
	v.SetDefault("hackernews.timeout", hackernews.DefaultTimeout)

	v.SetDefault("catalog.path", defaultCatalogPath())
}

func defaultCatalogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "capture", "catalog.db")
}

// loadConfig reads the capture settings from v and fills credentials from
// store. Keys set in v win over store.
func loadConfig(v *viper.Viper, store *secrets.Store) types.CaptureConfig {
	if store == nil {
		store = secrets.NewStore(nil)
	}

	cfg := types.CaptureConfig{
		OutputDir:  v.GetString("output_dir"),
		Browser:    v.GetString("browser"),
		NoSandbox:  v.GetBool("no_sandbox"),
		Strategy:   types.Strategy(v.GetString("strategy")),
		CleanupPDF: v.GetBool("cleanup_pdf"),
		Reducto: types.ReductoConfig{
			BaseURL:       v.GetString("reducto.base_url"),
			APIKey:        firstNonEmpty(v.GetString("reducto.api_key"), store.Get(secrets.Reducto)),
			UploadTimeout: v.GetDuration("reducto.upload_timeout"),
			ParseTimeout:  v.GetDuration("reducto.parse_timeout"),
		},
		AI: types.AIConfig{
			Backend:   v.GetString("ai.backend"),
			Model:     v.GetString("ai.model"),
			APIKey:    v.GetString("ai.api_key"),
			MaxTokens: v.GetInt("ai.max_tokens"),
			Command:   v.GetStringSlice("ai.command"),
		},
		Converter: types.ConverterConfig{Backend: v.GetString("converter.backend")},
		Formatter: types.FormatterConfig{Enabled: v.GetBool("formatter.enabled")},
		HackerNews: types.HackerNewsConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("hackernews.timeout"),
				UserAgent: defaultUserAgent,
			},
			Enabled: v.GetBool("hackernews.enabled"),
			BaseURL: v.GetString("hackernews.base_url"),
		},
		Catalog: types.CatalogConfig{Path: expandHome(v.GetString("catalog.path"))},
	}

	if cfg.AI.APIKey == "" {
		switch cfg.AI.Backend {
		case types.AIBackendClaude:
			cfg.AI.APIKey = store.Get(secrets.Anthropic)
		case types.AIBackendOpenAI:
			cfg.AI.APIKey = store.Get(secrets.OpenAI)
		}
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = defaultModels[cfg.AI.Backend]
	}
	return cfg
}

// strategyFromFlags applies --no-reducto and --generate over the
// configured strategy.
func strategyFromFlags(cmd *cobra.Command, configured types.Strategy) (types.Strategy, error) {
	noReducto, _ := cmd.Flags().GetBool("no-reducto")
	generate, _ := cmd.Flags().GetBool("generate")

	switch {
	case noReducto && generate:
		return "", errors.New("--no-reducto and --generate cannot be combined")
	case noReducto:
		return types.StrategyInject, nil
	case generate:
		return types.StrategyGenerate, nil
	case configured == "":
		return types.StrategyMerge, nil
	default:
		return configured, nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
