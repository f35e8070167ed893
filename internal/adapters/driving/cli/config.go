package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/odiscan/internal/adapters/driven/ai"
	"github.com/custodia-labs/odiscan/internal/adapters/driven/config/file"
	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

var configInitForce bool

// llmValidator checks connectivity for config check. Replaced in tests.
var llmValidator driven.AIConfigValidator = ai.NewConfigValidator()

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and initialise the odiscan configuration.

Settings are read from config.toml in the configuration directory and can be
overridden with ODISCAN_* environment variables.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := file.NewSettingsStore(configDir)
		if err != nil {
			return err
		}
		cmd.Println(store.Path())
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the configured language model is reachable",
	RunE:  runConfigCheck,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing configuration file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, s, err := loadSettings()
	if err != nil {
		return err
	}

	source := "defaults"
	if store.Exists() {
		source = store.Path()
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file:       %s\n", source)
	cmd.Println()

	cmd.Println("Language Model:")
	cmd.Printf("  Enabled:         %t\n", s.LLM.Enabled)
	cmd.Printf("  Provider:        %s\n", s.LLM.Provider.Description())
	cmd.Printf("  Model:           %s\n", valueOr(s.LLM.Model, "(provider default)"))
	if s.LLM.BaseURL != "" {
		cmd.Printf("  Base URL:        %s\n", s.LLM.BaseURL)
	}
	if s.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key:         %s\n", maskAPIKey(s.LLM.APIKey))
	}
	if s.LLM.Provider == domain.AIProviderVertex {
		cmd.Printf("  Project:         %s\n", valueOr(s.LLM.Project, "(not set)"))
		cmd.Printf("  Region:          %s\n", valueOr(s.LLM.Region, "(provider default)"))
	}
	cmd.Printf("  Max tokens:      %d\n", s.LLM.MaxTokens)
	cmd.Printf("  Temperature:     %.2f\n", s.LLM.Temperature)
	cmd.Printf("  Timeout:         %s\n", s.LLM.Timeout)
	cmd.Printf("  Attempts:        %d (delay %s)\n", s.LLM.MaxRetries, s.LLM.RetryDelay)
	cmd.Printf("  Rate limit:      %.2f req/s\n", s.LLM.RequestsPerSecond)
	if s.LLM.Enabled && !s.LLM.IsConfigured() {
		cmd.Println("  Status:          not configured, extraction is rule-only")
	}
	cmd.Println()

	cmd.Println("Cache:")
	cmd.Printf("  Enabled:         %t\n", s.Cache.Enabled)
	cmd.Printf("  Backend:         %s\n", s.Cache.Backend)
	cmd.Printf("  Directory:       %s\n", s.Cache.Dir)
	cmd.Println()

	cmd.Println("Extraction:")
	cmd.Printf("  Rule fallback:   %t\n", s.Extraction.RuleFallback)
	cmd.Printf("  Max text chars:  %d\n", s.Extraction.MaxTextChars)
	cmd.Printf("  Lexicon file:    %s\n", valueOr(s.LexiconFile, "(built-in)"))
	cmd.Println()

	cmd.Println("Output:")
	cmd.Printf("  Directory:       %s\n", s.Output.Dir)
	cmd.Printf("  Format:          %s\n", s.Output.Format)
	if s.Output.MetricsFile != "" {
		cmd.Printf("  Metrics file:    %s\n", s.Output.MetricsFile)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	store, err := file.NewSettingsStore(configDir)
	if err != nil {
		return err
	}
	if store.Exists() && !configInitForce {
		return fmt.Errorf("%s already exists, use --force to overwrite", store.Path())
	}

	settings := domain.DefaultSettings()
	settings.Cache.Dir = filepath.Join(store.Dir(), "cache")

	if err := store.Save(settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	cmd.Printf("Configuration written to %s\n", store.Path())

	prompts, err := file.NewPromptStore(promptDir(store))
	if err != nil {
		return err
	}
	written, err := prompts.WriteDefaults(configInitForce)
	if err != nil {
		return fmt.Errorf("write prompts: %w", err)
	}
	for _, p := range written {
		cmd.Printf("Prompt written to %s\n", p)
	}
	return nil
}

// promptDir holds the editable prompt overrides next to config.toml.
func promptDir(store *file.SettingsStore) string {
	return filepath.Join(store.Dir(), "prompts")
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	_, s, err := loadSettings()
	if err != nil {
		return err
	}

	if !s.LLM.IsConfigured() {
		cmd.Println("Language model not configured, extraction is rule-only.")
		return nil
	}

	cmd.Printf("Checking %s (%s)...\n", s.LLM.Provider.Description(), valueOr(s.LLM.Model, "provider default"))
	if err := llmValidator.ValidateLLM(commandContext(cmd), &s.LLM); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	cmd.Println("Language model reachable.")
	return nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
