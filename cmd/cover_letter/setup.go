package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cover-letter/internal/config"
	"github.com/jonathan/cover-letter/internal/generation"
	"github.com/jonathan/cover-letter/internal/llm"
	"github.com/jonathan/cover-letter/internal/overrides"
)

// loadConfig merges the config file, environment and the named flags of
// cmd. bindings maps flag names to setting keys.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	loader := config.NewLoader()
	bindings["verbose"] = config.KeyVerbose
	for name, key := range bindings {
		if err := loader.BindFlag(key, cmd.Flag(name)); err != nil {
			return nil, err
		}
	}

	cfg, err := loader.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadRules returns the bundled override rules, or the table in path.
func loadRules(path string) (overrides.Table, error) {
	if path == "" {
		return overrides.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return overrides.Table{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	return overrides.Parse(data)
}

// newGenerator builds the Gemini backed generator for cfg.
func newGenerator(cfg *config.Config, rulesPath string) (*generation.Generator, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	rules, err := loadRules(rulesPath)
	if err != nil {
		return nil, err
	}

	return generation.New(generation.Options{
		APIKey:    cfg.APIKey,
		LLMConfig: llm.DefaultConfig().WithModel(llm.TierStandard, cfg.Model),
		Tier:      llm.TierStandard,
		Rules:     rules,
		Policy: generation.Policy{
			Timeout:     cfg.GenerationTimeout,
			MaxAttempts: cfg.GenerationMaxAttempts,
		},
	}), nil
}
