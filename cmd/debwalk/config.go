package main

import (
	"fmt"
	"log/slog"
	"os"

	"go.yaml.in/yaml/v3"
)

// Config is a business object holding the application's configuration.
type Config struct {
	// MemberVariants accepts every compression variant of the control and data members.
	MemberVariants bool
	// FoldContinuations appends continuation lines to control values.
	FoldContinuations bool
	// LogLevel is the minimum level of log records.
	LogLevel slog.Level
}

func decodeConfig(path string) (*Config, error) {
	// Internal DTO for YAML deserialization
	type yamlConfig struct {
		MemberVariants    bool   `yaml:"member_variants"`
		FoldContinuations bool   `yaml:"fold_continuations"`
		LogLevel          string `yaml:"log_level"`
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var dto yamlConfig
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	config := &Config{
		MemberVariants:    dto.MemberVariants,
		FoldContinuations: dto.FoldContinuations,
		LogLevel:          slog.LevelInfo,
	}
	if dto.LogLevel != "" {
		if err := config.LogLevel.UnmarshalText([]byte(dto.LogLevel)); err != nil {
			return nil, fmt.Errorf("parsing %s: log_level: %w", path, err)
		}
	}
	return config, nil
}
