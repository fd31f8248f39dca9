package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the top-level bankrec.yaml configuration.
type Settings struct {
	Matching MatchingSettings `yaml:"matching"`
	Parsing  ParsingSettings  `yaml:"parsing"`
	Report   ReportSettings   `yaml:"report"`
}

// MatchingSettings tunes the matching engine.
type MatchingSettings struct {
	// Tolerance is the maximum absolute difference for an amount match.
	Tolerance float64 `yaml:"tolerance"`
}

// ParsingSettings tunes the statement parser.
type ParsingSettings struct {
	DefaultCurrency string `yaml:"default_currency"`
	ReferenceMax    int    `yaml:"reference_max"`
	MessageMax      int    `yaml:"message_max"`
}

// ReportSettings tunes the run report builder.
type ReportSettings struct {
	// PreviewLimit caps errors_preview in the persisted run report.
	PreviewLimit int `yaml:"preview_limit"`
}

// Load reads a bankrec.yaml file from disk.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &s, nil
}

// Save writes Settings to a YAML file.
func Save(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the engine defaults.
func Default() *Settings {
	return &Settings{
		Matching: MatchingSettings{
			Tolerance: 0.05,
		},
		Parsing: ParsingSettings{
			DefaultCurrency: "CHF",
			ReferenceMax:    180,
			MessageMax:      220,
		},
		Report: ReportSettings{
			PreviewLimit: 5,
		},
	}
}

// LoadOrDefault reads settings from path, falling back to Default when the
// file does not exist.
func LoadOrDefault(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
