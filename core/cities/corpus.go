package cities

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds configuration for the city corpora.
type Config struct {
	// AliasFile is the path to the JSON object mapping raw city strings
	// to canonical display values.
	AliasFile string `mapstructure:"alias_file" default:"data/city_aliases.json"`
	// CanonicalFile is the path to the JSON array of canonical city names.
	CanonicalFile string `mapstructure:"canonical_file" default:"data/cities.json"`
}

// Load reads both corpus files and builds a Normalizer.
// The corpora are read once at startup and never reloaded.
func Load(cfg Config) (*Normalizer, error) {
	aliasData, err := os.ReadFile(cfg.AliasFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias map: %w", err)
	}
	var aliases map[string]string
	if err := json.Unmarshal(aliasData, &aliases); err != nil {
		return nil, fmt.Errorf("failed to parse alias map: %w", err)
	}

	canonData, err := os.ReadFile(cfg.CanonicalFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read canonical city list: %w", err)
	}
	var canonical []string
	if err := json.Unmarshal(canonData, &canonical); err != nil {
		return nil, fmt.Errorf("failed to parse canonical city list: %w", err)
	}

	return NewNormalizer(aliases, canonical), nil
}
