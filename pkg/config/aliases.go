package config

import (
	"fmt"
	"os"

	"FinSignal/internal/domain/models"

	"gopkg.in/yaml.v3"
)

// aliasFile is the on-disk layout: a list keeps declaration order,
// which decides linker ties.
//
//	aliases:
//	  - symbol: AAPL
//	    aliases: [Apple, iPhone]
type aliasFile struct {
	Aliases []models.AliasEntry `yaml:"aliases"`
}

// ParseAliases decodes alias YAML into an immutable table.
func ParseAliases(b []byte) (*models.AliasTable, error) {
	var f aliasFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse aliases: %w", err)
	}
	if len(f.Aliases) == 0 {
		return nil, fmt.Errorf("%w: alias table is empty", ErrInvalidConfig)
	}
	return models.NewAliasTable(f.Aliases)
}

// LoadAliases reads the alias table file.
func LoadAliases(path string) (*models.AliasTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}
	return ParseAliases(b)
}
