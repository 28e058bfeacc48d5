package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/beandoc/internal/graphdb"
	"git.home.luguber.info/inful/beandoc/internal/mgmt"
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	if len(cfg.Registry.Queries) == 0 {
		return fmt.Errorf("registry.queries: at least one query is required")
	}
	for _, q := range cfg.Registry.Queries {
		if _, err := mgmt.ParseObjectName(q); err != nil {
			return fmt.Errorf("registry.queries: %w", err)
		}
	}
	for _, e := range cfg.Registry.Excludes {
		if strings.TrimSpace(e) == "" {
			return fmt.Errorf("registry.excludes: empty name")
		}
	}
	if strings.TrimSpace(cfg.Output.Directory) == "" {
		return fmt.Errorf("output.directory: required")
	}
	if strings.ContainsAny(cfg.Docs.ListID, `/\`) {
		return fmt.Errorf("docs.list_id: %q must be a plain file name", cfg.Docs.ListID)
	}
	if _, err := graphdb.ParseSettings(cfg.Database.Settings); err != nil {
		return fmt.Errorf("database.settings: %w", err)
	}
	return nil
}
