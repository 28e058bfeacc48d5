package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const exampleHeader = `# beandoc configuration.
# Values may reference environment variables as ${VAR}; .env and .env.local
# are loaded first when present.
`

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	example := Default()
	example.Database.Settings = nil
	example.Metrics.Textfile = "${BEANDOC_METRICS_TEXTFILE}"

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(exampleHeader), data...), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
