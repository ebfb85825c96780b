package config

import (
	"strings"

	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

const generatedHeader = "# composer configuration\n# Save as $XDG_CONFIG_HOME/composer/config.toml or pass with --config.\n\n"

// GenerateConfigContent renders cfg as a TOML configuration file. With
// commented set, every value line is commented out so the file documents
// the settings without overriding anything.
func GenerateConfigContent(cfg *Config, commented bool) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", composerErrors.Wrap(err, composerErrors.ErrInternal, "failed to encode configuration")
	}

	content := string(data)
	if commented {
		content = commentOutConfigValues(content)
	}
	return generatedHeader + content, nil
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines as-is
		if trimmed == "" {
			result = append(result, line)
			continue
		}

		// Keep lines that are already comments
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [replacements]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		// Comment out configuration value lines
		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
