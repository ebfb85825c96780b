package config

import (
	"strings"

	"github.com/arthur-debert/composer/pkg/scanner"
	"github.com/arthur-debert/composer/pkg/types"
)

// Config is the effective composer configuration
type Config struct {
	Archs        []string `koanf:"archs" toml:"archs"`
	RepoPriority []string `koanf:"repo_priority" toml:"repo_priority"`
	SkipDirs     []string `koanf:"skip_dirs" toml:"skip_dirs"`
	Mask         string   `koanf:"mask" toml:"mask"`
	IncludeBeta  bool     `koanf:"include_beta" toml:"include_beta"`
	IncludeExtra bool     `koanf:"include_extra" toml:"include_extra"`

	MoveDebug       bool              `koanf:"move_debug" toml:"move_debug"`
	AllDir          string            `koanf:"all_dir" toml:"all_dir"`
	OSDir           string            `koanf:"os_dir" toml:"os_dir"`
	DebugDir        string            `koanf:"debug_dir" toml:"debug_dir"`
	CustomRulesFile string            `koanf:"custom_rules_file" toml:"custom_rules_file"`
	Replacements    map[string]string `koanf:"replacements" toml:"replacements"`

	Threads int  `koanf:"threads" toml:"threads"`
	RealRun bool `koanf:"real_run" toml:"real_run"`
}

// Policy returns the rule derivation policy
func (c *Config) Policy() types.Policy {
	return types.Policy{
		Architectures:     c.Archs,
		ChannelPriority:   c.RepoPriority,
		MoveDebugPackages: c.MoveDebug,
		AllDirMarker:      c.AllDir,
		OSDirMarker:       c.OSDir,
		DebugDirMarker:    c.DebugDir,
		Replacements:      c.Replacements,
		CustomRulesFile:   c.CustomRulesFile,
	}
}

// ScanOptions returns the tree scanner options
func (c *Config) ScanOptions() scanner.Options {
	return scanner.Options{
		Architectures:   c.Archs,
		ChannelPriority: c.RepoPriority,
		SkipDirs:        c.SkipDirs,
		Mask:            c.Mask,
		IncludeBeta:     c.IncludeBeta,
		IncludeExtra:    c.IncludeExtra,
	}
}

// DirMarker normalizes a directory name to the "/name/" form used for
// substring matching, so "os", "/os" and "os/" all become "/os/".
func DirMarker(name string) string {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	if !strings.HasSuffix(name, "/") {
		name += "/"
	}
	return name
}
