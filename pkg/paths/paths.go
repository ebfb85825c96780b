package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for composer
	EnvConfigDir = "COMPOSER_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for composer
	EnvStateDir = "COMPOSER_STATE_DIR"
)

// Default directories and files
const (
	// AppDirName is the directory name for composer-specific files
	AppDirName = "composer"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "composer.log"
)

// ConfigDir returns the directory holding the user configuration
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// ConfigFile returns the default configuration file path. The file may
// not exist.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// StateDir returns the directory for logs and other state
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// LogFile returns the log file path
func LogFile() string {
	return filepath.Join(StateDir(), LogFileName)
}
