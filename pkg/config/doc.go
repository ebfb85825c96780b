// Package config handles configuration management for composer.
// It supports loading configuration from multiple sources including
// TOML files, environment variables, and command-line flags.
//
// Sources are layered, later ones winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the configuration file: --config, or $XDG_CONFIG_HOME/composer/config.toml
//  3. COMPOSER_* environment variables, e.g. COMPOSER_REPO_PRIORITY=BaseOS,AppStream
//  4. command-line flags that were explicitly set
package config
