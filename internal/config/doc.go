// Package config handles configuration loading for taskboard.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file with environment
// variable expansion. Every field has a default, so running without a file
// is supported.
//
// # Configuration File
//
// Lookup order (first match wins):
//
//  1. --config flag
//  2. Path from TASKBOARD_CONFIG environment variable
//  3. $XDG_CONFIG_HOME/taskboard/config.yaml
//  4. ~/.config/taskboard/config.yaml
//
// Paths ending in .toml are decoded as TOML. TASKBOARD_DB_PATH overrides
// database.path after loading.
//
// # Environment Variable Expansion
//
//	webui:
//	  csrf_secret: "${TASKBOARD_CSRF_SECRET}"
//
// Unset variables expand to the empty string.
//
// # Duration Parsing
//
// webui.csrf_ttl and webui.nonce_ttl use time.ParseDuration syntax
// ("12h", "10m").
//
// # Configuration Sections
//
//	server:     http_addr
//	database:   driver (sqlite | sqlite3), path
//	webui:      title, csrf_secret, csrf_ttl, nonce_ttl
//	export:     filename
//	tailscale:  enabled, hostname, auth_key, state_dir, ephemeral
//	logging:    level (debug | info | warn | error), format (text | json)
//
// Sample holds a commented file with every option.
package config
