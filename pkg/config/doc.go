// Package config loads the plugin's runtime settings.
//
// Values are resolved with the following precedence, highest first:
//  1. Command-line flags
//  2. Environment variables (LOG_LEVEL, PLUGIN_PORT, ...)
//  3. YAML config file given with --config
//  4. Defaults
//
// The result is validated before the server starts.
package config
