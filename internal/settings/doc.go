// Package settings loads barn's persistent configuration.
//
// Settings are resolved in this order, later sources winning:
//
//  1. built-in defaults
//  2. the settings file, $XDG_CONFIG_HOME/barn/config.yaml by default
//  3. BARN_SERVER_URL and BARN_CONTEXT from the environment, which may be
//     populated from a .env or .env.local file in the working directory
//
// Command-line flags are applied on top by the cli package. Environment
// variable references such as ${HOME} inside the settings file are expanded
// before parsing.
package settings
