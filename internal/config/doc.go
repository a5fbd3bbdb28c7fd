// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskdeck/taskdeck.toml or OS-specific config directory)
// 3. Project config file (taskdeck.toml or .taskdeck.toml in the working directory)
// 4. A .env file in the working directory (never overrides real environment)
// 5. Environment variables (MAX_NUMBER_OF_PROJECT, MAX_NUMBER_OF_TASK, TASKDECK_*)
// 6. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// Malformed values fail loudly: a limit that is not a positive integer
// aborts startup instead of being silently replaced by a default.
package config
