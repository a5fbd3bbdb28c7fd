package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Taskdeck configuration file
# Values can be overridden by environment variables or CLI flags

# Capacity limits
max_projects = 10
max_tasks_per_project = 200

# JSON seed file applied to the fresh repository at startup
# seed_file = "demo.json"

# Log directory (supports ~ expansion)
log_dir = "~/.taskdeck"

# Log level: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"

# Show timestamps in log lines
log_timestamps = false

# Record every operation as a JSONL event under log_dir
transcript = true
`
}
