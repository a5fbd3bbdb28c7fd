package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for
// each field. Used by the doctor command.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultMaxProjects        = 10
	DefaultMaxTasksPerProject = 200
	DefaultLogDir             = "~/.taskdeck"
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
)

// Config holds the full configuration for taskdeck.
type Config struct {
	// Capacity limits
	MaxProjects        int `toml:"max_projects"`
	MaxTasksPerProject int `toml:"max_tasks_per_project"`

	// Optional JSON seed file applied to the fresh repository at startup
	SeedFile string `toml:"seed_file"`

	// Logging
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Transcript records every operation as a JSONL event under LogDir
	Transcript bool `toml:"transcript"`
}
