package config

import (
	"flag"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.taskdeck/taskdeck.toml or OS-specific config dir)
// 3. Project config file (taskdeck.toml or .taskdeck.toml in current directory)
// 4. .env file plus environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := load(fs, args, nil)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	return load(fs, args, sources)
}

func load(fs *flag.FlagSet, args []string, sources map[string]ConfigSource) (*ConfigWithSources, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}

	return &ConfigWithSources{Config: cfg, Sources: sources}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"max_projects",
		"max_tasks_per_project",
		"seed_file",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"transcript",
	}
}

// loadConfigFile loads TOML config from the given file. Only keys present in
// the file overwrite the current values; toml.MetaData tells which those are.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if sources != nil {
		for _, field := range configFields() {
			if md.IsDefined(field) {
				sources[field] = source
			}
		}
	}
	return nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.MaxProjects = DefaultMaxProjects
	cfg.MaxTasksPerProject = DefaultMaxTasksPerProject
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Transcript = true
}

// finalizeConfig expands paths and validates the result.
func finalizeConfig(cfg *Config) error {
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.SeedFile = expandPath(cfg.SeedFile)

	if cfg.MaxProjects < 1 {
		return fmt.Errorf("max_projects must be at least 1, got %d", cfg.MaxProjects)
	}
	if cfg.MaxTasksPerProject < 1 {
		return fmt.Errorf("max_tasks_per_project must be at least 1, got %d", cfg.MaxTasksPerProject)
	}
	return nil
}
