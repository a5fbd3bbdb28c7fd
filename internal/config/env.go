package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// loadFromEnv overrides config from the environment. A .env file in the
// working directory is read first; godotenv never overrides variables that
// are already set, so the real environment wins.
//
// The limit variables fail hard on malformed values: silently falling back
// to a default would hide a typo until the limit bites.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	_ = godotenv.Load()

	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("MAX_NUMBER_OF_PROJECT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_NUMBER_OF_PROJECT: %q is not an integer", v)
		}
		cfg.MaxProjects = n
		set("max_projects")
	}
	if v := os.Getenv("MAX_NUMBER_OF_TASK"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_NUMBER_OF_TASK: %q is not an integer", v)
		}
		cfg.MaxTasksPerProject = n
		set("max_tasks_per_project")
	}
	if v := os.Getenv("TASKDECK_SEED"); v != "" {
		cfg.SeedFile = v
		set("seed_file")
	}
	if v := os.Getenv("TASKDECK_LOG_DIR"); v != "" {
		cfg.LogDir = v
		set("log_dir")
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("TASKDECK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("TASKDECK_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv("TASKDECK_TRANSCRIPT"); v != "" {
		cfg.Transcript = boolFromString(v)
		set("transcript")
	}

	return nil
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
