package config

import "flag"

// parseFlags defines and parses CLI flags. Flags override everything, and
// only flags the caller actually passed touch the config.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	}

	maxProjects := fs.Int("max-projects", cfg.MaxProjects, "Maximum number of projects")
	maxTasks := fs.Int("max-tasks", cfg.MaxTasksPerProject, "Maximum number of tasks per project")
	seed := fs.String("seed", cfg.SeedFile, "JSON seed file applied at startup")
	logDir := fs.String("log-dir", cfg.LogDir, "Directory for the session transcript")
	logLevel := fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	logTimestamps := fs.Bool("log-timestamps", cfg.LogTimestamps, "Show timestamps in log lines")
	transcript := fs.Bool("transcript", cfg.Transcript, "Record operations to the session transcript")

	if err := fs.Parse(args); err != nil {
		return err
	}

	flagToField := map[string]string{
		"max-projects":   "max_projects",
		"max-tasks":      "max_tasks_per_project",
		"seed":           "seed_file",
		"log-dir":        "log_dir",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"transcript":     "transcript",
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-projects":
			cfg.MaxProjects = *maxProjects
		case "max-tasks":
			cfg.MaxTasksPerProject = *maxTasks
		case "seed":
			cfg.SeedFile = *seed
		case "log-dir":
			cfg.LogDir = *logDir
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		case "log-timestamps":
			cfg.LogTimestamps = *logTimestamps
		case "transcript":
			cfg.Transcript = *transcript
		}
		if sources != nil {
			if field, ok := flagToField[f.Name]; ok {
				sources[field] = SourceFlag
			}
		}
	})

	return nil
}
