package cmd

import (
	"flag"
	"fmt"
	"os"

	"taskdeck/internal/config"
	"taskdeck/internal/seed"
)

// doctorCommand checks the effective configuration and the seed file.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("taskdeck doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := cws.Config

	fmt.Println("Taskdeck Doctor")
	fmt.Println("===============")
	fmt.Println()

	allOK := true

	fmt.Println("Config:")
	if configFile := cws.GetConfigFile(); configFile != "" {
		fmt.Printf("  Config file: %s\n", configFile)
	} else {
		fmt.Println("  Config file: none found")
	}
	printSetting(cws, "max_projects", cfg.MaxProjects)
	printSetting(cws, "max_tasks_per_project", cfg.MaxTasksPerProject)
	printSetting(cws, "log_level", cfg.LogLevel)
	printSetting(cws, "log_format", cfg.LogFormat)
	printSetting(cws, "transcript", cfg.Transcript)
	fmt.Println()

	fmt.Printf("Log directory: %s\n", cfg.LogDir)
	if _, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (will be created on run)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	if cfg.SeedFile == "" {
		fmt.Println("Seed file: none configured")
	} else {
		fmt.Printf("Seed file: %s\n", cfg.SeedFile)
		if !checkSeedFile(cfg.SeedFile, *verbose) {
			allOK = false
		}
	}
	fmt.Println()

	if *verbose {
		fmt.Println("Example config (taskdeck.toml):")
		fmt.Println(config.ExampleConfig())
	}

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Taskdeck may not start correctly.")
	return fmt.Errorf("doctor checks failed")
}

// printSetting prints one config value with the source it came from.
func printSetting(cws *config.ConfigWithSources, field string, value any) {
	source := cws.Sources[field]
	if source == "" {
		source = config.SourceDefault
	}
	fmt.Printf("  ✅ %s: %v (%s)\n", field, value, source)
}

// checkSeedFile loads and validates the seed file, printing findings.
func checkSeedFile(path string, verbose bool) bool {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		return false
	}

	f, err := seed.Load(path)
	if err != nil {
		fmt.Printf("  ❌ Load error: %v\n", err)
		return false
	}

	result := f.Validate()
	for _, w := range result.Warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
	if !result.Valid {
		fmt.Println("  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Printf("     - %v\n", e)
		}
		return false
	}

	fmt.Println("  ✅ Valid")
	if verbose {
		tasks := 0
		for _, p := range f.Projects {
			tasks += len(p.Tasks)
		}
		fmt.Printf("  Projects: %d, tasks: %d\n", len(f.Projects), tasks)
		for _, p := range f.Projects {
			fmt.Printf("    - %s (%d tasks)\n", p.Name, len(p.Tasks))
		}
	}
	return true
}
