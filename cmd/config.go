package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/untangling-bench/lltc4j-export/internal/gateway"
)

// newLogger builds the command logger. Logs are discarded unless the
// inherited --verbose flag is set, in which case they go to standard error so
// they never mix with the CSV output on standard output.
func newLogger(cmd *cobra.Command) *log.Logger {
	logger := log.New(io.Discard, "", log.LstdFlags)
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// loadStoreConfig reads the document store connection parameters from the
// environment. A .env file in the working directory is loaded first when
// present, following the usual twelve-factor convention.
func loadStoreConfig(logger *log.Logger) gateway.Config {
	if err := godotenv.Load(); err != nil {
		logger.Printf("No .env file loaded, using existing environment: %v", err)
	}
	return gateway.Config{
		Host:       envOr("DB_HOST", "localhost"),
		Port:       envOr("DB_PORT", "27017"),
		User:       os.Getenv("DB_USER"),
		Password:   os.Getenv("DB_PASSWORD"),
		Database:   envOr("DB_NAME", "smartshark_2_2"),
		AuthSource: os.Getenv("DB_AUTH_SOURCE"),
		SSL:        os.Getenv("DB_SSL") == "true",
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// fileConfig is the optional YAML configuration accepted by the export
// commands.
type fileConfig struct {
	Projects []string `yaml:"projects"`
}

// loadProjectsConfig reads the project list from a YAML config file.
func loadProjectsConfig(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg.Projects, nil
}

// resolveProjects picks the project list for an export: the --projects flag
// wins, then the --config file, then the full dataset.
func resolveProjects(flagProjects []string, configPath string, defaults []string) ([]string, error) {
	if len(flagProjects) > 0 {
		return flagProjects, nil
	}
	if configPath != "" {
		projects, err := loadProjectsConfig(configPath)
		if err != nil {
			return nil, err
		}
		if len(projects) > 0 {
			return projects, nil
		}
	}
	return defaults, nil
}
