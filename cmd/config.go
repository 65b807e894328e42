/*
Copyright © 2025 Orbis Authors
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"orbis/internal/logger"
	"orbis/store"
	"orbis/types"
)

const (
	configName = ".orbis"
	envPrefix  = "ORBIS"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

var validate = validator.New()

// InitConfig reads in the config file and ENV variables if set.
func InitConfig() {
	// .env first; absence is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g. ORBIS_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")

	projectDir := viper.GetString("project.rootDir")
	if projectDir == "" {
		projectDir = ".orbis"
	}

	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else if _, err := os.Stat(projectDir); !os.IsNotExist(err) {
		// Project-local config takes priority: ./.orbis/.orbis.yaml
		viper.AddConfigPath(projectDir)
		viper.SetConfigName(configName)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	viper.SetDefault("project.rootDir", ".orbis")
	viper.SetDefault("data.backend", "file")
	viper.SetDefault("data.file", "orbis.json")
	viper.SetDefault("data.format", "json")

	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "")
	viper.SetDefault("llm.apiKey", "")
	viper.SetDefault("llm.baseURL", "")
	viper.SetDefault("llm.requestTimeoutSeconds", 120)

	viper.SetDefault("search.braveApiKey", "")
	viper.SetDefault("telegram.botToken", "")
	viper.SetDefault("telegram.port", 8787)
	viper.SetDefault("telemetry.enabled", false)

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}
	if GlobalAppConfig.Project.RootDir == "" {
		GlobalAppConfig.Project.RootDir = viper.GetString("project.rootDir")
	}

	if err := validate.Struct(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}

	logger.SetBasePath(GlobalAppConfig.Project.RootDir)
}

// GetConfig returns the loaded application configuration.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}

// DataFilePath returns the full path to the data file.
func DataFilePath() string {
	cfg := GetConfig()
	return filepath.Join(cfg.Project.RootDir, cfg.Data.File)
}

// GetStore initializes the configured store backend.
func GetStore() (store.Store, error) {
	cfg := GetConfig()

	var s store.Store
	switch cfg.Data.Backend {
	case "sqlite":
		s = store.NewSQLiteStore()
	default:
		s = store.NewFileStore()
	}

	err := s.Initialize(map[string]string{
		"dataFile":       DataFilePath(),
		"dataFileFormat": cfg.Data.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store at %s: %w", DataFilePath(), err)
	}
	return s, nil
}

// newLogger builds the slog logger used by long-running commands.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
