package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "semmap.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/semmap"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Environment variables that override file configuration.
const (
	EnvAPIURL  = "SEMMAP_API_URL"
	EnvNATSURL = "SEMMAP_NATS_URL"
	EnvProject = "SEMMAP_PROJECT"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger  *slog.Logger
	workDir string
	homeDir string
	getenv  func(string) string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, getenv: os.Getenv}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/semmap/config.yaml)
// 3. Project config (semmap.yaml in current or parent directories), or
// explicitPath when given
// 4. Environment variables (SEMMAP_API_URL, SEMMAP_NATS_URL, SEMMAP_PROJECT)
func (l *Loader) Load(explicitPath string) (*Config, error) {
	config := DefaultConfig()

	userConfigPath := l.userConfigPath()
	if userConfigPath != "" {
		if userConfig, err := LoadFromFile(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
			config.Merge(userConfig)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	projectConfigPath := explicitPath
	if projectConfigPath == "" {
		projectConfigPath = l.findProjectConfig()
	}
	if projectConfigPath != "" {
		projectConfig, err := LoadFromFile(projectConfigPath)
		if err != nil {
			if explicitPath != "" {
				return nil, err
			}
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		} else {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
		}
	} else {
		l.logger.Debug("No project config found")
	}

	l.applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't
// exist. It returns the file's path and whether it was created.
func (l *Loader) EnsureUserConfig() (string, bool, error) {
	userConfigPath := l.userConfigPath()
	if userConfigPath == "" {
		return "", false, fmt.Errorf("cannot determine home directory")
	}

	if _, err := os.Stat(userConfigPath); err == nil {
		return userConfigPath, false, nil
	}

	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return "", false, err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return userConfigPath, true, nil
}

func (l *Loader) applyEnv(config *Config) {
	if v := l.getenv(EnvAPIURL); v != "" {
		config.Editor.APIURL = v
	}
	if v := l.getenv(EnvNATSURL); v != "" {
		config.NATS.URL = v
	}
	if v := l.getenv(EnvProject); v != "" {
		config.Project = v
	}
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home := l.homeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for semmap.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	dir := l.workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
