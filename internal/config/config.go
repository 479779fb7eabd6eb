package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const Version = "v1.0.0"

// Keys accepted by Set and `pyscaffold config set`.
const (
	KeySecretSource  = "secret_source"
	KeyPythonPath    = "python_path"
	KeySecretTimeout = "secret_timeout"
	KeyDefaultFlavor = "default_flavor"
	KeyOutputDir     = "output_dir"
	KeyHistory       = "history"
	KeyEditorTheme   = "editor_theme"
	KeyPythonVersion = "python_version"
)

type Config struct {
	SecretSource  string        `mapstructure:"secret_source"` // "python" or "rand"
	PythonPath    string        `mapstructure:"python_path"`
	SecretTimeout time.Duration `mapstructure:"secret_timeout"`
	DefaultFlavor string        `mapstructure:"default_flavor"`
	OutputDir     string        `mapstructure:"output_dir"`
	History       bool          `mapstructure:"history"`
	EditorTheme   string        `mapstructure:"editor_theme"`
	PythonVersion string        `mapstructure:"python_version"`
}

var v = newViper()

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(".pyscaffold")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PYSCAFFOLD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeySecretSource, "python")
	v.SetDefault(KeyPythonPath, "")
	v.SetDefault(KeySecretTimeout, 15*time.Second)
	v.SetDefault(KeyDefaultFlavor, "django")
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyHistory, true)
	v.SetDefault(KeyEditorTheme, "monokai")
	v.SetDefault(KeyPythonVersion, "3.13")
	return v
}

// LoadConfig reads ~/.pyscaffold.yaml (a missing file is fine) and applies
// PYSCAFFOLD_* environment overrides.
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(home)
}

// LoadFrom is LoadConfig with the directory holding .pyscaffold.yaml given.
func LoadFrom(dir string) (*Config, error) {
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig validates and persists one key.
func SaveConfig(key string, value string) error {
	if err := Set(key, value); err != nil {
		return err
	}
	return Write()
}

func Write() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return WriteTo(filepath.Join(home, ".pyscaffold.yaml"))
}

func WriteTo(path string) error {
	return v.WriteConfigAs(path)
}

// Set stores value under key after checking it parses.
func Set(key, value string) error {
	switch key {
	case KeySecretSource:
		if value != "python" && value != "rand" {
			return fmt.Errorf("%s must be python or rand, got %q", key, value)
		}
	case KeyDefaultFlavor:
		if value != "django" && value != "fastapi" {
			return fmt.Errorf("%s must be django or fastapi, got %q", key, value)
		}
	case KeySecretTimeout:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	case KeyHistory:
		if value != "true" && value != "false" {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		v.Set(key, value == "true")
		return nil
	case KeyPythonPath, KeyOutputDir, KeyEditorTheme, KeyPythonVersion:
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	v.Set(key, value)
	return nil
}

// Keys lists the settable keys.
func Keys() []string {
	return []string{
		KeySecretSource, KeyPythonPath, KeySecretTimeout, KeyDefaultFlavor,
		KeyOutputDir, KeyHistory, KeyEditorTheme, KeyPythonVersion,
	}
}

func GetString(key string) string {
	return v.GetString(key)
}
