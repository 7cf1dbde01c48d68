package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "ZIMU"

// loadConfig layers flags over ZIMU_* environment variables over the config
// file. Only an explicitly requested config file has to exist.
func loadConfig(cmd *cobra.Command) error {
	cfg = viper.New()
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()

	if err := cfg.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = os.Getenv(envPrefix + "_CONFIG")
	}
	explicit := configPath != ""
	if !explicit {
		configPath = findConfigFile(defaultConfigPaths())
	}
	if configPath == "" {
		return nil
	}

	cfg.SetConfigFile(configPath)
	if err := cfg.ReadInConfig(); err != nil {
		err = errors.Wrapf(err, "failed to read config file %s", configPath)
		if explicit {
			return errors.WithHint(err, "check the --config path")
		}
		return err
	}
	return nil
}

func defaultConfigPaths() []string {
	var paths []string

	configHome := os.Getenv("XDG_CONFIG_HOME")
	home, _ := os.UserHomeDir()
	if configHome == "" && home != "" {
		configHome = filepath.Join(home, ".config")
	}
	if configHome != "" {
		paths = append(paths, filepath.Join(configHome, "zimu", "config.yaml"))
	}
	if home != "" {
		paths = append(paths, filepath.Join(home, ".zimu.yaml"))
	}
	return paths
}

// first candidate that exists as a regular file, or ""
func findConfigFile(candidates []string) string {
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
