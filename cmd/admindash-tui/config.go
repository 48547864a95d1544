package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/admindash/internal/model"
	"github.com/tinytelemetry/admindash/internal/socketrpc"
)

// cliConfig holds only TUI-relevant configuration.
type cliConfig struct {
	SocketPath         string `mapstructure:"socket-path"`
	LogLevel           string `mapstructure:"log-level"`
	PageSize           int    `mapstructure:"page-size"`
	ReverseScrollWheel bool   `mapstructure:"reverse-scroll-wheel"`
	ExportDir          string `mapstructure:"export-dir"`
	Local              bool   `mapstructure:"local"`
}

func loadCLIConfig(configPath string, flags *pflag.FlagSet) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("ADMINDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())
	v.SetDefault("log-level", model.DefaultLogLevel)
	v.SetDefault("page-size", model.DefaultPageSize)
	v.SetDefault("reverse-scroll-wheel", false)
	v.SetDefault("export-dir", ".")
	v.SetDefault("local", false)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return cfg, fmt.Errorf("binding flags: %w", err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "admindash", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if cfg.PageSize <= 0 {
		return cfg, fmt.Errorf("invalid page-size: %d", cfg.PageSize)
	}
	if strings.HasPrefix(cfg.ExportDir, "~/") {
		cfg.ExportDir = filepath.Join(home, cfg.ExportDir[2:])
	}
	return cfg, nil
}
