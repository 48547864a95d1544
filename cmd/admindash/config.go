package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/admindash/internal/model"
	"github.com/tinytelemetry/admindash/internal/socketrpc"
)

const (
	defaultBindHost     = "127.0.0.1"
	defaultAPIPort      = model.DefaultAPIPort
	defaultQueryTimeout = model.DefaultQueryTimeout
	defaultLogLevel     = model.DefaultLogLevel
	defaultPageSize     = model.DefaultPageSize
)

// appConfig is the service's runtime configuration.
type appConfig struct {
	DBPath       string        `mapstructure:"db-path"`
	APIEnabled   bool          `mapstructure:"api-enabled"`
	APIPort      int           `mapstructure:"api-port"`
	APIAddr      string        `mapstructure:"api-addr"`
	SocketPath   string        `mapstructure:"socket-path"`
	QueryTimeout time.Duration `mapstructure:"query-timeout"`
	LogLevel     string        `mapstructure:"log-level"`
	PageSize     int           `mapstructure:"page-size"`
	ExportDir    string        `mapstructure:"export-dir"`
	ConfigPath   string        `mapstructure:"-"`
}

// loadConfig layers flags over env (ADMINDASH_*) over the config file over
// defaults. flags may be nil.
func loadConfig(configPath string, flags *pflag.FlagSet) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("ADMINDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("db-path", filepath.Join(home, ".local", "share", "admindash", "admindash.duckdb"))
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("api-addr", "")
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())
	v.SetDefault("query-timeout", defaultQueryTimeout)
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("page-size", defaultPageSize)
	v.SetDefault("export-dir", ".")

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
	} else {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.PageSize <= 0 {
		return cfg, fmt.Errorf("invalid page-size: %d", cfg.PageSize)
	}

	cfg.DBPath = expandHome(home, cfg.DBPath)
	cfg.ExportDir = expandHome(home, cfg.ExportDir)
	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}
	return cfg, nil
}

func expandHome(home, path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
