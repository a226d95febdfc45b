package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/loykin/upmon/internal/logger"
	"github.com/loykin/upmon/internal/service"
	"github.com/spf13/viper"
)

// DefaultInterval is the poll interval used when the config does not set one.
const DefaultInterval = 30 * time.Second

// Loader error kinds. The poller distinguishes a missing file from a
// malformed one only for logging; both degrade to zero lookups for the cycle.
var (
	ErrNotFound = errors.New("config file not found")
	ErrParse    = errors.New("config file malformed")
)

// FileConfig represents the top-level TOML structure.
type FileConfig struct {
	Interval time.Duration   `toml:"interval" mapstructure:"interval"`
	Server   *ServerConfig   `toml:"server" mapstructure:"server"`
	Log      *logger.Config  `toml:"log" mapstructure:"log"`
	History  *HistoryConfig  `toml:"history" mapstructure:"history"`
	Services []ServiceConfig `toml:"services" mapstructure:"services"`
}

type ServerConfig struct {
	Listen   string `toml:"listen" mapstructure:"listen"`
	BasePath string `toml:"base_path" mapstructure:"base_path"`
}

type HistoryConfig struct {
	DSN   string `toml:"dsn" mapstructure:"dsn"`
	Table string `toml:"table" mapstructure:"table"`
}

// ServiceConfig is one [[services]] lookup entry.
type ServiceConfig struct {
	Name         string   `toml:"name" mapstructure:"name"`
	Description  string   `toml:"description" mapstructure:"description"`
	AppIcon      string   `toml:"app_icon" mapstructure:"app_icon"`
	ProcessID    int32    `toml:"process_id" mapstructure:"process_id"`
	ProcessNames []string `toml:"process_names" mapstructure:"process_names"`
}

// Load parses the TOML config file. A missing file yields ErrNotFound and
// malformed content yields ErrParse, both wrapped with detail.
func Load(path string) (*FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	if fc.Interval <= 0 {
		fc.Interval = DefaultInterval
	}
	return &fc, nil
}

// Lookups converts the [[services]] entries into lookup rules.
func (fc *FileConfig) Lookups() []service.Lookup {
	out := make([]service.Lookup, 0, len(fc.Services))
	for _, sc := range fc.Services {
		out = append(out, service.Lookup{
			Name:         sc.Name,
			Description:  sc.Description,
			AppIcon:      sc.AppIcon,
			ProcessID:    sc.ProcessID,
			ProcessNames: sc.ProcessNames,
		})
	}
	return out
}

// LoadLookups parses the config file and returns only the lookup rules.
func LoadLookups(path string) ([]service.Lookup, error) {
	fc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return fc.Lookups(), nil
}

// FileSource reloads lookups from a config file; the poller calls Load once
// per cycle so config edits take effect without a restart.
type FileSource struct {
	Path string
}

func (s FileSource) Load() ([]service.Lookup, error) {
	return LoadLookups(s.Path)
}
