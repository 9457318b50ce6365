package config

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/yumyai/termclust/internal/util"
	"github.com/yumyai/termclust/pkg/cluster"
)

const (
	EnvDataDir    = "TERMCLUST_DATA"
	EnvDBPath     = "TERMCLUST_DB"
	EnvAddr       = "TERMCLUST_ADDR"
	EnvLogLevel   = "TERMCLUST_LOG_LEVEL"
	EnvConfigFile = "TERMCLUST_CONFIG"

	EnvSimilarityThreshold = "TERMCLUST_SIMILARITY_THRESHOLD"
	EnvMinClusterSize      = "TERMCLUST_MIN_CLUSTER_SIZE"
	EnvMaxClusterSize      = "TERMCLUST_MAX_CLUSTER_SIZE"
)

type Config struct {
	DataDir    string         `yaml:"data_dir"`
	DBPath     string         `yaml:"db_path"`
	Addr       string         `yaml:"addr"`
	LogLevel   string         `yaml:"log_level"`
	Clustering cluster.Config `yaml:"clustering"`
}

func Default() Config {
	return Config{
		DataDir:    "./data",
		Addr:       "0.0.0.0:8080",
		LogLevel:   "info",
		Clustering: cluster.DefaultConfig(),
	}
}

// Load resolves configuration: built-in defaults, then the YAML file named by
// TERMCLUST_CONFIG, then environment variables. getenv is usually os.Getenv.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if file := getenv(EnvConfigFile); file != "" {
		if !util.FileExists(file) {
			return cfg, fmt.Errorf("config file %s: %w", file, os.ErrNotExist)
		}
		if err := loadYAML(file, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvSimilarityThreshold); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvSimilarityThreshold, err)
		}
		cfg.Clustering.SimilarityThreshold = f
	}
	if v := getenv(EnvMinClusterSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvMinClusterSize, err)
		}
		cfg.Clustering.MinClusterSize = n
	}
	if v := getenv(EnvMaxClusterSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvMaxClusterSize, err)
		}
		cfg.Clustering.MaxClusterSize = n
	}

	if cfg.DBPath == "" {
		cfg.DBPath = path.Join(cfg.DataDir, "db/enrichment.db")
	}

	if err := cfg.Clustering.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadYAML(file string, cfg *Config) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read config %s: %w", file, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", file, err)
	}
	return nil
}
