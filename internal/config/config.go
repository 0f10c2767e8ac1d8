// Package config loads the YAML run configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/benchlab.yaml"

type Config struct {
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Command   CommandConfig   `yaml:"command"`
	Output    OutputConfig    `yaml:"output"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
}

type BenchmarkConfig struct {
	Name        string        `yaml:"name,omitempty"`
	Dataset     string        `yaml:"dataset"`
	InstanceIDs []string      `yaml:"instance_ids,omitempty"`
	NInstance   int           `yaml:"n_instance,omitempty"`
	Attempts    int           `yaml:"attempts,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Metrics     []string      `yaml:"metrics"`
	Aggregators []string      `yaml:"aggregators"`
}

// CommandConfig describes the callable under test: a subprocess that
// receives one instance as JSON on stdin and prints its response.
type CommandConfig struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args,omitempty"`
}

type OutputConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "none"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	if cfg.Benchmark.Attempts <= 0 {
		cfg.Benchmark.Attempts = 1
	}
	if len(cfg.Benchmark.Metrics) == 0 {
		cfg.Benchmark.Metrics = []string{"exact_match"}
	}
	if len(cfg.Benchmark.Aggregators) == 0 {
		cfg.Benchmark.Aggregators = []string{"runtimes", "status"}
	}
	if strings.TrimSpace(cfg.Output.Dir) == "" {
		cfg.Output.Dir = "artifacts"
	}
	if strings.TrimSpace(cfg.Storage.Type) == "" {
		cfg.Storage.Type = "sqlite"
	}
	if strings.TrimSpace(cfg.Storage.Path) == "" {
		cfg.Storage.Path = "benchlab.db"
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = ":8080"
	}

	if v := strings.TrimSpace(os.Getenv("BENCHLAB_DB_PATH")); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("BENCHLAB_ADDR")); v != "" {
		cfg.Server.Addr = v
	}

	return &cfg, nil
}
