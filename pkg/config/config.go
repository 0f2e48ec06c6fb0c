// Package config loads cmd/chessroomd's runtime configuration from flags,
// environment variables and an optional YAML file, following the layered
// precedence (YAML file < environment < flags) common across the example
// pack's own server binaries.
package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every knob spec.md's Configuration section names.
type Config struct {
	// Port is the HTTP listen port for the WebSocket upgrade endpoint.
	Port int `yaml:"port"`

	// Silent suppresses per-move informational logging.
	Silent bool `yaml:"silent"`

	// Verbose additionally logs every received instruction.
	Verbose bool `yaml:"verbose"`

	// FanoutCapacity is the bounded per-subscriber snapshot channel size.
	FanoutCapacity int `yaml:"fanout_capacity"`

	// ReapIntervalSeconds paces the ambient idle-room GC. Zero disables it.
	ReapIntervalSeconds int `yaml:"reap_interval_seconds"`
}

const (
	defaultPort           = 8080
	defaultFanoutCapacity = 100
	defaultReapInterval   = 300
)

// Default returns the configuration spec.md's Configuration section
// describes as the out-of-the-box behavior.
func Default() Config {
	return Config{
		Port:                defaultPort,
		FanoutCapacity:      defaultFanoutCapacity,
		ReapIntervalSeconds: defaultReapInterval,
	}
}

// Load resolves Config from, in increasing precedence: Default(), an
// optional YAML file (path from --config or the CHESSROOM_CONFIG
// environment variable), the PORT environment variable, then command-line
// flags. Flags take final precedence, matching the teacher's cmd/ binaries'
// own flag.Parse()-is-authoritative convention.
func Load(args []string) (Config, error) {
	cfg := Default()

	configPath := os.Getenv("CHESSROOM_CONFIG")

	fs := flag.NewFlagSet("chessroomd", flag.ContinueOnError)
	port := fs.Int("port", cfg.Port, "HTTP listen port")
	silent := fs.Bool("silent", cfg.Silent, "Suppress per-move logging")
	verbose := fs.Bool("verbose", cfg.Verbose, "Log every received instruction")
	fanout := fs.Int("fanout-capacity", cfg.FanoutCapacity, "Per-subscriber snapshot channel capacity")
	reap := fs.Int("reap-interval", cfg.ReapIntervalSeconds, "Idle-room reap interval, in seconds (0 disables)")
	fs.StringVar(&configPath, "config", configPath, "Path to an optional YAML config file")

	// A first pass resolves --config before YAML values are applied, so
	// flags parsed below still win over whatever the file set.
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if configPath != "" {
		fromFile, err := loadYAML(configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = fromFile
	}

	if v, ok := os.LookupEnv("PORT"); ok {
		var p int
		if _, err := fmt.Sscanf(v, "%d", &p); err == nil {
			cfg.Port = p
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "silent":
			cfg.Silent = *silent
		case "verbose":
			cfg.Verbose = *verbose
		case "fanout-capacity":
			cfg.FanoutCapacity = *fanout
		case "reap-interval":
			cfg.ReapIntervalSeconds = *reap
		}
	})

	return cfg, nil
}

func loadYAML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %v: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %v: %w", path, err)
	}
	return cfg, nil
}
