// Copyright 2025 Skysift Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads the binary's YAML configuration file and applies
// defaults and bounds-clamping. Malformed values clamp; only an unreadable
// or unparseable file is an error.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skysift/apodex/process"
)

// Config is the top-level file shape.
type Config struct {
	Server     Server     `yaml:"server"`
	Storage    Storage    `yaml:"storage"`
	Feed       Feed       `yaml:"feed"`
	AI         AI         `yaml:"ai"`
	Processing Processing `yaml:"processing"`
	LogLevel   string     `yaml:"log_level"`
}

// Server configures the HTTP trigger surface.
type Server struct {
	Addr     string `yaml:"addr"`
	PoolSize int    `yaml:"pool_size"`
}

// Storage configures the on-disk stores.
type Storage struct {
	MetadataPath string `yaml:"metadata_path"`
	BadgerPath   string `yaml:"badger_path"`
}

// Feed configures the APOD API client.
type Feed struct {
	BaseURL       string        `yaml:"base_url"`
	APIKey        string        `yaml:"api_key"`
	BaseDelay     time.Duration `yaml:"base_delay"`
	MaxImageBytes int64         `yaml:"max_image_bytes"`
}

// AI configures the inference endpoints.
type AI struct {
	EmbeddingHost  string `yaml:"embedding_host"`
	ChatHost       string `yaml:"chat_host"`
	EmbeddingModel string `yaml:"embedding_model"`
	CaptionModel   string `yaml:"caption_model"`
	Token          string `yaml:"token"`
}

// Processing mirrors process.Config with YAML tags.
type Processing struct {
	MaxConcurrent  int           `yaml:"max_concurrent"`
	BatchSize      int           `yaml:"batch_size"`
	RetryAttempts  int           `yaml:"retry_attempts"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
	MaxRetryDelay  time.Duration `yaml:"max_retry_delay"`
	BatchDelay     time.Duration `yaml:"batch_delay"`
	ItemTimeout    time.Duration `yaml:"item_timeout"`
	Verbose        bool          `yaml:"verbose"`
}

// ToProcessConfig converts to the processing package's config, clamped.
func (p Processing) ToProcessConfig() process.Config {
	cfg := process.Config{
		MaxConcurrent:  p.MaxConcurrent,
		BatchSize:      p.BatchSize,
		RetryAttempts:  p.RetryAttempts,
		RetryBaseDelay: p.RetryBaseDelay,
		MaxRetryDelay:  p.MaxRetryDelay,
		BatchDelay:     p.BatchDelay,
		ItemTimeout:    p.ItemTimeout,
		Verbose:        p.Verbose,
	}
	cfg.Clamp()
	return cfg
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	pc := process.DefaultConfig()
	return &Config{
		Server: Server{
			Addr:     ":8080",
			PoolSize: 4,
		},
		Storage: Storage{
			MetadataPath: "apodex.db",
			BadgerPath:   "apodex-badger",
		},
		Feed: Feed{
			BaseURL:       "https://api.nasa.gov/planetary/apod",
			APIKey:        "DEMO_KEY",
			BaseDelay:     time.Second,
			MaxImageBytes: 32 << 20,
		},
		AI: AI{
			EmbeddingHost:  "http://localhost:11434",
			ChatHost:       "http://localhost:11434",
			EmbeddingModel: "embeddinggemma",
			CaptionModel:   "llava:13b",
			Token:          "none",
		},
		Processing: Processing{
			MaxConcurrent:  pc.MaxConcurrent,
			BatchSize:      pc.BatchSize,
			RetryAttempts:  pc.RetryAttempts,
			RetryBaseDelay: pc.RetryBaseDelay,
			MaxRetryDelay:  pc.MaxRetryDelay,
			BatchDelay:     pc.BatchDelay,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.clamp()
	return cfg, nil
}

// clamp pulls malformed values back to sane bounds.
func (c *Config) clamp() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.PoolSize < 1 {
		c.Server.PoolSize = 4
	}
	if c.Feed.BaseDelay < 0 {
		c.Feed.BaseDelay = 0
	}
	if c.Feed.MaxImageBytes < 1 {
		c.Feed.MaxImageBytes = 32 << 20
	}
}
