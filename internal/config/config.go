package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.dvchat/config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`
	Theme          string `toml:"theme"`
	Delays         Delays `toml:"delays"`
}

// Delays are the simulated backend timings, in milliseconds. Zero
// values select the built-in defaults.
type Delays struct {
	DeliveredMs    int `toml:"delivered_ms"`
	ReadMs         int `toml:"read_ms"`
	ReplyMs        int `toml:"reply_ms"`
	LockoutResetMs int `toml:"lockout_reset_ms"`
}

// Delivered returns the sent->delivered delay.
func (d Delays) Delivered() time.Duration { return time.Duration(d.DeliveredMs) * time.Millisecond }

// Read returns the sent->read delay (measured from post time).
func (d Delays) Read() time.Duration { return time.Duration(d.ReadMs) * time.Millisecond }

// Reply returns the official-chat reply delay.
func (d Delays) Reply() time.Duration { return time.Duration(d.ReplyMs) * time.Millisecond }

// LockoutReset returns how long a verification lockout lasts.
func (d Delays) LockoutReset() time.Duration {
	return time.Duration(d.LockoutResetMs) * time.Millisecond
}

// Load reads config from the given path. Returns zero config and error
// if the file is missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
