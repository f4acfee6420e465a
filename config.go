package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// configFile is the name of the configuration document inside the data directory.
const configFile = "config.json"

// BrokerageConfig holds the credentials of the brokerage account used to
// pull equity positions.
type BrokerageConfig struct {
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
}

// Configured reports whether the credentials are complete enough to log in.
func (b BrokerageConfig) Configured() bool {
	return b.Username != "" && b.Password != ""
}

// Config is the startup configuration document. It is read once and passed
// explicitly to the components that need it; nothing looks it up ambiently.
type Config struct {
	Currency  string          `json:"currency,omitempty"`
	MetalsKey string          `json:"metalsKey,omitempty"`
	Brokerage BrokerageConfig `json:"brokerage,omitempty"`
}

// DefaultConfig returns the configuration used when no document exists.
func DefaultConfig() Config {
	return Config{Currency: "USD"}
}

// LoadConfig reads the configuration document from dir. An absent file
// yields the defaults; an unparseable file is a StoreError{StoreCorrupt}.
func LoadConfig(dir string) (Config, error) {
	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, &StoreError{Kind: StoreNotFound, Path: path, Err: err}
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, &StoreError{Kind: StoreCorrupt, Path: path, Err: err}
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	return cfg, nil
}

// SaveConfig persists the configuration document with the same
// write-to-temp-then-rename discipline as the ledger.
func SaveConfig(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StoreError{Kind: StoreUnwritable, Path: dir, Err: err}
	}
	path := filepath.Join(dir, configFile)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal configuration: %w", err)
	}
	tmp, err := os.CreateTemp(dir, configFile+".tmp-*")
	if err != nil {
		return &StoreError{Kind: StoreUnwritable, Path: dir, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return &StoreError{Kind: StoreUnwritable, Path: tmp.Name(), Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StoreError{Kind: StoreUnwritable, Path: tmp.Name(), Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &StoreError{Kind: StoreUnwritable, Path: path, Err: err}
	}
	return nil
}
