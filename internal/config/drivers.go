package config

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/MaTriXy/videowall/internal/core"
	"gopkg.in/yaml.v3"
)

var (
	_ Driver = YAML{}
	_ Driver = JSON{}
	_ Driver = (*Memory)(nil)
)

// readFile decodes the config at filePath, or returns defaults when the file
// does not exist yet.
func readFile(filePath string, decode func(r io.Reader, cfg *Config) error) (Config, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig, nil
		}
		return Config{}, err
	}
	defer file.Close()

	var cfg Config
	if err := decode(file, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// writeFile encodes cfg to a sibling tmp file and renames it into place.
func writeFile(filePath string, cfg Config, encode func(w io.Writer, cfg Config) error) error {
	tmpPath := filePath + ".tmp"

	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if err := encode(file, cfg); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, filePath)
}

func NewYAML(filePath string) YAML {
	return YAML{filePath: filePath}
}

type YAML struct {
	filePath string
}

func (y YAML) Exists() (bool, error) {
	return core.FileExists(y.filePath)
}

func (y YAML) Read() (Config, error) {
	return readFile(y.filePath, func(r io.Reader, cfg *Config) error {
		return yaml.NewDecoder(r).Decode(cfg)
	})
}

func (y YAML) Write(cfg Config) error {
	return writeFile(y.filePath, cfg, func(w io.Writer, cfg Config) error {
		return yaml.NewEncoder(w).Encode(cfg)
	})
}

func NewJSON(filePath string) JSON {
	return JSON{filePath: filePath}
}

type JSON struct {
	filePath string
}

func (j JSON) Exists() (bool, error) {
	return core.FileExists(j.filePath)
}

func (j JSON) Read() (Config, error) {
	return readFile(j.filePath, func(r io.Reader, cfg *Config) error {
		return json.NewDecoder(r).Decode(cfg)
	})
}

func (j JSON) Write(cfg Config) error {
	return writeFile(j.filePath, cfg, func(w io.Writer, cfg Config) error {
		return json.NewEncoder(w).Encode(cfg)
	})
}

// Memory keeps the config in process memory, mainly for tests.
type Memory struct {
	mu     sync.RWMutex
	cfg    Config
	exists bool
}

func (m *Memory) Exists() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exists, nil
}

func (m *Memory) Read() (Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.exists {
		return defaultConfig, nil
	}
	return m.cfg, nil
}

func (m *Memory) Write(cfg Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	m.exists = true
	return nil
}
