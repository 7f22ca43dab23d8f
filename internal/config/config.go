package config

import "github.com/google/uuid"

// Driver persists one Config.
type Driver interface {
	Exists() (bool, error)
	Read() (Config, error)
	Write(config Config) error
}

// NewStore wraps driver, seeding it with defaults on first use.
func NewStore(driver Driver) (Store, error) {
	exists, err := driver.Exists()
	if err != nil {
		return Store{}, err
	}
	if !exists {
		if err := driver.Write(defaultConfig); err != nil {
			return Store{}, err
		}
	}

	return Store{driver: driver}, nil
}

type Store struct {
	driver Driver
}

func (s *Store) GetConfig() (Config, error) {
	return s.driver.Read()
}

// UpdateConfig applies fn to the current config and writes the result back.
func (s *Store) UpdateConfig(fn func(cfg Config) (Config, error)) error {
	cfg, err := s.driver.Read()
	if err != nil {
		return err
	}

	cfg, err = fn(cfg)
	if err != nil {
		return err
	}

	return s.driver.Write(cfg)
}

// Normalize assigns UUIDs to sources that are missing them and resets out of
// range wall and rotation values back to their defaults.
func (s *Store) Normalize() error {
	return s.UpdateConfig(func(cfg Config) (Config, error) {
		if cfg.Wall.SlotWidth <= 0 {
			cfg.Wall.SlotWidth = defaultConfig.Wall.SlotWidth
		}
		if cfg.Wall.SlotHeight <= 0 {
			cfg.Wall.SlotHeight = defaultConfig.Wall.SlotHeight
		}
		if cfg.Wall.Padding <= 0 {
			cfg.Wall.Padding = defaultConfig.Wall.Padding
		}
		if cfg.Rotation.Interval <= 0 {
			cfg.Rotation.Interval = defaultConfig.Rotation.Interval
		}
		if cfg.Player.HWDec == "" {
			cfg.Player.HWDec = defaultConfig.Player.HWDec
		}

		for i := range cfg.Sources {
			if cfg.Sources[i].UUID == "" {
				cfg.Sources[i].UUID = uuid.NewString()
			}
			switch cfg.Sources[i].Kind {
			case "photo", "video":
			default:
				cfg.Sources[i].Kind = "auto"
			}
		}

		return cfg, nil
	})
}
