package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewStoreWritesDefaults(t *testing.T) {
	driver := &Memory{}

	store, err := NewStore(driver)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	exists, err := driver.Exists()
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("Exists() = false after NewStore, want true")
	}

	cfg, err := store.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if cfg.Wall != defaultConfig.Wall {
		t.Errorf("GetConfig().Wall = %+v, want %+v", cfg.Wall, defaultConfig.Wall)
	}
	if cfg.Rotation != defaultConfig.Rotation {
		t.Errorf("GetConfig().Rotation = %+v, want %+v", cfg.Rotation, defaultConfig.Rotation)
	}
}

func TestStoreNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want func(t *testing.T, cfg Config)
	}{
		{
			name: "clamps wall and rotation",
			in: Config{
				Wall:     Wall{SlotWidth: 0, SlotHeight: -5, Padding: 10},
				Rotation: Rotation{Interval: 0},
			},
			want: func(t *testing.T, cfg Config) {
				if cfg.Wall.SlotWidth != 320 || cfg.Wall.SlotHeight != 180 {
					t.Errorf("Wall = %+v, want defaults for width and height", cfg.Wall)
				}
				if cfg.Wall.Padding != 10 {
					t.Errorf("Wall.Padding = %d, want 10 left untouched", cfg.Wall.Padding)
				}
				if cfg.Rotation.Interval != 8 {
					t.Errorf("Rotation.Interval = %d, want 8", cfg.Rotation.Interval)
				}
			},
		},
		{
			name: "keeps valid values",
			in: Config{
				Wall:     Wall{SlotWidth: 640, SlotHeight: 360, Padding: 4},
				Rotation: Rotation{Interval: 30, Paused: true},
				Player:   Player{HWDec: "vaapi"},
			},
			want: func(t *testing.T, cfg Config) {
				if cfg.Wall != (Wall{SlotWidth: 640, SlotHeight: 360, Padding: 4}) {
					t.Errorf("Wall = %+v, want unchanged", cfg.Wall)
				}
				if cfg.Rotation != (Rotation{Interval: 30, Paused: true}) {
					t.Errorf("Rotation = %+v, want unchanged", cfg.Rotation)
				}
				if cfg.Player.HWDec != "vaapi" {
					t.Errorf("Player.HWDec = %q, want %q", cfg.Player.HWDec, "vaapi")
				}
			},
		},
		{
			name: "fills source uuids and kinds",
			in: Config{
				Wall:     defaultConfig.Wall,
				Rotation: defaultConfig.Rotation,
				Sources: []Source{
					{Path: "/media/photos"},
					{UUID: "keep-me", Path: "rtsp://cam1/main", Kind: "video"},
					{Path: "/media/misc", Kind: "bogus"},
				},
			},
			want: func(t *testing.T, cfg Config) {
				if cfg.Sources[0].UUID == "" {
					t.Error("Sources[0].UUID is empty, want generated")
				}
				if cfg.Sources[0].Kind != "auto" {
					t.Errorf("Sources[0].Kind = %q, want %q", cfg.Sources[0].Kind, "auto")
				}
				if cfg.Sources[1].UUID != "keep-me" || cfg.Sources[1].Kind != "video" {
					t.Errorf("Sources[1] = %+v, want unchanged", cfg.Sources[1])
				}
				if cfg.Sources[2].Kind != "auto" {
					t.Errorf("Sources[2].Kind = %q, want %q", cfg.Sources[2].Kind, "auto")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			driver := &Memory{}
			if err := driver.Write(tc.in); err != nil {
				t.Fatalf("Write: %v", err)
			}

			store, err := NewStore(driver)
			if err != nil {
				t.Fatalf("NewStore: %v", err)
			}
			if err := store.Normalize(); err != nil {
				t.Fatalf("Normalize: %v", err)
			}

			cfg, err := store.GetConfig()
			if err != nil {
				t.Fatalf("GetConfig: %v", err)
			}
			tc.want(t, cfg)
		})
	}
}

func TestDriverRoundTrip(t *testing.T) {
	in := Config{
		Wall:     Wall{SlotWidth: 480, SlotHeight: 270, Padding: 8},
		Rotation: Rotation{Interval: 15},
		Player:   Player{HWDec: "auto-safe", Flags: []string{"--mute=yes"}},
		Sources: []Source{
			{UUID: "a", Path: "/media/wall", Kind: "auto"},
			{UUID: "b", Path: "rtsp://cam1/main", Kind: "video"},
		},
	}

	tests := []struct {
		name   string
		driver func(filePath string) Driver
	}{
		{"yaml", func(filePath string) Driver { return NewYAML(filePath) }},
		{"json", func(filePath string) Driver { return NewJSON(filePath) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			filePath := filepath.Join(t.TempDir(), "config."+tc.name)
			driver := tc.driver(filePath)

			exists, err := driver.Exists()
			if err != nil {
				t.Fatalf("Exists: %v", err)
			}
			if exists {
				t.Fatal("Exists() = true before any write, want false")
			}

			if err := driver.Write(in); err != nil {
				t.Fatalf("Write: %v", err)
			}

			got, err := driver.Read()
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if got.Wall != in.Wall || got.Rotation != in.Rotation {
				t.Errorf("Read() = %+v, want %+v", got, in)
			}
			if len(got.Sources) != len(in.Sources) {
				t.Fatalf("Read() has %d sources, want %d", len(got.Sources), len(in.Sources))
			}
			for i := range in.Sources {
				if got.Sources[i] != in.Sources[i] {
					t.Errorf("Sources[%d] = %+v, want %+v", i, got.Sources[i], in.Sources[i])
				}
			}

			// The write must go through a tmp file that gets renamed away.
			if _, err := os.Stat(filePath + ".tmp"); !os.IsNotExist(err) {
				t.Errorf("tmp file still present after Write: %v", err)
			}
		})
	}
}

func TestDriverReadMissingFileReturnsDefaults(t *testing.T) {
	driver := NewYAML(filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := driver.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cfg.Wall != defaultConfig.Wall {
		t.Errorf("Read() on a missing file = %+v, want defaults", cfg)
	}
}
