package config

var defaultConfig = Config{
	Wall: Wall{
		SlotWidth:  320,
		SlotHeight: 180,
		Padding:    10,
	},
	Rotation: Rotation{
		Interval: 8,
	},
	Player: Player{
		HWDec: "auto-safe",
		Flags: []string{},
	},
	Sources: []Source{},
}

type Config struct {
	Wall     Wall     `json:"wall" yaml:"wall"`
	Rotation Rotation `json:"rotation" yaml:"rotation"`
	Player   Player   `json:"player" yaml:"player"`
	Sources  []Source `json:"sources" yaml:"sources"`
}

type Wall struct {
	SlotWidth  int `json:"slot_width" yaml:"slot_width"`
	SlotHeight int `json:"slot_height" yaml:"slot_height"`
	Padding    int `json:"padding" yaml:"padding"`
}

type Rotation struct {
	Interval int  `json:"interval" yaml:"interval"` // seconds
	Paused   bool `json:"paused" yaml:"paused"`
}

type Player struct {
	HWDec string   `json:"hwdec" yaml:"hwdec"`
	Flags []string `json:"flags" yaml:"flags"`
}

type Source struct {
	UUID string `json:"uuid" yaml:"uuid"`
	Path string `json:"path" yaml:"path"`
	Kind string `json:"kind" yaml:"kind"` // [auto, photo, video]
}
