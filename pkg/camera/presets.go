package camera

import "sort"

// Preset names for common configurations
const (
	PresetDefault = "default"
	PresetFast    = "fast"
	Preset720p    = "720p"
	PresetDim     = "dim"
)

// Presets returns all available preset configurations.
func Presets() map[string]Config {
	return map[string]Config{
		PresetDefault: DefaultConfig(),
		PresetFast:    FastConfig(),
		Preset720p:    HD720Config(),
		PresetDim:     DimConfig(),
	}
}

// PresetNames returns the available preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, 4)
	for name := range Presets() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPreset returns a preset config by name, or nil if not found.
func GetPreset(name string) *Config {
	if cfg, ok := Presets()[name]; ok {
		return &cfg
	}
	return nil
}

// FastConfig returns 320x240 at 60 FPS for a slow onboard computer.
// Lane margins in pixels should be halved to match.
func FastConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 320
	cfg.Height = 240
	cfg.Framerate = 60
	return cfg
}

// HD720Config returns 720p for a wide, distant view of the track.
func HD720Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 1280
	cfg.Height = 720
	return cfg
}

// DimConfig raises driver brightness for indoor tracks under poor light.
func DimConfig() Config {
	cfg := DefaultConfig()
	cfg.Framerate = 15 // longer exposure per frame
	cfg.Brightness = 0.7
	return cfg
}
