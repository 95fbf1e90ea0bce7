package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Backend selects where notes are sent
type Backend string

const (
	BackendNone Backend = "none"
	BackendMIDI Backend = "midi"
	BackendOSC  Backend = "osc"
)

// LimitsConfig bounds the editable values
type LimitsConfig struct {
	MinBPM    int `yaml:"minBpm"`
	MaxBPM    int `yaml:"maxBpm"`
	BPMStep   int `yaml:"bpmStep"`
	MinBars   int `yaml:"minBars"`
	MaxBars   int `yaml:"maxBars"`
	MinBeats  int `yaml:"minBeats"`
	MaxBeats  int `yaml:"maxBeats"`
	MinTracks int `yaml:"minTracks"`
	MaxTracks int `yaml:"maxTracks"`
}

// DefaultsConfig is the state a new session starts with
type DefaultsConfig struct {
	BPM   int `yaml:"bpm"`
	Bars  int `yaml:"bars"`
	Beats int `yaml:"beats"`
}

// MIDIConfig defines the MIDI output
type MIDIConfig struct {
	Port    string `yaml:"port,omitempty"`
	Channel int    `yaml:"channel"` // 1-16
	Kit     string `yaml:"kit"`
}

// OSCConfig defines the SuperDirt endpoint
type OSCConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Config is the main configuration structure
type Config struct {
	Limits      LimitsConfig   `yaml:"limits"`
	Defaults    DefaultsConfig `yaml:"defaults"`
	HistorySize int            `yaml:"historySize"`
	Backend     Backend        `yaml:"backend"`
	MIDI        MIDIConfig     `yaml:"midi"`
	OSC         OSCConfig      `yaml:"osc"`
	FPS         int            `yaml:"fps"`
	LatencyMS   int            `yaml:"latencyMs"`
	LookaheadMS int            `yaml:"lookaheadMs"`
	Launchpad   bool           `yaml:"launchpad"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			MinBPM: 40, MaxBPM: 300, BPMStep: 5,
			MinBars: 1, MaxBars: 16,
			MinBeats: 2, MaxBeats: 7,
			MinTracks: 1, MaxTracks: 8,
		},
		Defaults:    DefaultsConfig{BPM: 120, Bars: 2, Beats: 4},
		HistorySize: 20,
		Backend:     BackendNone,
		MIDI:        MIDIConfig{Channel: 10, Kit: "gm"},
		OSC:         OSCConfig{Host: "127.0.0.1", Port: 57120},
		FPS:         60,
		LatencyMS:   100,
		LookaheadMS: 50,
		Launchpad:   true,
	}
}

// Normalize repairs out-of-range values in place
func (c *Config) Normalize() {
	d := DefaultConfig()
	l := &c.Limits
	fixRange(&l.MinBPM, &l.MaxBPM, d.Limits.MinBPM, d.Limits.MaxBPM, 1)
	fixRange(&l.MinBars, &l.MaxBars, d.Limits.MinBars, d.Limits.MaxBars, 1)
	fixRange(&l.MinBeats, &l.MaxBeats, d.Limits.MinBeats, d.Limits.MaxBeats, 1)
	fixRange(&l.MinTracks, &l.MaxTracks, d.Limits.MinTracks, d.Limits.MaxTracks, 1)
	if l.BPMStep <= 0 {
		l.BPMStep = d.Limits.BPMStep
	}

	c.Defaults.BPM = clamp(c.Defaults.BPM, l.MinBPM, l.MaxBPM)
	c.Defaults.Bars = clamp(c.Defaults.Bars, l.MinBars, l.MaxBars)
	c.Defaults.Beats = clamp(c.Defaults.Beats, l.MinBeats, l.MaxBeats)

	if c.HistorySize <= 0 {
		c.HistorySize = d.HistorySize
	}
	switch c.Backend {
	case BackendNone, BackendMIDI, BackendOSC:
	default:
		c.Backend = BackendNone
	}
	c.MIDI.Channel = clamp(c.MIDI.Channel, 1, 16)
	if c.MIDI.Kit == "" {
		c.MIDI.Kit = d.MIDI.Kit
	}
	if c.OSC.Host == "" {
		c.OSC.Host = d.OSC.Host
	}
	if c.OSC.Port <= 0 || c.OSC.Port > 65535 {
		c.OSC.Port = d.OSC.Port
	}
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
	c.FPS = clamp(c.FPS, 1, 240)
	if c.LatencyMS < 0 {
		c.LatencyMS = 0
	}
	if c.LookaheadMS < 0 {
		c.LookaheadMS = 0
	}
}

// fixRange resets a min/max pair to defaults if it is unusable
func fixRange(lo, hi *int, defLo, defHi, floor int) {
	if *lo < floor || *hi < *lo {
		*lo, *hi = defLo, defHi
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "home directory")
	}
	return filepath.Join(home, ".config", "go-stepgrid"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. A leading ~ is expanded. Missing keys keep
// their default values.
func LoadFile(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "expand %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return errors.Wrapf(err, "expand %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create config dir")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}
