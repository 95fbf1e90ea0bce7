package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("missing file should give defaults, got %+v", cfg)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("backend: osc\ndefaults:\n  bpm: 999\nosc:\n  port: 6010\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != BackendOSC || cfg.OSC.Port != 6010 || cfg.OSC.Host != "127.0.0.1" {
		t.Errorf("backend %s osc %+v", cfg.Backend, cfg.OSC)
	}
	if cfg.Defaults.BPM != 300 {
		t.Errorf("bpm = %d, want clamped to 300", cfg.Defaults.BPM)
	}
	if cfg.Defaults.Bars != 2 || cfg.HistorySize != 20 {
		t.Errorf("unset keys lost their defaults: %+v", cfg)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("limits: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Backend = BackendMIDI
	cfg.MIDI.Port = "IAC Driver Bus 1"
	cfg.MIDI.Kit = "rd8"
	if err := cfg.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestNormalize(t *testing.T) {
	cfg := &Config{
		Limits:      LimitsConfig{MinBPM: 200, MaxBPM: 100},
		Defaults:    DefaultsConfig{Beats: 12},
		Backend:     "jack",
		MIDI:        MIDIConfig{Channel: 40},
		FPS:         -1,
		LookaheadMS: -20,
	}
	cfg.Normalize()
	if cfg.Limits.MinBPM != 40 || cfg.Limits.MaxBPM != 300 {
		t.Errorf("inverted bpm range not reset: %+v", cfg.Limits)
	}
	if cfg.Defaults.Beats != 7 || cfg.Defaults.Bars != 1 || cfg.Defaults.BPM != 40 {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if cfg.Backend != BackendNone || cfg.MIDI.Channel != 16 || cfg.FPS != 60 {
		t.Errorf("backend %s channel %d fps %d", cfg.Backend, cfg.MIDI.Channel, cfg.FPS)
	}
	if cfg.LookaheadMS != 0 {
		t.Errorf("negative lookahead kept: %d", cfg.LookaheadMS)
	}
}
