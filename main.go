package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"go-stepgrid/config"
	"go-stepgrid/debug"
	"go-stepgrid/engine"
	"go-stepgrid/midi"
	"go-stepgrid/osc"
	"go-stepgrid/sequencer"
	"go-stepgrid/theme"
	"go-stepgrid/tui"
)

var (
	Version = "dev"

	// Command-line configuration
	flags struct {
		config   string
		log      string
		palette  string
		backend  string
		midiPort string
		channel  int
		kit      string
		oscHost  string
		oscPort  int
		bpm      int
		bars     int
		beats    int
		noPads   bool
	}
)

var rootCmd = &cobra.Command{
	Use:   "go-stepgrid",
	Short: "A terminal step sequencer for drum samples",
	Long: `go-stepgrid is a grid step sequencer. Each track is a row of steps holding
sample names; the grid is compiled into a looping pattern and played through
MIDI (drum kit notes) or OSC (SuperDirt).`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         runSequencer,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI output ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := midi.OutPortNames()
		if len(names) == 0 {
			fmt.Println("no MIDI output ports")
			return nil
		}
		for i, n := range names {
			fmt.Printf("%d: %s\n", i, n)
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		if err := config.DefaultConfig().SaveFile(path); err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "",
		"Config file (default ~/.config/go-stepgrid/config.yaml)")
	pf.StringVarP(&flags.log, "log", "l", "",
		"Write debug logs to specified file (empty disables)")

	f := rootCmd.Flags()
	f.StringVar(&flags.palette, "palette", "", "GIMP palette file for the UI colors")
	f.StringVarP(&flags.backend, "backend", "b", "", "Output backend: none, midi or osc")
	f.StringVar(&flags.midiPort, "midi-port", "", "MIDI output port name (substring match)")
	f.IntVar(&flags.channel, "channel", 0, "MIDI channel 1-16")
	f.StringVar(&flags.kit, "kit", "", "Drum kit mapping: "+fmt.Sprint(midi.KitNames()))
	f.StringVar(&flags.oscHost, "osc-host", "", "SuperDirt host")
	f.IntVar(&flags.oscPort, "osc-port", 0, "SuperDirt port")
	f.IntVar(&flags.bpm, "bpm", 0, "Starting tempo")
	f.IntVar(&flags.bars, "bars", 0, "Starting bar count")
	f.IntVar(&flags.beats, "beats", 0, "Starting beats per bar")
	f.BoolVar(&flags.noPads, "no-launchpad", false, "Do not look for a Launchpad")

	rootCmd.AddCommand(portsCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configPath() (string, error) {
	if flags.config != "" {
		return flags.config, nil
	}
	return config.ConfigPath()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	// Flags the user set win over the file
	f := cmd.Flags()
	if f.Changed("backend") {
		cfg.Backend = config.Backend(flags.backend)
	}
	if f.Changed("midi-port") {
		cfg.MIDI.Port = flags.midiPort
	}
	if f.Changed("channel") {
		cfg.MIDI.Channel = flags.channel
	}
	if f.Changed("kit") {
		cfg.MIDI.Kit = flags.kit
	}
	if f.Changed("osc-host") {
		cfg.OSC.Host = flags.oscHost
	}
	if f.Changed("osc-port") {
		cfg.OSC.Port = flags.oscPort
	}
	if f.Changed("bpm") {
		cfg.Defaults.BPM = flags.bpm
	}
	if f.Changed("bars") {
		cfg.Defaults.Bars = flags.bars
	}
	if f.Changed("beats") {
		cfg.Defaults.Beats = flags.beats
	}
	if flags.noPads {
		cfg.Launchpad = false
	}
	cfg.Normalize()
	return cfg, nil
}

// newEngine builds the playback engine with the configured output
func newEngine(cfg *config.Config) (*engine.Engine, string, error) {
	eng := engine.New(engine.WithLookahead(time.Duration(cfg.LookaheadMS) * time.Millisecond))
	latency := time.Duration(cfg.LatencyMS) * time.Millisecond

	switch cfg.Backend {
	case config.BackendMIDI:
		if cfg.MIDI.Port == "" {
			return nil, "", errors.New("midi backend needs --midi-port (see `go-stepgrid ports`)")
		}
		out, err := midi.OpenOutput(cfg.MIDI.Port, cfg.MIDI.Channel, cfg.MIDI.Kit)
		if err != nil {
			return nil, "", err
		}
		eng.AddOutput(out)
		return eng, fmt.Sprintf("midi ch%d %s", cfg.MIDI.Channel, cfg.MIDI.Kit), nil

	case config.BackendOSC:
		eng.AddOutput(osc.Dial(cfg.OSC.Host, cfg.OSC.Port, latency))
		return eng, fmt.Sprintf("osc %s:%d", cfg.OSC.Host, cfg.OSC.Port), nil
	}
	return eng, "silent", nil
}

func loadTheme() (*theme.Theme, error) {
	if flags.palette == "" {
		return theme.New(theme.DefaultPalette()), nil
	}
	p, err := theme.LoadGPL(flags.palette)
	if err != nil {
		return nil, err
	}
	return theme.New(p), nil
}

func runSequencer(cmd *cobra.Command, args []string) error {
	if flags.log != "" {
		if err := debug.Enable(flags.log); err != nil {
			return err
		}
		defer debug.Disable()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if debug.Enabled() {
		if data, err := yaml.Marshal(cfg); err == nil {
			debug.Log("main", "config:\n%s", data)
		}
	}
	th, err := loadTheme()
	if err != nil {
		return err
	}

	eng, label, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()
	debug.Log("main", "backend=%s bpm=%d bars=%d beats=%d", label, cfg.Defaults.BPM, cfg.Defaults.Bars, cfg.Defaults.Beats)

	mgr := sequencer.NewManager(sequencer.Options{
		Limits: sequencer.Limits{
			MinBPM: cfg.Limits.MinBPM, MaxBPM: cfg.Limits.MaxBPM,
			MinBars: cfg.Limits.MinBars, MaxBars: cfg.Limits.MaxBars,
			MinBeats: cfg.Limits.MinBeats, MaxBeats: cfg.Limits.MaxBeats,
			MinTracks: cfg.Limits.MinTracks, MaxTracks: cfg.Limits.MaxTracks,
		},
		Bars:        cfg.Defaults.Bars,
		BeatsPerBar: cfg.Defaults.Beats,
		BPM:         cfg.Defaults.BPM,
		HistorySize: cfg.HistorySize,
	})
	mgr.Bind(eng, eng)
	defer mgr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Grid controllers are hot-plugged in the background
	var devices *midi.DeviceManager
	if cfg.Launchpad {
		devices = midi.NewDeviceManager()
		go devices.Run(ctx)
	}

	m := tui.NewModel(ctx, mgr, th, tui.Options{
		FPS:       cfg.FPS,
		BPMStep:   cfg.Limits.BPMStep,
		Backend:   label,
		Devices:   devices,
		Launchpad: cfg.Launchpad,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "tui")
	}
	return nil
}
