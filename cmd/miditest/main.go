package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go-stepgrid/engine"
	"go-stepgrid/midi"
	"go-stepgrid/pattern"
	"go-stepgrid/sequencer"
	"go-stepgrid/theme"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		listPorts()
	case "note":
		err = playTest(os.Args[2:])
	case "leds":
		err = testLEDs()
	case "poll":
		pollDevices()
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                - List MIDI output ports")
	fmt.Println("  note PORT [KIT]     - Play one bar of kick/snare/hat")
	fmt.Println("  leds                - Paint sample colors on a Launchpad")
	fmt.Println("  poll                - Watch for Launchpad hot-plug")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")
	names := midi.OutPortNames()
	if names == nil {
		fmt.Println("\nNo ports, or CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, n := range names {
		fmt.Printf("  %d: %s\n", i, n)
	}
}

func playTest(args []string) error {
	if len(args) < 1 {
		usage()
		return nil
	}
	kit := midi.DefaultKit
	if len(args) > 1 {
		kit = args[1]
	}

	out, err := midi.OpenOutput(args[0], 10, kit)
	if err != nil {
		return err
	}
	eng := engine.New(engine.WithOutput(out))
	defer eng.Close()

	p, err := pattern.Mini("[bd hh sd hh bd bd sd hh]")
	if err != nil {
		return err
	}
	cps := sequencer.CyclesPerSecond(120, 4)
	if err := eng.SetPattern(p.Legato(1).CPS(cps)); err != nil {
		return err
	}
	eng.SetRate(cps)
	for _, s := range []string{"bd", "sd", "hh"} {
		fmt.Printf("  %-3s -> note %d (%s)\n", s, out.Kit().Note(s), kit)
	}

	fmt.Println("Playing one bar at 120bpm...")
	eng.Start()
	time.Sleep(time.Duration(float64(time.Second) / cps))
	eng.Stop()
	fmt.Println("Done!")
	return nil
}

func waitForLaunchpad(ctx context.Context, dm *midi.DeviceManager) midi.Controller {
	for {
		select {
		case ev, ok := <-dm.Events():
			if !ok {
				return nil
			}
			if ev.Type == midi.DeviceConnected {
				return ev.Controller
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func testLEDs() error {
	fmt.Println("Looking for Launchpad...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dm := midi.NewDeviceManager()
	go dm.Run(ctx)

	lp := waitForLaunchpad(ctx, dm)
	if lp == nil {
		fmt.Println("No Launchpad found")
		return nil
	}
	fmt.Printf("Using %s\n", lp.ID())

	// One sample color per pad, library order from the bottom left
	th := theme.New(theme.DefaultPalette())
	samples := sequencer.AllSamples()
	var updates []midi.LEDUpdate
	for i := 0; i < midi.GridRows*midi.GridCols && i < len(samples); i++ {
		updates = append(updates, midi.LEDUpdate{
			Row:   i / midi.GridCols,
			Col:   i % midi.GridCols,
			Color: th.SampleRGB(string(samples[i].ID)),
		})
	}
	if err := lp.SetLEDBatch(updates); err != nil {
		return err
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	for i := range updates {
		updates[i].Color = [3]uint8{}
	}
	if err := lp.SetLEDBatch(updates); err != nil {
		return err
	}
	fmt.Println("Done!")
	return nil
}

func pollDevices() {
	fmt.Println("Watching for Launchpad changes...")
	fmt.Println("Connect/disconnect Launchpad to test. Ctrl+C to exit.")

	dm := midi.NewDeviceManager()
	go dm.Run(context.Background())

	for ev := range dm.Events() {
		switch ev.Type {
		case midi.DeviceConnected:
			fmt.Printf("[%s] connected %s (%s)\n", time.Now().Format("15:04:05"), ev.ID, ev.Controller.Type())
		case midi.DeviceDisconnected:
			fmt.Printf("[%s] disconnected %s\n", time.Now().Format("15:04:05"), ev.ID)
		}
	}
}
