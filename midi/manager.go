package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-stepgrid/debug"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// scanTimeout bounds a port listing (CoreMIDI can hang)
const scanTimeout = 3 * time.Second

// DeviceManager handles hot-plug detection of grid controllers
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
}

// NewDeviceManager creates a new device manager
func NewDeviceManager() *DeviceManager {
	return &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		out[k] = v
	}
	return out
}

// GetLaunchpad returns the first connected Launchpad (or nil)
func (dm *DeviceManager) GetLaunchpad() Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	for _, c := range dm.controllers {
		if c.Type() == ControllerLaunchpad {
			return c
		}
	}
	return nil
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

// listPorts returns the current ports, or ok=false if the driver hung
func listPorts() (ins []drivers.In, outs []drivers.Out, ok bool) {
	type portsResult struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r.ins, r.outs, true
	case <-time.After(scanTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		debug.Log("midi", "port scan timed out")
		return nil, nil, false
	}
}

// OutPortNames lists the available MIDI output ports
func OutPortNames() []string {
	_, outs, ok := listPorts()
	if !ok {
		return nil
	}
	names := make([]string, 0, len(outs))
	for _, p := range outs {
		names = append(names, p.String())
	}
	return names
}

// FindOutPort returns the output port whose name contains name
// (case-insensitive). An exact match wins over a partial one.
func FindOutPort(name string) (drivers.Out, error) {
	_, outs, ok := listPorts()
	if !ok {
		return nil, errors.New("midi port scan timed out")
	}
	want := strings.ToLower(name)
	var partial drivers.Out
	for _, p := range outs {
		got := strings.ToLower(p.String())
		if got == want {
			return p, nil
		}
		if partial == nil && strings.Contains(got, want) {
			partial = p
		}
	}
	if partial == nil {
		return nil, errors.Errorf("no MIDI output port matching %q", name)
	}
	return partial, nil
}

func (dm *DeviceManager) scan() {
	inPorts, outPorts, ok := listPorts()
	if !ok {
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		name := strings.ToLower(inPort.String())
		if !isLaunchpad(name) {
			continue
		}
		id := inPort.String()
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		var outPort drivers.Out
		for j, op := range outPorts {
			if strings.ToLower(op.String()) == name {
				outPort = outPorts[j]
				break
			}
		}

		lp, err := NewLaunchpadController(id, inPorts[i], outPort)
		if err != nil {
			debug.Log("midi", "launchpad %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = lp
		dm.mu.Unlock()

		debug.Log("midi", "connected %s", id)
		dm.events <- DeviceEvent{Type: DeviceConnected, Controller: lp, ID: id}
	}

	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		dm.controllers[id].Close()
		delete(dm.controllers, id)
		debug.Log("midi", "disconnected %s", id)
		dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: id}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}
