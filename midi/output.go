package midi

import (
	"sync"
	"time"

	"go-stepgrid/debug"
	"go-stepgrid/engine"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// DefaultVelocity is used for every note
const DefaultVelocity uint8 = 100

// Output plays engine notes on a MIDI port using a drum kit mapping
type Output struct {
	send     func(gomidi.Message) error
	channel  uint8
	kit      DrumKit
	velocity uint8

	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	holding map[uint8]int // sounding notes, for all-notes-off on close
	closed  bool
}

// NewOutput wraps a send function. channel is 0-based.
func NewOutput(send func(gomidi.Message) error, channel uint8, kit DrumKit) *Output {
	return &Output{
		send:     send,
		channel:  channel & 0x0F,
		kit:      kit,
		velocity: DefaultVelocity,
		timers:   make(map[*time.Timer]struct{}),
		holding:  make(map[uint8]int),
	}
}

// OpenOutput opens the named port. channel is 1-based as printed on devices.
func OpenOutput(portName string, channel int, kitName string) (*Output, error) {
	port, err := FindOutPort(portName)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", port.String())
	}
	if channel < 1 || channel > 16 {
		channel = 1
	}
	debug.Log("midi", "output %s ch=%d kit=%s", port.String(), channel, kitName)
	return NewOutput(send, uint8(channel-1), GetKit(kitName)), nil
}

// Kit returns the drum kit in use
func (o *Output) Kit() DrumKit { return o.kit }

// Send schedules note on at n.Delay and note off after n.Duration
func (o *Output) Send(n engine.Note) error {
	note := o.kit.Note(n.Sample)
	if n.Delay <= 0 {
		if err := o.noteOn(note); err != nil {
			return err
		}
	} else {
		o.after(n.Delay, func() {
			if err := o.noteOn(note); err != nil {
				debug.Log("midi", "note on %d: %v", note, err)
			}
		})
	}
	off := n.Delay + n.Duration
	if n.Duration <= 0 {
		off = n.Delay + time.Millisecond
	}
	o.after(off, func() {
		if err := o.noteOff(note); err != nil {
			debug.Log("midi", "note off %d: %v", note, err)
		}
	})
	return nil
}

// Close cancels pending notes and silences sounding ones
func (o *Output) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	for t := range o.timers {
		t.Stop()
	}
	o.timers = nil
	held := make([]uint8, 0, len(o.holding))
	for note := range o.holding {
		held = append(held, note)
	}
	o.holding = nil
	o.mu.Unlock()

	var first error
	for _, note := range held {
		if err := o.send(gomidi.NoteOff(o.channel, note)); err != nil && first == nil {
			first = errors.Wrap(err, "note off")
		}
	}
	return first
}

func (o *Output) after(d time.Duration, fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		o.mu.Lock()
		if o.closed {
			o.mu.Unlock()
			return
		}
		delete(o.timers, t)
		o.mu.Unlock()
		fn()
	})
	o.timers[t] = struct{}{}
}

func (o *Output) noteOn(note uint8) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.holding[note]++
	o.mu.Unlock()
	return o.send(gomidi.NoteOn(o.channel, note, o.velocity))
}

func (o *Output) noteOff(note uint8) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	if o.holding[note] > 0 {
		o.holding[note]--
		if o.holding[note] == 0 {
			delete(o.holding, note)
		}
	}
	o.mu.Unlock()
	return o.send(gomidi.NoteOff(o.channel, note))
}
