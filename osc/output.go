// Package osc sends engine notes to SuperDirt over OSC.
package osc

import (
	"strconv"
	"strings"
	"time"

	"go-stepgrid/debug"
	"go-stepgrid/engine"

	"github.com/hypebeast/go-osc/osc"
	"github.com/pkg/errors"
)

// PlayAddress is the SuperDirt trigger address
const PlayAddress = "/dirt/play"

// Default SuperDirt endpoint
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 57120
)

// Sender delivers OSC packets; *osc.Client implements it
type Sender interface {
	Send(packet osc.Packet) error
}

// Output turns notes into timestamped /dirt/play bundles
type Output struct {
	sender  Sender
	latency time.Duration
	orbit   int32
	now     func() time.Time
}

// NewOutput wraps a sender. latency is added to every timestamp so
// SuperDirt has time to schedule the sound.
func NewOutput(sender Sender, latency time.Duration) *Output {
	return &Output{sender: sender, latency: latency, now: time.Now}
}

// Dial creates an output for host:port
func Dial(host string, port int, latency time.Duration) *Output {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	debug.Log("osc", "superdirt at %s:%d latency=%v", host, port, latency)
	return NewOutput(osc.NewClient(host, port), latency)
}

// Send delivers one note
func (o *Output) Send(n engine.Note) error {
	bundle := osc.NewBundle(o.now().Add(n.Delay + o.latency))
	if err := bundle.Append(PlayMessage(n, o.orbit)); err != nil {
		return errors.Wrap(err, "osc bundle")
	}
	if err := o.sender.Send(bundle); err != nil {
		return errors.Wrapf(err, "send %s", n.Sample)
	}
	return nil
}

// PlayMessage builds the /dirt/play message for a note. A sample written as
// "name:3" selects variation 3 of the sample bank.
func PlayMessage(n engine.Note, orbit int32) *osc.Message {
	name, index := splitSample(n.Sample)
	msg := osc.NewMessage(PlayAddress)
	msg.Append("s")
	msg.Append(name)
	msg.Append("n")
	msg.Append(float32(index))
	msg.Append("cps")
	msg.Append(float32(n.CPS))
	msg.Append("cycle")
	msg.Append(float32(n.Cycle))
	msg.Append("delta")
	msg.Append(float32(n.Duration.Seconds()))
	msg.Append("orbit")
	msg.Append(orbit)
	return msg
}

func splitSample(s string) (string, int) {
	name, idx, ok := strings.Cut(s, ":")
	if !ok {
		return s, 0
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return name, 0
	}
	return name, n
}
