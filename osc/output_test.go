package osc

import (
	"testing"
	"time"

	"go-stepgrid/engine"

	"github.com/hypebeast/go-osc/osc"
	"github.com/pkg/errors"
)

type fakeSender struct {
	packets []osc.Packet
	err     error
}

func (f *fakeSender) Send(p osc.Packet) error {
	f.packets = append(f.packets, p)
	return f.err
}

func args(m *osc.Message) map[string]interface{} {
	out := map[string]interface{}{}
	for i := 0; i+1 < len(m.Arguments); i += 2 {
		out[m.Arguments[i].(string)] = m.Arguments[i+1]
	}
	return out
}

func TestPlayMessage(t *testing.T) {
	m := PlayMessage(engine.Note{Sample: "bass:3", CPS: 0.5, Cycle: 1.25, Duration: 250 * time.Millisecond}, 1)
	if m.Address != PlayAddress {
		t.Errorf("address = %s", m.Address)
	}
	a := args(m)
	if a["s"] != "bass" || a["n"] != float32(3) {
		t.Errorf("s/n = %v/%v", a["s"], a["n"])
	}
	if a["cps"] != float32(0.5) || a["cycle"] != float32(1.25) || a["delta"] != float32(0.25) {
		t.Errorf("timing args = %v", a)
	}
	if a["orbit"] != int32(1) {
		t.Errorf("orbit = %v", a["orbit"])
	}
}

func TestSplitSample(t *testing.T) {
	tests := []struct {
		in   string
		name string
		n    int
	}{
		{"bd", "bd", 0},
		{"bd:2", "bd", 2},
		{"bd:x", "bd", 0},
	}
	for _, tt := range tests {
		name, n := splitSample(tt.in)
		if name != tt.name || n != tt.n {
			t.Errorf("splitSample(%q) = %q, %d", tt.in, name, n)
		}
	}
}

func TestOutputTimestamps(t *testing.T) {
	s := &fakeSender{}
	out := NewOutput(s, 100*time.Millisecond)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out.now = func() time.Time { return base }

	if err := out.Send(engine.Note{Sample: "hh", Delay: 50 * time.Millisecond}); err != nil {
		t.Fatal(err)
	}
	b, ok := s.packets[0].(*osc.Bundle)
	if !ok {
		t.Fatalf("sent %T, want bundle", s.packets[0])
	}
	want := osc.NewTimetag(base.Add(150 * time.Millisecond))
	if b.Timetag.TimeTag() != want.TimeTag() {
		t.Errorf("timetag = %x, want %x", b.Timetag.TimeTag(), want.TimeTag())
	}
	if len(b.Messages) != 1 || b.Messages[0].Address != PlayAddress {
		t.Errorf("bundle messages = %v", b.Messages)
	}
}

func TestOutputSendError(t *testing.T) {
	s := &fakeSender{err: errors.New("connection refused")}
	out := NewOutput(s, 0)
	if err := out.Send(engine.Note{Sample: "bd"}); err == nil {
		t.Error("expected error")
	}
}
