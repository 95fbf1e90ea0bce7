package engine

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"go-stepgrid/pattern"

	"github.com/pkg/errors"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func newManualClock() *manualClock {
	return &manualClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type recorder struct {
	mu    sync.Mutex
	notes []Note
	err   error
}

func (r *recorder) Send(n Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
	return r.err
}

func (r *recorder) samples() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notes {
		out = append(out, n.Sample)
	}
	return out
}

func newTestEngine(out Output) (*Engine, *manualClock) {
	clk := newManualClock()
	e := New(WithNow(clk.Now), WithInterval(time.Hour), WithOutput(out))
	return e, clk
}

func TestEngineClock(t *testing.T) {
	e, clk := newTestEngine(&recorder{})
	if e.Running() {
		t.Error("new engine should be suspended")
	}
	if err := e.Resume(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !e.Running() {
		t.Error("Resume did not start the clock")
	}
	clk.Advance(1500 * time.Millisecond)
	if got := e.Now(); got != 1.5 {
		t.Errorf("Now = %v, want 1.5", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().Resume(ctx); err == nil {
		t.Error("Resume with cancelled context should fail")
	}
}

func TestEngineDispatchesInOrder(t *testing.T) {
	rec := &recorder{}
	e, clk := newTestEngine(rec)
	p := pattern.Stack(pattern.MustMini("[bd ~ sd ~]"), pattern.MustMini("[hh hh hh hh]")).Legato(1).CPS(1)
	if err := e.SetPattern(p); err != nil {
		t.Fatal(err)
	}
	e.SetRate(1)
	e.Start()
	defer e.Stop()

	clk.Advance(600 * time.Millisecond)
	if n := e.process(); n != 5 {
		t.Fatalf("first pass dispatched %d notes, want 5", n)
	}
	want := []string{"bd", "hh", "hh", "sd", "hh"}
	got := rec.samples()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("samples = %v, want %v", got, want)
		}
	}
	if rec.notes[3].At != 500*time.Millisecond {
		t.Errorf("sd at %v, want 500ms", rec.notes[3].At)
	}
	if rec.notes[0].Duration != 250*time.Millisecond {
		t.Errorf("duration = %v, want 250ms", rec.notes[0].Duration)
	}

	// nothing is sent twice
	if n := e.process(); n != 0 {
		t.Errorf("second pass without time passing sent %d notes", n)
	}
	clk.Advance(200 * time.Millisecond)
	if n := e.process(); n != 1 {
		t.Errorf("pass to 0.8s sent %d notes, want 1 (hh at 0.75)", n)
	}
}

func TestEngineLookaheadSendsEarly(t *testing.T) {
	rec := &recorder{}
	clk := newManualClock()
	e := New(WithNow(clk.Now), WithInterval(time.Hour), WithLookahead(100*time.Millisecond), WithOutput(rec))
	if err := e.SetPattern(pattern.MustMini("[bd ~ sd ~]").CPS(1)); err != nil {
		t.Fatal(err)
	}
	e.SetRate(1)
	e.Start()
	defer e.Stop()

	clk.Advance(350 * time.Millisecond)
	if n := e.process(); n != 1 {
		t.Fatalf("pass to 0.45 sent %d notes, want 1", n)
	}
	clk.Advance(100 * time.Millisecond)
	if n := e.process(); n != 1 {
		t.Fatalf("pass to 0.55 sent %d notes, want sd", n)
	}
	sd := rec.notes[1]
	if sd.Sample != "sd" {
		t.Fatalf("second note = %q", sd.Sample)
	}
	if d := sd.Delay - 50*time.Millisecond; d < -time.Microsecond || d > time.Microsecond {
		t.Errorf("sd delay = %v, want 50ms", sd.Delay)
	}
	if d := sd.At - 500*time.Millisecond; d < -time.Microsecond || d > time.Microsecond {
		t.Errorf("sd at %v, want 500ms", sd.At)
	}
}

func TestEngineSetRateKeepsPhase(t *testing.T) {
	rec := &recorder{}
	e, clk := newTestEngine(rec)
	if err := e.SetPattern(pattern.MustMini("[a b c d]").CPS(1)); err != nil {
		t.Fatal(err)
	}
	e.SetRate(1)
	e.Start()
	defer e.Stop()

	clk.Advance(500 * time.Millisecond) // half a cycle
	e.process()
	e.SetRate(2)
	clk.Advance(250 * time.Millisecond) // another half cycle at double speed
	e.process()

	got := rec.samples()
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("samples = %v, want %v", got, want)
	}
	last := rec.notes[3]
	if math.Abs(last.Cycle-0.75) > 1e-9 {
		t.Errorf("d at cycle %v, want 0.75", last.Cycle)
	}
	if d := last.At - 625*time.Millisecond; d < -time.Microsecond || d > time.Microsecond {
		t.Errorf("d at %v, want 625ms", last.At)
	}
}

func TestEngineRejectsInvalidPattern(t *testing.T) {
	e, _ := newTestEngine(&recorder{})
	good := pattern.MustMini("bd").CPS(1)
	if err := e.SetPattern(good); err != nil {
		t.Fatal(err)
	}
	err := e.SetPattern(pattern.MustMini("bd").Slow(-1))
	if !errors.Is(err, pattern.ErrInvalid) {
		t.Errorf("SetPattern = %v, want ErrInvalid", err)
	}
	if e.Pattern().String() != good.String() {
		t.Errorf("pattern replaced by rejected one: %s", e.Pattern())
	}
}

func TestEngineStartStopIdempotent(t *testing.T) {
	rec := &recorder{err: errors.New("port closed")}
	e, clk := newTestEngine(rec)
	e.Start()
	e.Start()
	if !e.Playing() || !e.Running() {
		t.Fatal("engine not playing after Start")
	}
	if err := e.SetPattern(pattern.MustMini("bd")); err != nil {
		t.Fatal(err)
	}
	clk.Advance(time.Second)
	// output errors are logged, not fatal
	if n := e.process(); n != 1 {
		t.Errorf("dispatched %d, want 1", n)
	}
	e.Stop()
	e.Stop()
	if e.Playing() {
		t.Error("still playing after Stop")
	}
	if n := e.process(); n != 0 {
		t.Errorf("stopped engine dispatched %d notes", n)
	}
}

type closingOutput struct {
	recorder
	closed bool
}

func (c *closingOutput) Close() error {
	c.closed = true
	return nil
}

func TestEngineCloseClosesOutputs(t *testing.T) {
	out := &closingOutput{}
	e, _ := newTestEngine(out)
	e.AddOutput(&recorder{})
	e.Start()
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if !out.closed {
		t.Error("output not closed")
	}
	if e.Playing() {
		t.Error("still playing after Close")
	}
}
