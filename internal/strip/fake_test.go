package strip

import (
	"errors"
	"sync"

	"github.com/callebjorkell/dotstrip/internal/pins"
	"periph.io/x/conn/v3/gpio"
)

var errWrite = errors.New("write denied")

// wire records what a strip sees: the data level at every rising clock edge.
type wire struct {
	mu        sync.Mutex
	data      gpio.Level
	clockHigh bool
	bits      []gpio.Level
	writes    int
	badPulses int
	failAt    int
}

func (w *wire) out(clock bool, l gpio.Level) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writes++
	if w.failAt > 0 && w.writes >= w.failAt {
		return errWrite
	}
	if !clock {
		if w.clockHigh {
			// data must not change while the clock is high
			w.badPulses++
		}
		w.data = l
		return nil
	}
	if bool(l) == w.clockHigh {
		w.badPulses++
	}
	if l {
		w.bits = append(w.bits, w.data)
	}
	w.clockHigh = bool(l)
	return nil
}

func (w *wire) recorded() []gpio.Level {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]gpio.Level(nil), w.bits...)
}

type fakeLine struct {
	name     string
	clock    bool
	wire     *wire
	released int
}

func (f *fakeLine) Out(l gpio.Level) error {
	return f.wire.out(f.clock, l)
}

func (f *fakeLine) Release() error {
	f.released++
	return nil
}

func (f *fakeLine) String() string {
	return f.name
}

type fakeAcquirer struct {
	mu       sync.Mutex
	wire     *wire
	acquired map[string]int
	lines    []*fakeLine
	fail     error
}

func newFakeAcquirer() *fakeAcquirer {
	return &fakeAcquirer{
		wire:     &wire{},
		acquired: make(map[string]int),
	}
}

func (a *fakeAcquirer) Acquire(name string) (pins.Line, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fail != nil {
		return nil, a.fail
	}
	a.acquired[name]++
	l := &fakeLine{
		name:  name,
		clock: name == pins.DefaultClock,
		wire:  a.wire,
	}
	a.lines = append(a.lines, l)
	return l, nil
}

// expectedBits renders a frame the way the LEDs should see it.
func expectedBits(pixels [PixelCount]Pixel) []gpio.Level {
	bits := make([]gpio.Level, 0, ClocksPerFrame)
	for i := 0; i < startFrameClocks; i++ {
		bits = append(bits, gpio.Low)
	}
	for _, p := range pixels {
		for _, b := range Word(p) {
			for i := 7; i >= 0; i-- {
				bits = append(bits, b&(1<<uint(i)) != 0)
			}
		}
	}
	for i := 0; i < endFrameClocks; i++ {
		bits = append(bits, gpio.Low)
	}
	return bits
}
