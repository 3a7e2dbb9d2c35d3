// Package strip drives a chain of APA102 pixels by bit banging a clock and a data line.
package strip

import (
	"errors"
	"fmt"
	"sync"

	"github.com/callebjorkell/dotstrip/internal/pins"
	log "github.com/sirupsen/logrus"
)

var ErrClosed = errors.New("strip is closed")

// Pins names the lines the strip is connected to.
type Pins struct {
	Clock string
	Data  string
}

func DefaultPins() Pins {
	return Pins{
		Clock: pins.DefaultClock,
		Data:  pins.DefaultData,
	}
}

// Strip owns the pixel buffer and the two lines. Buffer operations are cheap and only touch memory; Show pushes the
// buffer to the LEDs. The lines are acquired on the first Show and held until Close.
type Strip struct {
	pins     Pins
	acquirer pins.Acquirer

	mu          sync.Mutex
	buf         Buffer
	clearOnExit bool

	// flushLock serializes everything that touches the lines.
	flushLock sync.Mutex
	clock     pins.Line
	data      pins.Line
	encoder   *Encoder
	closed    bool
	flushes   int

	closer   sync.Once
	closeErr error
}

func New(acquirer pins.Acquirer, p Pins) *Strip {
	return &Strip{
		pins:        p,
		acquirer:    acquirer,
		buf:         NewBuffer(),
		clearOnExit: true,
	}
}

func (s *Strip) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.Clear()
}

func (s *Strip) Pixel(index int) (Color, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.Get(index)
}

func (s *Strip) SetPixel(index int, r, g, b float64, br Fraction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.Set(index, r, g, b, br)
}

func (s *Strip) SetAll(r, g, b float64, br Fraction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.SetAll(r, g, b, br)
}

func (s *Strip) SetBrightness(f float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.SetBrightness(f)
}

// SetClearOnExit decides whether Close turns all pixels off before letting go of the lines. Defaults to true.
func (s *Strip) SetClearOnExit(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearOnExit = enabled
}

// Show writes the current buffer to the strip and blocks until the whole frame has been sent.
func (s *Strip) Show() error {
	s.flushLock.Lock()
	defer s.flushLock.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.flush()
}

// ShowAsync runs Show in the background. The returned channel yields exactly one result and is then closed.
func (s *Strip) ShowAsync() <-chan error {
	res := make(chan error, 1)
	go func() {
		defer close(res)
		res <- s.Show()
	}()
	return res
}

// Release lets go of both lines. The lines are not acquired again, so later calls to Show fail with ErrClosed.
// Releasing lines that were never acquired does nothing.
func (s *Strip) Release() error {
	s.flushLock.Lock()
	defer s.flushLock.Unlock()

	s.closed = true
	return s.release()
}

// Close is the exit hook. The first call clears and flushes the strip (if clear on exit is set) and releases the
// lines. Later calls return the result of the first one.
func (s *Strip) Close() error {
	s.closer.Do(func() {
		s.flushLock.Lock()
		defer s.flushLock.Unlock()

		s.mu.Lock()
		wipe := s.clearOnExit && !s.closed
		if wipe {
			s.buf.Clear()
		}
		s.mu.Unlock()

		var flushErr error
		if wipe {
			log.Debug("Clearing strip before exit")
			if err := s.flush(); err != nil {
				flushErr = fmt.Errorf("final flush: %w", err)
			}
		}

		s.closed = true
		s.closeErr = errors.Join(flushErr, s.release())
	})
	return s.closeErr
}

// flush must be called with flushLock held.
func (s *Strip) flush() error {
	if err := s.acquire(); err != nil {
		return err
	}

	s.mu.Lock()
	frame := s.buf.Pixels()
	s.mu.Unlock()

	if err := s.encoder.Encode(frame); err != nil {
		return err
	}
	s.flushes++
	log.Tracef("Flushed frame %d (%d clocks)", s.flushes, ClocksPerFrame)
	return nil
}

func (s *Strip) acquire() error {
	if s.encoder != nil {
		return nil
	}

	clock, err := s.acquirer.Acquire(s.pins.Clock)
	if err != nil {
		return fmt.Errorf("acquiring clock line %s: %w", s.pins.Clock, err)
	}
	data, err := s.acquirer.Acquire(s.pins.Data)
	if err != nil {
		return errors.Join(
			fmt.Errorf("acquiring data line %s: %w", s.pins.Data, err),
			clock.Release(),
		)
	}

	log.Debugf("Strip lines acquired (clock: %s, data: %s)", clock, data)
	s.clock = clock
	s.data = data
	s.encoder = NewEncoder(clock, data)
	return nil
}

func (s *Strip) release() error {
	if s.encoder == nil {
		return nil
	}

	err := errors.Join(s.clock.Release(), s.data.Release())
	s.clock = nil
	s.data = nil
	s.encoder = nil
	log.Debug("Strip lines released")
	return err
}
