package strip

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

const (
	startFrameClocks = 32
	// endFrameClocks is deliberately not derived from PixelCount. The usual (n/2) rule is not enough for some die
	// revisions, which need at least 36 clocks to latch.
	endFrameClocks = 36
	wordHeader     = 0xe0
	wordBytes      = 4

	// ClocksPerFrame is the number of clock pulses in one complete flush.
	ClocksPerFrame = startFrameClocks + PixelCount*wordBytes*8 + endFrameClocks
)

// Output is the part of a line the encoder drives.
type Output interface {
	Out(l gpio.Level) error
}

// Word returns the 32 bit command word for p in the order it is sent.
func Word(p Pixel) [wordBytes]byte {
	return [wordBytes]byte{wordHeader | p.Level&0x1f, p.B, p.G, p.R}
}

// Encoder shifts pixels out over a clock and a data line. Every bit is put on the data line before the clock is
// pulsed high and then low, so the writes must happen strictly in order.
type Encoder struct {
	clock Output
	data  Output
}

func NewEncoder(clock, data Output) *Encoder {
	return &Encoder{
		clock: clock,
		data:  data,
	}
}

// Encode sends a full frame. Any failing write aborts the frame; what was already shifted out stays on the strip.
func (e *Encoder) Encode(pixels [PixelCount]Pixel) error {
	if err := e.zeroClocks(startFrameClocks); err != nil {
		return fmt.Errorf("start frame: %w", err)
	}

	for i, p := range pixels {
		for _, b := range Word(p) {
			if err := e.writeByte(b); err != nil {
				return fmt.Errorf("pixel %d: %w", i, err)
			}
		}
	}

	if err := e.zeroClocks(endFrameClocks); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}
	return nil
}

// zeroClocks holds data low and pulses the clock n times.
func (e *Encoder) zeroClocks(n int) error {
	if err := e.data.Out(gpio.Low); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := e.pulse(); err != nil {
			return err
		}
	}
	return nil
}

// writeByte sends b MSB first.
func (e *Encoder) writeByte(b byte) error {
	for i := 0; i < 8; i++ {
		if err := e.data.Out(b&0x80 != 0); err != nil {
			return err
		}
		if err := e.pulse(); err != nil {
			return err
		}
		b <<= 1
	}
	return nil
}

func (e *Encoder) pulse() error {
	if err := e.clock.Out(gpio.High); err != nil {
		return err
	}
	return e.clock.Out(gpio.Low)
}
