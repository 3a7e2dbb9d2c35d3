package strip

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// PixelCount is the number of pixels on the strip.
const PixelCount = 8

const (
	maxLevel   = 31
	maxChannel = 255
)

var (
	// ErrInvalidType is returned for values that are not numbers at all (NaN).
	ErrInvalidType = errors.New("not a number")
	// ErrOutOfRange is returned for indexes, channels or brightness outside their bounds.
	ErrOutOfRange  = errors.New("out of range")
)

// Pixel is a single LED as it is sent on the wire. Level is the 5 bit global brightness.
type Pixel struct {
	R, G, B uint8
	Level   uint8
}

// Color is a pixel as seen by callers, with the brightness as a fraction in [0, 1].
type Color struct {
	R, G, B    uint8
	Brightness float64
}

// Fraction is an optional brightness. The zero value, Keep, leaves the brightness untouched.
type Fraction struct {
	value float64
	set   bool
}

// Keep leaves the current brightness of a pixel as it is.
var Keep = Fraction{}

// Brightness returns a Fraction holding f.
func Brightness(f float64) Fraction {
	return Fraction{value: f, set: true}
}

func (f Fraction) Get() (float64, bool) {
	return f.value, f.set
}

func (f Fraction) String() string {
	if !f.set {
		return "keep"
	}
	return strconv.FormatFloat(f.value, 'g', -1, 64)
}

// Buffer holds the state of every pixel on the strip. It never touches hardware and is not safe for
// concurrent use on its own; Strip guards it.
type Buffer struct {
	pixels [PixelCount]Pixel
}

// NewBuffer returns a buffer with every pixel black at full brightness.
func NewBuffer() Buffer {
	var b Buffer
	for i := range b.pixels {
		b.pixels[i].Level = maxLevel
	}
	return b
}

// Pixels returns a copy of all pixels in strip order.
func (b *Buffer) Pixels() [PixelCount]Pixel {
	return b.pixels
}

// Clear turns off the color of every pixel, keeping its brightness.
func (b *Buffer) Clear() {
	for i := range b.pixels {
		b.pixels[i].R = 0
		b.pixels[i].G = 0
		b.pixels[i].B = 0
	}
}

// Get returns the pixel at index with its brightness as a fraction.
func (b *Buffer) Get(index int) (Color, error) {
	if err := checkIndex(index); err != nil {
		return Color{}, err
	}
	p := b.pixels[index]
	return Color{
		R:          p.R,
		G:          p.G,
		B:          p.B,
		Brightness: levelFraction(p.Level),
	}, nil
}

// SetAll sets every pixel to the same color, and brightness unless br is Keep.
func (b *Buffer) SetAll(r, g, blue float64, br Fraction) error {
	p, err := newPixel(r, g, blue, br)
	if err != nil {
		return err
	}
	for i := range b.pixels {
		b.apply(i, p, br.set)
	}
	return nil
}

// Set sets the color of the pixel at index, and its brightness unless br is Keep.
func (b *Buffer) Set(index int, r, g, blue float64, br Fraction) error {
	if err := checkIndex(index); err != nil {
		return err
	}
	p, err := newPixel(r, g, blue, br)
	if err != nil {
		return err
	}
	b.apply(index, p, br.set)
	return nil
}

// SetBrightness sets the brightness of every pixel.
func (b *Buffer) SetBrightness(f float64) error {
	if err := checkFraction(f); err != nil {
		return err
	}
	l := quantizeLevel(f)
	for i := range b.pixels {
		b.pixels[i].Level = l
	}
	return nil
}

func (b *Buffer) apply(index int, p Pixel, withLevel bool) {
	if !withLevel {
		p.Level = b.pixels[index].Level
	}
	b.pixels[index] = p
}

func newPixel(r, g, b float64, br Fraction) (Pixel, error) {
	for _, c := range []struct {
		name  string
		value float64
	}{{"red", r}, {"green", g}, {"blue", b}} {
		if err := checkChannel(c.name, c.value); err != nil {
			return Pixel{}, err
		}
	}

	p := Pixel{
		R: quantizeChannel(r),
		G: quantizeChannel(g),
		B: quantizeChannel(b),
	}
	if f, ok := br.Get(); ok {
		if err := checkFraction(f); err != nil {
			return Pixel{}, err
		}
		p.Level = quantizeLevel(f)
	}
	return p, nil
}

func checkIndex(index int) error {
	if index < 0 || index >= PixelCount {
		return fmt.Errorf("pixel index %d not within [0, %d]: %w", index, PixelCount-1, ErrOutOfRange)
	}
	return nil
}

func checkChannel(name string, v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%s: %w", name, ErrInvalidType)
	}
	if v < 0 || v > maxChannel {
		return fmt.Errorf("%s %v not within [0, %d]: %w", name, v, maxChannel, ErrOutOfRange)
	}
	return nil
}

func checkFraction(f float64) error {
	if math.IsNaN(f) {
		return fmt.Errorf("brightness: %w", ErrInvalidType)
	}
	if f < 0 || f > 1 {
		return fmt.Errorf("brightness %v not within [0, 1]: %w", f, ErrOutOfRange)
	}
	return nil
}

func quantizeChannel(v float64) uint8 {
	return uint8(int(math.Floor(v)) & 0xff)
}

// quantizeLevel maps a fraction to 5 bits. 1.0 gives exactly 31.
func quantizeLevel(f float64) uint8 {
	return uint8(int(math.Floor(maxLevel*f)) & 0x1f)
}

// levelFraction converts a 5 bit level back into a fraction rounded to 3 significant digits.
func levelFraction(l uint8) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(float64(l&0x1f)/maxLevel, 'g', 3, 64), 64)
	return f
}
