//go:build !pi

package main

import (
	"testing"
	"time"

	"github.com/callebjorkell/dotstrip/internal/animation"
	"github.com/callebjorkell/dotstrip/internal/pins"
	"github.com/callebjorkell/dotstrip/internal/strip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFractionValue(t *testing.T) {
	v := &fractionValue{}
	_, ok := v.value.Get()
	assert.False(t, ok)
	assert.Equal(t, "keep", v.String())

	require.NoError(t, v.Set("0.5"))
	f, ok := v.value.Get()
	assert.True(t, ok)
	assert.Equal(t, 0.5, f)

	assert.Error(t, v.Set("bright"))
}

func TestOneShot(t *testing.T) {
	s := strip.New(pins.NewAcquirer(), strip.DefaultPins())

	err := oneShot(s, func() error {
		return s.SetPixel(2, 10, 20, 30, strip.Brightness(1))
	})
	require.NoError(t, err)

	c, err := s.Pixel(2)
	require.NoError(t, err)
	assert.Equal(t, strip.Color{R: 10, G: 20, B: 30, Brightness: 1}, c, "one shot commands keep the pixels lit")
	assert.ErrorIs(t, s.Show(), strip.ErrClosed)
}

func TestOneShotInvalid(t *testing.T) {
	s := strip.New(pins.NewAcquirer(), strip.DefaultPins())

	err := oneShot(s, func() error {
		return s.SetPixel(strip.PixelCount, 0, 0, 0, strip.Keep)
	})
	assert.ErrorIs(t, err, strip.ErrOutOfRange)
}

func TestFlashOnceInvalidColor(t *testing.T) {
	s := strip.New(pins.NewAcquirer(), strip.DefaultPins())
	assert.Error(t, flashOnce(s, "purple", time.Microsecond))
	assert.Error(t, flashOnce(strip.New(pins.NewAcquirer(), strip.DefaultPins()), "1000000", time.Microsecond))
}

func TestPlayOnceClosesStrip(t *testing.T) {
	tt := []struct {
		name   string
		effect func(*animation.Player) error
	}{
		{"rainbow", (*animation.Player).Rainbow},
		{"flash", func(p *animation.Player) error { return p.Flash(0x00ff00) }},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			s := strip.New(pins.NewAcquirer(), strip.DefaultPins())
			require.NoError(t, playOnce(s, time.Microsecond, tc.effect))

			c, err := s.Pixel(0)
			require.NoError(t, err)
			assert.Equal(t, strip.Color{Brightness: 1}, c, "the strip ends dark")
			assert.ErrorIs(t, s.Show(), strip.ErrClosed)
		})
	}
}
