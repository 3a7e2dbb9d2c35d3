// Package animation plays simple effects on a strip.
package animation

import (
	"errors"
	"time"

	"github.com/callebjorkell/dotstrip/internal/strip"
	log "github.com/sirupsen/logrus"
)

var ErrInterrupted = errors.New("animation was interrupted")

const DefaultTick = 10 * time.Millisecond

// Display is the part of a strip the effects draw on.
type Display interface {
	SetAll(r, g, b float64, br strip.Fraction) error
	Show() error
}

// Player runs one effect at a time. Starting an effect, or Stop, interrupts the running one.
type Player struct {
	display Display
	tick    time.Duration
	peak    float64
	turn    turn
}

// NewPlayer returns a player stepping effects every tick. peak caps the brightness Breathe goes up to; values
// outside [0, 1] mean full brightness.
func NewPlayer(d Display, tick time.Duration, peak float64) *Player {
	if tick <= 0 {
		tick = DefaultTick
	}
	if !(peak >= 0 && peak <= 1) {
		peak = 1
	}
	return &Player{
		display: d,
		tick:    tick,
		peak:    peak,
	}
}

// Flash blinks color three times and leaves the strip dark.
func (p *Player) Flash(color uint32) error {
	g, release := p.turn.claim()
	defer release()

	log.Infof("Flashing color %06x", color)

	steps := []struct {
		color uint32
		hold  time.Duration
	}{
		{color, 25 * p.tick},
		{0, 4 * p.tick},
		{color, 10 * p.tick},
		{0, 4 * p.tick},
		{color, 10 * p.tick},
		{0, 0},
	}
	for _, s := range steps {
		if p.turn.superseded(g) {
			p.clear()
			return ErrInterrupted
		}
		if err := p.setColor(s.color, strip.Keep); err != nil {
			return err
		}
		<-time.After(s.hold)
	}

	log.Debug("Flashing done...")
	return nil
}

// Rainbow runs through the color wheel once, fading in and out.
func (p *Player) Rainbow() error {
	g, release := p.turn.claim()
	defer release()
	defer p.clear()

	log.Debugf("Displaying rainbow")
	tick := time.NewTicker(3 * p.tick)
	defer tick.Stop()

	for step := 0; step <= 450; step++ {
		if p.turn.superseded(g) {
			return ErrInterrupted
		}

		c := wheel(step)
		if step < 50 {
			c = withBrightness(c, uint32(step*2))
		}
		if step > 350 {
			c = withBrightness(c, uint32(450-step))
		}

		if err := p.setColor(c, strip.Keep); err != nil {
			return err
		}

		<-tick.C
	}

	return nil
}

// Breathe pulses color using the global brightness of the strip, from off up to the peak of the player, until
// another effect, or Stop, takes over. The returned channel gets the error that ended the effect, or ErrInterrupted.
func (p *Player) Breathe(color uint32) <-chan error {
	g, release := p.turn.claim()
	res := make(chan error, 1)

	go func() {
		defer close(res)
		defer release()
		defer p.clear()
		for {
			err := p.singleBreath(g, color)
			if err != nil {
				log.Debug("Stopping breathing: ", err)
				res <- err
				return
			}
		}
	}()

	return res
}

// Stop interrupts whatever is running and waits for it to let go of the strip.
func (p *Player) Stop() {
	_, release := p.turn.claim()
	release()
}

func (p *Player) singleBreath(g uint64, color uint32) error {
	light := 0
	increase := true
	log.Debugf("Breathing color: %06x", color)
	tick := time.NewTicker(p.tick)
	defer tick.Stop()
	for {
		if p.turn.superseded(g) {
			log.Debug("Animation interrupted.")
			return ErrInterrupted
		}

		if err := p.setColor(color, strip.Brightness(float64(light) / 100 * p.peak)); err != nil {
			return err
		}

		if increase {
			light++
			if light >= 100 {
				increase = false
			}
		} else {
			if light == 0 {
				break
			}
			light--
		}

		<-tick.C
	}
	return nil
}

func (p *Player) setColor(color uint32, br strip.Fraction) error {
	r, g, b := split(color)
	if err := p.display.SetAll(float64(r), float64(g), float64(b), br); err != nil {
		return err
	}
	return p.display.Show()
}

func (p *Player) clear() {
	if err := p.setColor(0, strip.Keep); err != nil {
		log.Warn("Unable to clear strip: ", err)
	}
}

func split(color uint32) (r, g, b uint32) {
	return (color >> 16) & 0xff, (color >> 8) & 0xff, color & 0xff
}

// withBrightness scales every channel of color by light percent.
func withBrightness(color uint32, light uint32) uint32 {
	if light > 100 {
		light = 100
	}
	r, g, b := split(color)
	r = r * light / 100
	g = g * light / 100
	b = b * light / 100
	return r<<16 | g<<8 | b
}

// wheel maps a step onto the color wheel, red -> green -> blue -> red every 3*255 steps.
func wheel(step int) uint32 {
	pos := uint32(step % (3 * 255))
	switch {
	case pos < 255:
		return (255-pos)<<16 | pos<<8
	case pos < 2*255:
		pos -= 255
		return (255-pos)<<8 | pos
	default:
		pos -= 2 * 255
		return pos<<16 | (255 - pos)
	}
}
