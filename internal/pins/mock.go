//go:build !pi

package pins

import (
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

type mockAcquirer struct{}

// NewAcquirer returns simulated lines when not built for the Pi.
func NewAcquirer() Acquirer {
	return mockAcquirer{}
}

func (mockAcquirer) Acquire(name string) (Line, error) {
	log.Debugf("pins: acquire %s", name)
	return &mockLine{name: name}, nil
}

type mockLine struct {
	name  string
	level gpio.Level
	edges int
}

func (m *mockLine) Out(l gpio.Level) error {
	if l != m.level {
		m.edges++
		log.Tracef("pins: %s -> %v", m.name, l)
	}
	m.level = l
	return nil
}

func (m *mockLine) Release() error {
	log.Debugf("pins: release %s after %d edges", m.name, m.edges)
	m.level = gpio.Low
	return nil
}

func (m *mockLine) String() string {
	return m.name
}
