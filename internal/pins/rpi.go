//go:build pi

package pins

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var hostInit struct {
	once sync.Once
	err  error
}

type hostAcquirer struct{}

// NewAcquirer returns an Acquirer backed by the host GPIO drivers.
func NewAcquirer() Acquirer {
	return hostAcquirer{}
}

func (hostAcquirer) Acquire(name string) (Line, error) {
	hostInit.once.Do(func() {
		_, hostInit.err = host.Init()
	})
	if hostInit.err != nil {
		return nil, fmt.Errorf("unable to initialize periph: %w", hostInit.err)
	}

	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("no such pin %q", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("setting %s as output: %w", name, err)
	}
	log.Debugf("Acquired %s as output", p)

	return &hostLine{pin: p}, nil
}

type hostLine struct {
	pin gpio.PinIO
}

func (h *hostLine) Out(l gpio.Level) error {
	return h.pin.Out(l)
}

func (h *hostLine) Release() error {
	if err := h.pin.Out(gpio.Low); err != nil {
		return err
	}
	log.Debugf("Releasing %s", h.pin)
	return h.pin.Halt()
}

func (h *hostLine) String() string {
	return h.pin.String()
}
