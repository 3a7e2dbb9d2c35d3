// Package pins hands out single purpose digital output lines by name.
package pins

import (
	"periph.io/x/conn/v3/gpio"
)

const (
	DefaultClock = "GPIO24"
	DefaultData  = "GPIO23"
)

// Line is a digital output that idles low.
type Line interface {
	Out(l gpio.Level) error
	Release() error
	String() string
}

// Acquirer opens named lines as outputs.
type Acquirer interface {
	Acquire(name string) (Line, error)
}

// AcquirerFunc adapts a function to the Acquirer interface.
type AcquirerFunc func(name string) (Line, error)

func (f AcquirerFunc) Acquire(name string) (Line, error) {
	return f(name)
}
