// Package button reports presses of a single push button.
package button

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

const DefaultPin = "GPIO20"

type Event struct {
	Pressed bool
}

func (e Event) String() string {
	action := "pressed"
	if !e.Pressed {
		action = "released"
	}
	return fmt.Sprintf("Button was %v", action)
}

type halter interface {
	Halt() error
	String() string
}

// halt stops the pin once watching is over. A failure only matters for debugging.
func halt(p halter) error {
	err := p.Halt()
	if err != nil {
		log.Debugf("Unable to halt %s: %v", p, err)
	}
	return err
}
