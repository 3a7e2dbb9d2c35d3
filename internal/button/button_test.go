package button

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventString(t *testing.T) {
	assert.Equal(t, "Button was pressed", Event{Pressed: true}.String())
	assert.Equal(t, "Button was released", Event{}.String())
}

type stubPin struct {
	err    error
	halted int
}

func (s *stubPin) Halt() error {
	s.halted++
	return s.err
}

func (s *stubPin) String() string {
	return "GPIO20"
}

func TestHalt(t *testing.T) {
	p := &stubPin{}
	assert.NoError(t, halt(p))
	assert.Equal(t, 1, p.halted)

	p = &stubPin{err: errors.New("busy")}
	assert.EqualError(t, halt(p), "busy")
	assert.Equal(t, 1, p.halted)
}
