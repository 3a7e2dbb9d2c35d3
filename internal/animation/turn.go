package animation

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// turn hands the strip from one effect to the next. Every claim starts a new generation; an effect holding an older
// generation is interrupted and is expected to give the strip back as soon as it notices.
type turn struct {
	mu         sync.Mutex
	generation uint64
	strip      sync.Mutex
}

// claim interrupts the current owner and blocks until the strip is free. The returned release must be called once
// the effect is done with the strip.
func (t *turn) claim() (uint64, func()) {
	t.mu.Lock()
	t.generation++
	g := t.generation
	t.mu.Unlock()

	t.strip.Lock()
	log.Tracef("Effect generation %d owns the strip", g)
	return g, t.strip.Unlock
}

// superseded reports whether someone claimed the strip after generation g.
func (t *turn) superseded(g uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.generation != g
}
