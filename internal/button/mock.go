//go:build !pi

package button

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
)

// Watch simulates the button with SIGHUP until ctx is done. The channel is closed when watching stops.
func Watch(ctx context.Context, pin string) (<-chan Event, error) {
	log.Infof("Simulating button %s, send SIGHUP to press it", pin)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)

	c := make(chan Event, 5)
	go simulateButton(ctx, hup, c)
	return c, nil
}

func simulateButton(ctx context.Context, hup chan os.Signal, c chan<- Event) {
	defer close(c)
	defer signal.Stop(hup)

	for {
		select {
		case <-hup:
			select {
			case c <- Event{Pressed: true}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
