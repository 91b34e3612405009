//go:build unix

package terminal

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// ResizeEvent represents a terminal resize
type ResizeEvent struct {
	Width  int
	Height int
}

// WatchResize delivers the new size of f on every SIGWINCH until ctx is done
// Only the latest pending event is kept; a slow consumer sees the final size
func WatchResize(ctx context.Context, f *os.File) <-chan ResizeEvent {
	fd := int(f.Fd())
	sigCh := make(chan os.Signal, 1)
	eventCh := make(chan ResizeEvent, 1)
	signal.Notify(sigCh, unix.SIGWINCH)

	go func() {
		defer close(eventCh)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-ctx.Done():
				return
			case <-sigCh:
				w, h, err := getTerminalSize(fd)
				if err != nil || w <= 0 || h <= 0 {
					continue
				}
				publishResize(eventCh, ResizeEvent{Width: w, Height: h})
			}
		}
	}()

	return eventCh
}

// publishResize sends without blocking, replacing an unconsumed event
func publishResize(ch chan ResizeEvent, ev ResizeEvent) {
	select {
	case ch <- ev:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}
}
