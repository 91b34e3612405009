//go:build !unix

package terminal

import (
	"context"
	"os"
)

// ResizeEvent represents a terminal resize
type ResizeEvent struct {
	Width  int
	Height int
}

// WatchResize returns a channel closed when ctx is done; there is no
// resize signal on this platform and size is polled at each draw instead
func WatchResize(ctx context.Context, _ *os.File) <-chan ResizeEvent {
	ch := make(chan ResizeEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}
