// Package gpio provides raw button line sampling with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "github.com/swilson/buttond/internal/button"

// Reader samples the raw level of the button line.
type Reader interface {
	// Read returns the current raw line level, without any debouncing.
	Read() (button.Level, error)

	// Close releases GPIO resources.
	Close() error
}

// DefaultPin is the BCM line the button is wired to by default.
const DefaultPin = 17
