package bridge

import (
	"go.uber.org/zap"
)

const (
	// DefaultMemoryLimitPages caps linear memory at 64 MiB.
	DefaultMemoryLimitPages = 1024
	// MaxMemoryLimitPages caps linear memory at 1 GiB.
	MaxMemoryLimitPages = 16384
)

type config struct {
	logger           *zap.Logger
	memoryLimitPages uint32
	poison           bool
}

func defaultConfig() config {
	return config{
		memoryLimitPages: DefaultMemoryLimitPages,
	}
}

// Option configures a Bridge.
type Option func(*config)

// WithMemoryLimitPages sets the maximum size of linear memory in 64 KiB
// pages. Values of 0 keep the default and values above MaxMemoryLimitPages
// are clamped to it.
//
// The whole limit is reserved when the bridge starts, not as memory grows,
// so every bridge costs pages*64 KiB of address space up front.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *config) {
		switch {
		case pages == 0:
		case pages > MaxMemoryLimitPages:
			c.memoryLimitPages = MaxMemoryLimitPages
		default:
			c.memoryLimitPages = pages
		}
	}
}

// WithPoison overwrites released blocks with a fill byte so reads of
// released memory are visible.
func WithPoison() Option {
	return func(c *config) {
		c.poison = true
	}
}

// WithLogger sets the logger of this bridge.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
