package sendable

import "log/slog"

// Config defines configurable options of shared collections.
type Config struct {
	sizeHint int
	logger   *slog.Logger
}

// WithPresize configures a new collection with capacity enough to
// hold sizeHint elements. If sizeHint is zero or negative, the value
// is ignored.
func WithPresize(sizeHint int) func(*Config) {
	return func(c *Config) {
		c.sizeHint = sizeHint
	}
}

// WithLogger sets the logger that receives concurrent modification
// reports at debug level. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) func(*Config) {
	return func(c *Config) {
		c.logger = logger
	}
}

func newConfig(options []func(*Config)) Config {
	c := Config{}
	for _, o := range options {
		o(&c)
	}
	if c.sizeHint < 0 {
		c.sizeHint = 0
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}
