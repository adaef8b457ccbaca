package deb

import "log/slog"

// Option adjusts how Walk and Inspect read a package.
type Option func(*config)

// config holds the walk settings assembled from Options.
type config struct {
	// logger receives debug records about routing decisions.
	logger *slog.Logger

	// memberVariants enables the non canonical member names, e.g. data.tar.zst.
	memberVariants bool

	// foldFields appends continuation lines to the previous control value
	// instead of discarding them.
	foldFields bool
}

func newConfig(opts ...Option) *config {
	c := &config{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLogger sets the logger used for debug output. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMemberVariants makes the walker recognize every compression variant of
// the control and data members (control.tar, control.tar.xz, control.tar.zst,
// data.tar, data.tar.gz, data.tar.zst, data.tar.bz2, data.tar.lzma) in addition
// to control.tar.gz and data.tar.xz.
func WithMemberVariants(enable bool) Option {
	return func(c *config) {
		c.memberVariants = enable
	}
}

// WithFoldedFields makes the control parser append continuation lines (lines
// starting with a space) to the value of the previous field, separated by a
// newline. By default continuation lines are discarded.
func WithFoldedFields(enable bool) Option {
	return func(c *config) {
		c.foldFields = enable
	}
}
