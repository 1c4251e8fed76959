package sync

import (
	"time"

	"github.com/xelth-com/storesync/internal/config"
)

// Clock returns the current server time
type Clock func() time.Time

// SystemClock reads the wall clock in UTC at the precision the stores keep
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Options tunes push and pull
type Options struct {
	PushTimeout time.Duration
	// PullCursorLag is how far the pull cursor trails the server clock. Values
	// below PushTimeout are raised to it.
	PullCursorLag       time.Duration
	PlaceholderPassword string
	Audit               bool
	Clock               Clock
}

// OptionsFromConfig maps the sync section of the application config
func OptionsFromConfig(cfg config.SyncConfig) Options {
	return Options{
		PushTimeout:         cfg.PushTimeout,
		PullCursorLag:       cfg.PullCursorLag,
		PlaceholderPassword: cfg.PlaceholderPassword,
		Audit:               cfg.Audit,
	}
}

func (o Options) withDefaults() Options {
	if o.PushTimeout <= 0 {
		o.PushTimeout = 60 * time.Second
	}
	if o.PlaceholderPassword == "" {
		o.PlaceholderPassword = config.DefaultPlaceholderPassword
	}
	if o.Clock == nil {
		o.Clock = SystemClock
	}
	return o
}
