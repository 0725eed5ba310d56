package hxview

import (
	"sync/atomic"

	"github.com/pthm/hxview/lib/config"
)

// Version is the library version folded into every cache version.
const Version = "0.1.0"

var settings atomic.Pointer[config.Config]

// Configure installs process-wide settings. Rendering reads them; nothing
// in hxview writes them.
func Configure(cfg config.Config) {
	settings.Store(&cfg)
}

// Settings returns the settings installed by Configure, or config.Default.
func Settings() config.Config {
	if cfg := settings.Load(); cfg != nil {
		return *cfg
	}
	return config.Default()
}
