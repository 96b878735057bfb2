// Package lifecycle holds shared start/stop constants for long-running
// components.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown of a single component.
const DefaultTimeout = 30 * time.Second
