// Package delivery defines the contract every inbound transport (HTTP,
// workers) implements so main can serve them uniformly.
package delivery

import "context"

// Delivery is a long-running inbound transport. Serve blocks until the
// transport stops or the context is canceled; shutdown is wired through
// the fx lifecycle, not through Serve's return.
type Delivery interface {
	Serve(ctx context.Context) error
}
