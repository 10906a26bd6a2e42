// Package delivery defines the contract every transport surface implements.
package delivery

import "context"

// Delivery is a long-running transport (HTTP server, worker loop) whose
// lifetime is managed by the application container.
type Delivery interface {
	// Serve blocks until the delivery stops or the context ends.
	Serve(ctx context.Context) error
}
