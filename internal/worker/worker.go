package worker

import (
	"context"
)

// Worker is the contract every background worker implements.
type Worker interface {
	// Start runs the worker loop until Stop or context cancellation.
	Start(ctx context.Context) error

	// Stop signals the worker to shut down.
	Stop() error

	// Name identifies the worker in logs.
	Name() string
}
