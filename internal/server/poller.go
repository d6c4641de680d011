package server

import (
	"context"

	"league-admin-service/internal/poller"
)

// Poller defines the minimal reload loop behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}
