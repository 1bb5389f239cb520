// Package contracts holds the interfaces pkg/app uses to assemble a service:
// HTTP handlers mounted under the API middleware chain and background workers
// such as the domain-event consumers.
package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

// Handler mounts a resource's routes, e.g. /api/v1/bookings.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}

// Worker runs until ctx is cancelled. Close is called once Start returned.
type Worker interface {
	Start(ctx context.Context) error
	Close() error
}
