// Package mock provides test doubles for seek interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/seek"
)

// Interface compliance check.
var _ seek.Backend = (*Backend)(nil)

// Backend is a test double for seek.Backend.
// Set OpenFn before calling Open.
type Backend struct {
	OpenFn func(ctx context.Context, req seek.Request) (seek.Stream, error)
}

// Open delegates to OpenFn.
func (b *Backend) Open(ctx context.Context, req seek.Request) (seek.Stream, error) {
	return b.OpenFn(ctx, req)
}
