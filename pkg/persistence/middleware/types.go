package middleware

import (
	"context"

	"github.com/moonbase/moonrobot/pkg/ports"
)

// Middleware allows wrapping a Store to add behavior.
type Middleware func(ports.Store) ports.Store

// Chain applies middlewares so that the first one is the outermost.
func Chain(store ports.Store, mws ...Middleware) ports.Store {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

// ping forwards a health probe when the wrapped store supports one.
func ping(ctx context.Context, next ports.Store) error {
	if p, ok := next.(ports.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
