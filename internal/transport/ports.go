// Package transport defines the ports to the remote ledger service. The
// service itself is a black box: routes and response shapes are
// deployment-specific, so loaders hand back raw decoded payloads and the
// ledger runs them through the shape normalizer.
package transport

import (
	"context"

	"github.com/zero-coolio/ofc/internal/core"
)

// LoadOptions carries paging hints for bulk loads.
type LoadOptions struct {
	Limit  int
	Offset int
}

// Ports for the remote service.
type (
	TransactionLoader interface {
		// LoadTransactions returns the raw decoded payload of a bulk load,
		// in whichever shape the deployment serves.
		LoadTransactions(ctx context.Context, opts LoadOptions) (any, error)
	}

	CategoryLoader interface {
		LoadCategories(ctx context.Context) (any, error)
	}

	TransactionSubmitter interface {
		// SubmitTransaction creates a transaction and returns the raw
		// confirmed record.
		SubmitTransaction(ctx context.Context, draft core.Draft) (map[string]any, error)
	}

	TransactionDeleter interface {
		DeleteTransaction(ctx context.Context, id int64) error
	}

	CategoryCreator interface {
		// CreateCategory creates (or returns the existing) category and
		// hands back the raw record.
		CreateCategory(ctx context.Context, name string) (map[string]any, error)
	}
)

// Backend is the full remote-service surface the ledger consumes.
type Backend interface {
	TransactionLoader
	CategoryLoader
	TransactionSubmitter
	TransactionDeleter
	CategoryCreator
}
