package driven

import "context"

// Repositories bundles the repositories bound to one transaction.
// They are only valid inside the unit-of-work scope that produced them.
type Repositories struct {
	Documents DocumentRepository
	Chunks    ChunkRepository
}

// UnitOfWork executes a function within one atomic transaction.
//
// The transaction commits when fn returns nil and rolls back when fn
// returns an error or panics; the repositories passed to fn share that
// single transaction. A transaction handle is never shared across
// concurrent scopes.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
