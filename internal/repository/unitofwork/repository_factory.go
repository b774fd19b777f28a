package unitofwork

import "context"

type RepositoryFactory interface {
	// WithConnection checks out one pooled connection, runs fn on a unit of
	// work bound to it and returns the connection when fn returns.
	WithConnection(ctx context.Context, fn func(uow UnitOfWork) error) error
}
