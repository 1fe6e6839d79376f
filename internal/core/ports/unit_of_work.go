package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request or
// command, keeping concurrent operations isolated.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. It provides
// transaction control and repositories bound to the running transaction.
// Client code manages the transaction lifecycle explicitly; the dispatch
// CAS relies on every status-changing write committing through one of these.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. Safe to defer after a
	// commit; it becomes a no-op.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the transaction.
	OrderRepository() OrderRepository

	// DeliveryRepository returns a DeliveryRepository bound to the transaction.
	DeliveryRepository() DeliveryRepository

	// CourierRepository returns a CourierRepository bound to the transaction.
	CourierRepository() CourierRepository

	// NotificationRepository returns a NotificationRepository bound to the
	// transaction.
	NotificationRepository() NotificationRepository

	// EvaluationRepository returns an EvaluationRepository bound to the
	// transaction.
	EvaluationRepository() EvaluationRepository
}
