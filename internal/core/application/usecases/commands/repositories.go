// Package commands contains business operations that modify system state.
// Every command follows the same shape: a guarded command struct validated at
// construction, and a handler that opens a unit of work, drives the domain
// aggregates, and commits. Handlers never bypass aggregate methods to mutate
// status fields.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces narrow ports.UnitOfWork to exactly what each
// handler touches, which keeps handler mocks small.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DeliveryRepoFactory provides the delivery repository within a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// CourierRepoFactory provides the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// NotificationRepoFactory provides the notification repository within a
	// transaction.
	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	// EvaluationRepoFactory provides the evaluation repository within a
	// transaction.
	EvaluationRepoFactory interface {
		EvaluationRepository() ports.EvaluationRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// NotificationUoW manages transactions for notification-only operations.
	NotificationUoW interface {
		TxManager
		NotificationRepoFactory
	}

	// NotificationUoWFactory creates notification unit of work instances.
	NotificationUoWFactory interface {
		Create() NotificationUoW
	}

	// DispatchUoW spans every aggregate the dispatch cascade touches: the
	// order being validated or cancelled, its delivery, the courier pool and
	// the notification fan-out.
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		DeliveryRepoFactory
		CourierRepoFactory
		NotificationRepoFactory
	}

	// DispatchUoWFactory creates dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// EvaluationUoW spans the evaluation insert, the evaluated delivery and
	// the courier whose rating is recomputed.
	EvaluationUoW interface {
		TxManager
		EvaluationRepoFactory
		DeliveryRepoFactory
		CourierRepoFactory
	}

	// EvaluationUoWFactory creates evaluation unit of work instances.
	EvaluationUoWFactory interface {
		Create() EvaluationUoW
	}
)
