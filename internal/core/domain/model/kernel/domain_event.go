package kernel

// DomainEvent is raised by aggregate state transitions and consumed
// synchronously by the command handler that drove the transition. Handlers
// read the pending events via the aggregate's DomainEvents accessor, act on
// them (creating deliveries, fanning out notifications, cascading status),
// and clear them before commit. This replaces implicit persistence-layer
// hooks with an explicit, testable cascade.
type DomainEvent interface {
	// EventName returns a stable snake_case identifier for the event kind.
	EventName() string
}
