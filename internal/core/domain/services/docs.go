// Package services provides domain services that coordinate business rules
// across multiple aggregates. Logic lives here when it does not naturally
// belong to a single aggregate root, such as ranking couriers for a delivery
// task against all courier positions at once.
package services
