package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// ActorRole identifies which side of the marketplace an acting party belongs
// to. State-machine transitions use the role plus the actor's identifier to
// decide authority.
type ActorRole int

const (
	// RoleUnknown is the invalid zero value.
	RoleUnknown ActorRole = iota
	// RoleClient is the ordering customer.
	RoleClient
	// RoleMerchant is the shop owner fulfilling the order.
	RoleMerchant
	// RoleCourier is the party performing the delivery.
	RoleCourier
	// RoleSystem is the service itself, used for cascades driven by linked
	// entities (e.g. a completed delivery marking its order delivered).
	RoleSystem
)

// String returns the lower-case role name.
func (r ActorRole) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleMerchant:
		return "merchant"
	case RoleCourier:
		return "courier"
	case RoleSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Validate rejects RoleUnknown and any other out-of-band value.
func (r ActorRole) Validate() error {
	switch r {
	case RoleClient, RoleMerchant, RoleCourier, RoleSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("actor role",
			fmt.Errorf("%d is not a valid role", r))
	}
}

// ParseActorRole converts a lower-case role name to its value. The system
// role is deliberately not parseable: it never arrives over the wire.
func ParseActorRole(s string) (ActorRole, error) {
	switch s {
	case "client":
		return RoleClient, nil
	case "merchant":
		return RoleMerchant, nil
	case "courier":
		return RoleCourier, nil
	default:
		return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("actor role",
			fmt.Errorf("%q is not a valid role", s))
	}
}

// Actor is the identity on whose behalf an operation runs. The system actor
// carries no identifier; every other role must name a concrete party.
type Actor struct {
	role ActorRole
	id   UUID
}

// NewActor creates an actor with the given role and identity.
func NewActor(role ActorRole, id UUID) (Actor, error) {
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	if role != RoleSystem {
		if err := id.Validate(); err != nil {
			return Actor{}, err
		}
	}
	return Actor{role: role, id: id}, nil
}

// SystemActor returns the service-internal actor used for cascades.
func SystemActor() Actor {
	return Actor{role: RoleSystem}
}

// Role returns the actor's role.
func (a Actor) Role() ActorRole {
	return a.role
}

// ID returns the actor's identifier. It is the zero UUID for the system actor.
func (a Actor) ID() UUID {
	return a.id
}

// IsSystem reports whether the actor is the service itself.
func (a Actor) IsSystem() bool {
	return a.role == RoleSystem
}

// String returns "role id" for logging and forbidden-error messages.
func (a Actor) String() string {
	if a.role == RoleSystem {
		return "system"
	}
	return fmt.Sprintf("%s %s", a.role, a.id)
}

// Validate rejects the zero-value Actor.
func (a Actor) Validate() error {
	if err := a.role.Validate(); err != nil {
		return err
	}
	if a.role != RoleSystem {
		return a.id.Validate()
	}
	return nil
}
