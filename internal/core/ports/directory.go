package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// MerchantInfo is the slice of merchant master data the dispatch core needs:
// where to pick the package up.
type MerchantInfo struct {
	ID      kernel.UUID
	Name    string
	Address string
	Point   *kernel.GeoPoint
}

// MerchantDirectory resolves merchant pickup data. Merchant master data is
// owned elsewhere; the core only reads it at dispatch time. Lookup failures
// degrade the dispatch (no estimates, no proximity fan-out), they never block
// order validation.
type MerchantDirectory interface {
	// Lookup returns the merchant's pickup data, or an ObjectNotFoundError.
	Lookup(ctx context.Context, merchantID kernel.UUID) (MerchantInfo, error)
}
