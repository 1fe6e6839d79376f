package courier

import (
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
)

// VehicleType is the courier's means of transport. It only influences the
// ride-duration heuristic; dispatch ranks by distance regardless of vehicle.
type VehicleType int

const (
	// VehicleUnknown is the invalid zero value.
	VehicleUnknown VehicleType = iota
	// VehicleMotorbike is the default vehicle in the marketplace.
	VehicleMotorbike
	// VehicleCar is a car or van.
	VehicleCar
	// VehicleBicycle is a pedal bicycle.
	VehicleBicycle
	// VehicleScooter is a motor scooter.
	VehicleScooter
)

func vehicleStrings() map[VehicleType]string {
	return map[VehicleType]string{
		VehicleMotorbike: "motorbike",
		VehicleCar:       "car",
		VehicleBicycle:   "bicycle",
		VehicleScooter:   "scooter",
	}
}

// String returns the snake_case vehicle name.
func (v VehicleType) String() string {
	if str, ok := vehicleStrings()[v]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects VehicleUnknown and out-of-band values.
func (v VehicleType) Validate() error {
	if _, ok := vehicleStrings()[v]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("vehicle type",
			fmt.Errorf("%d is not a valid vehicle type", v))
	}
	return nil
}

// ParseVehicleType converts a snake_case vehicle name to its value.
func ParseVehicleType(s string) (VehicleType, error) {
	for vehicle, name := range vehicleStrings() {
		if name == s {
			return vehicle, nil
		}
	}
	return VehicleUnknown, errs.NewValueIsInvalidErrorWithCause("vehicle type",
		fmt.Errorf("%q is not a valid vehicle type", s))
}

// AverageSpeedKmh returns the assumed urban travel speed for duration
// estimates. These are deliberately rough city-traffic figures, not routing.
func (v VehicleType) AverageSpeedKmh() float64 {
	if v == VehicleBicycle {
		return 15
	}
	return 30
}

// EstimateDuration converts a straight-line distance in meters into an
// estimated ride duration, truncated to whole minutes.
func (v VehicleType) EstimateDuration(distanceM float64) time.Duration {
	if distanceM <= 0 {
		return 0
	}
	hours := distanceM / 1000 / v.AverageSpeedKmh()
	minutes := int64(hours * 60)
	return time.Duration(minutes) * time.Minute
}
