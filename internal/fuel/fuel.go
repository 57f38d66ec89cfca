package fuel

import (
	"github.com/ukydev/fleet-ops-ledger/internal/faults"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

// Default consumption ratios (km per liter) used when no vehicle is supplied.
const (
	DefaultLoadedKMPerL = 2.0
	DefaultEmptyKMPerL  = 2.5
)

// Allocation is the result of a fuel calculation. RequiresRefuel is advisory:
// the allocated liters exceed the vehicle's tank capacity, so the driver will
// have to refuel en route. It is never a validation failure.
type Allocation struct {
	Liters         float64 `json:"liters"`
	RatioKMPerL    float64 `json:"ratio_km_per_l"`
	RequiresRefuel bool    `json:"requires_refuel"`
}

// Allocate computes the fuel estimate for a trip leg:
//
//	liters = distance_km / ratio + uncertainty_liters
//
// The ratio is the vehicle's loaded or empty km-per-liter figure depending on
// load status, falling back to the defaults when vehicle is nil or the figure
// is unset. Uncertainty is a flat buffer in liters, not a percentage. A
// non-positive distance yields zero liters. The function is deterministic and
// touches no storage.
func Allocate(distanceKM float64, load models.LoadStatus, vehicle *models.Vehicle, uncertaintyLiters float64) (Allocation, error) {
	if uncertaintyLiters < 0 {
		return Allocation{}, faults.Invalid("uncertainty_liters", "must be non-negative")
	}

	ratio := ratioFor(load, vehicle)
	alloc := Allocation{RatioKMPerL: ratio}
	if distanceKM <= 0 {
		return alloc, nil
	}

	alloc.Liters = distanceKM/ratio + uncertaintyLiters
	if vehicle != nil && vehicle.TankCapacity > 0 && alloc.Liters > vehicle.TankCapacity {
		alloc.RequiresRefuel = true
	}
	return alloc, nil
}

func ratioFor(load models.LoadStatus, vehicle *models.Vehicle) float64 {
	if load == models.Loaded {
		if vehicle != nil && vehicle.LoadedKMPerL > 0 {
			return vehicle.LoadedKMPerL
		}
		return DefaultLoadedKMPerL
	}
	if vehicle != nil && vehicle.EmptyKMPerL > 0 {
		return vehicle.EmptyKMPerL
	}
	return DefaultEmptyKMPerL
}
