// Package impact converts a reference-currency donation into bed nets and a
// Poisson estimate of lives saved.
package impact

import (
	"fmt"
	"math"

	"github.com/iwvelando/donation-impact/pkg/constants"
	"github.com/iwvelando/donation-impact/pkg/mathutil"
)

// Estimator holds the cost constants of the intervention. All fields are in
// the reference currency except PeoplePerUnit.
type Estimator struct {
	UnitCost         float64
	CostPerLifeSaved float64
	PeoplePerUnit    float64
}

// Estimate is the derived, read-only impact of one donation. PeopleProtected
// is a whole number held as a float64 so very large donations cannot overflow it.
type Estimate struct {
	ReferenceAmount       float64 `json:"referenceAmount"`
	UnitsPurchased        float64 `json:"unitsPurchased"`
	PeopleProtected       float64 `json:"peopleProtected"`
	ExpectedLivesSaved    float64 `json:"expectedLivesSaved"`
	ProbabilityAtLeastOne float64 `json:"probabilityAtLeastOne"`
}

// Default returns an Estimator using the built-in GiveWell figures.
func Default() Estimator {
	return Estimator{
		UnitCost:         constants.DefaultUnitCost,
		CostPerLifeSaved: constants.DefaultCostPerLifeSaved,
		PeoplePerUnit:    constants.DefaultPeoplePerUnit,
	}
}

// New validates the constants and returns an Estimator.
func New(unitCost, costPerLifeSaved, peoplePerUnit float64) (Estimator, error) {
	e := Estimator{
		UnitCost:         unitCost,
		CostPerLifeSaved: costPerLifeSaved,
		PeoplePerUnit:    peoplePerUnit,
	}
	if err := e.Validate(); err != nil {
		return Estimator{}, err
	}
	return e, nil
}

// Validate checks that the divisors are positive and finite.
func (e Estimator) Validate() error {
	if !positive(e.UnitCost) {
		return fmt.Errorf("unit cost must be positive, got %v", e.UnitCost)
	}
	if !positive(e.CostPerLifeSaved) {
		return fmt.Errorf("cost per life saved must be positive, got %v", e.CostPerLifeSaved)
	}
	if e.PeoplePerUnit < 0 || math.IsNaN(e.PeoplePerUnit) || math.IsInf(e.PeoplePerUnit, 0) {
		return fmt.Errorf("people per unit must not be negative, got %v", e.PeoplePerUnit)
	}
	return nil
}

// UnitsPerLifeSaved is the number of units that save one life on average.
func (e Estimator) UnitsPerLifeSaved() float64 {
	return e.CostPerLifeSaved / e.UnitCost
}

// Estimate computes the impact of ref, an amount in the reference currency.
// Negative amounts are treated as zero.
func (e Estimator) Estimate(ref float64) Estimate {
	if ref < 0 || math.IsNaN(ref) {
		ref = 0
	}
	units := ref / e.UnitCost
	lives := units / e.UnitsPerLifeSaved()
	return Estimate{
		ReferenceAmount:       ref,
		UnitsPurchased:        units,
		PeopleProtected:       math.Round(ref * e.PeoplePerUnit / e.UnitCost),
		ExpectedLivesSaved:    lives,
		ProbabilityAtLeastOne: mathutil.PoissonSurvival(lives),
	}
}

// SavesAtLeastOneLife reports whether the expected number of lives saved
// reaches one, i.e. the reference amount covers the cost of a life.
func (e Estimator) SavesAtLeastOneLife(est Estimate) bool {
	return est.ReferenceAmount >= e.CostPerLifeSaved
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
