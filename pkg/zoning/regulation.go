package zoning

import (
	"fmt"
	"math"
)

// Regulation is the set of limits a zone imposes on a parcel. Ratios are
// percentages of parcel area; heights and setbacks are meters. A zero
// MaxHeight or MaxFloors means that axis is uncapped.
type Regulation struct {
	MaxCoverageRatio  float64 `json:"max_coverage_ratio" yaml:"max_coverage_ratio"`
	MaxFloorAreaRatio float64 `json:"max_floor_area_ratio" yaml:"max_floor_area_ratio"`
	MaxHeight         float64 `json:"max_height" yaml:"max_height"`
	MaxFloors         int     `json:"max_floors" yaml:"max_floors"`
	SetbackFront      float64 `json:"setback_front" yaml:"setback_front"`
	SetbackRear       float64 `json:"setback_rear" yaml:"setback_rear"`
	SetbackLeft       float64 `json:"setback_left" yaml:"setback_left"`
	SetbackRight      float64 `json:"setback_right" yaml:"setback_right"`
}

// SiteSetback is the uniform site-open-space inset: the largest of the four
// directional setbacks.
func (r Regulation) SiteSetback() float64 {
	return math.Max(math.Max(r.SetbackFront, r.SetbackRear), math.Max(r.SetbackLeft, r.SetbackRight))
}

// Upper limits from the National Land Planning and Utilization Act enforcement
// decree, with typical municipal setbacks.
var regulations = [...]Regulation{
	ExclusiveResidential1:  {MaxCoverageRatio: 50, MaxFloorAreaRatio: 100, MaxFloors: 3, SetbackFront: 1.5, SetbackRear: 1.5, SetbackLeft: 1.5, SetbackRight: 1.5},
	ExclusiveResidential2:  {MaxCoverageRatio: 50, MaxFloorAreaRatio: 150, MaxFloors: 4, SetbackFront: 1.5, SetbackRear: 1.5, SetbackLeft: 1, SetbackRight: 1},
	GeneralResidential1:    {MaxCoverageRatio: 60, MaxFloorAreaRatio: 200, MaxFloors: 4, SetbackFront: 1, SetbackRear: 1, SetbackLeft: 0.5, SetbackRight: 0.5},
	GeneralResidential2:    {MaxCoverageRatio: 60, MaxFloorAreaRatio: 250, SetbackFront: 1, SetbackRear: 1, SetbackLeft: 0.5, SetbackRight: 0.5},
	GeneralResidential3:    {MaxCoverageRatio: 50, MaxFloorAreaRatio: 300, SetbackFront: 1, SetbackRear: 1, SetbackLeft: 0.5, SetbackRight: 0.5},
	SemiResidential:        {MaxCoverageRatio: 70, MaxFloorAreaRatio: 500, SetbackFront: 1, SetbackRear: 0.5, SetbackLeft: 0.5, SetbackRight: 0.5},
	CentralCommercial:      {MaxCoverageRatio: 90, MaxFloorAreaRatio: 1500, SetbackFront: 0.5},
	GeneralCommercial:      {MaxCoverageRatio: 80, MaxFloorAreaRatio: 1300, SetbackFront: 0.5},
	NeighborhoodCommercial: {MaxCoverageRatio: 70, MaxFloorAreaRatio: 900, SetbackFront: 0.5},
	DistributionCommercial: {MaxCoverageRatio: 80, MaxFloorAreaRatio: 1100, SetbackFront: 0.5},
	ExclusiveIndustrial:    {MaxCoverageRatio: 70, MaxFloorAreaRatio: 300, SetbackFront: 1, SetbackRear: 1, SetbackLeft: 1, SetbackRight: 1},
	GeneralIndustrial:      {MaxCoverageRatio: 70, MaxFloorAreaRatio: 350, SetbackFront: 1, SetbackRear: 1, SetbackLeft: 1, SetbackRight: 1},
	SemiIndustrial:         {MaxCoverageRatio: 70, MaxFloorAreaRatio: 400, SetbackFront: 1, SetbackRear: 1, SetbackLeft: 0.5, SetbackRight: 0.5},
	PreservationGreen:      {MaxCoverageRatio: 20, MaxFloorAreaRatio: 80, MaxFloors: 4, SetbackFront: 2, SetbackRear: 2, SetbackLeft: 2, SetbackRight: 2},
	ProductionGreen:        {MaxCoverageRatio: 20, MaxFloorAreaRatio: 100, MaxFloors: 4, SetbackFront: 2, SetbackRear: 2, SetbackLeft: 2, SetbackRight: 2},
	NaturalGreen:           {MaxCoverageRatio: 20, MaxFloorAreaRatio: 100, MaxFloors: 4, SetbackFront: 2, SetbackRear: 2, SetbackLeft: 2, SetbackRight: 2},
	PreservationManagement: {MaxCoverageRatio: 20, MaxFloorAreaRatio: 80, MaxFloors: 4, SetbackFront: 2, SetbackRear: 2, SetbackLeft: 2, SetbackRight: 2},
	ProductionManagement:   {MaxCoverageRatio: 20, MaxFloorAreaRatio: 80, MaxFloors: 4, SetbackFront: 2, SetbackRear: 2, SetbackLeft: 2, SetbackRight: 2},
	PlanningManagement:     {MaxCoverageRatio: 40, MaxFloorAreaRatio: 100, MaxFloors: 4, SetbackFront: 1.5, SetbackRear: 1.5, SetbackLeft: 1.5, SetbackRight: 1.5},
	AgricultureForestry:    {MaxCoverageRatio: 20, MaxFloorAreaRatio: 80, MaxFloors: 4, SetbackFront: 2, SetbackRear: 2, SetbackLeft: 2, SetbackRight: 2},
	NaturalConservation:    {MaxCoverageRatio: 20, MaxFloorAreaRatio: 80, MaxFloors: 3, MaxHeight: 12, SetbackFront: 3, SetbackRear: 3, SetbackLeft: 3, SetbackRight: 3},
}

// Adding a zone without a table row fails to compile.
var _ = [1]struct{}{}[len(regulations)-int(zoneCount)]

// RegulationFor returns the limits for z. An unknown zone, or a row left at
// its zero value, is a programming error and panics.
func RegulationFor(z Zone) Regulation {
	if !z.Valid() {
		panic(fmt.Sprintf("zoning: no regulation for %v", z))
	}
	r := regulations[z]
	if r.MaxCoverageRatio <= 0 || r.MaxFloorAreaRatio <= 0 {
		panic(fmt.Sprintf("zoning: empty regulation row for %v", z))
	}
	return r
}
