// Package zoning holds the static use-district regulation table.
package zoning

import (
	"fmt"
	"strings"
)

// Zone is a Korean land-use district (용도지역).
type Zone int

const (
	ExclusiveResidential1 Zone = iota
	ExclusiveResidential2
	GeneralResidential1
	GeneralResidential2
	GeneralResidential3
	SemiResidential
	CentralCommercial
	GeneralCommercial
	NeighborhoodCommercial
	DistributionCommercial
	ExclusiveIndustrial
	GeneralIndustrial
	SemiIndustrial
	PreservationGreen
	ProductionGreen
	NaturalGreen
	PreservationManagement
	ProductionManagement
	PlanningManagement
	AgricultureForestry
	NaturalConservation

	zoneCount
)

var zoneKeys = [...]string{
	ExclusiveResidential1:  "exclusive_residential_1",
	ExclusiveResidential2:  "exclusive_residential_2",
	GeneralResidential1:    "general_residential_1",
	GeneralResidential2:    "general_residential_2",
	GeneralResidential3:    "general_residential_3",
	SemiResidential:        "semi_residential",
	CentralCommercial:      "central_commercial",
	GeneralCommercial:      "general_commercial",
	NeighborhoodCommercial: "neighborhood_commercial",
	DistributionCommercial: "distribution_commercial",
	ExclusiveIndustrial:    "exclusive_industrial",
	GeneralIndustrial:      "general_industrial",
	SemiIndustrial:         "semi_industrial",
	PreservationGreen:      "preservation_green",
	ProductionGreen:        "production_green",
	NaturalGreen:           "natural_green",
	PreservationManagement: "preservation_management",
	ProductionManagement:   "production_management",
	PlanningManagement:     "planning_management",
	AgricultureForestry:    "agriculture_forestry",
	NaturalConservation:    "natural_conservation",
}

var koreanNames = [...]string{
	ExclusiveResidential1:  "제1종전용주거지역",
	ExclusiveResidential2:  "제2종전용주거지역",
	GeneralResidential1:    "제1종일반주거지역",
	GeneralResidential2:    "제2종일반주거지역",
	GeneralResidential3:    "제3종일반주거지역",
	SemiResidential:        "준주거지역",
	CentralCommercial:      "중심상업지역",
	GeneralCommercial:      "일반상업지역",
	NeighborhoodCommercial: "근린상업지역",
	DistributionCommercial: "유통상업지역",
	ExclusiveIndustrial:    "전용공업지역",
	GeneralIndustrial:      "일반공업지역",
	SemiIndustrial:         "준공업지역",
	PreservationGreen:      "보전녹지지역",
	ProductionGreen:        "생산녹지지역",
	NaturalGreen:           "자연녹지지역",
	PreservationManagement: "보전관리지역",
	ProductionManagement:   "생산관리지역",
	PlanningManagement:     "계획관리지역",
	AgricultureForestry:    "농림지역",
	NaturalConservation:    "자연환경보전지역",
}

// Both name tables must cover every zone.
var (
	_ = [1]struct{}{}[len(zoneKeys)-int(zoneCount)]
	_ = [1]struct{}{}[len(koreanNames)-int(zoneCount)]
)

// Valid reports whether z is a known zone.
func (z Zone) Valid() bool {
	return z >= 0 && z < zoneCount
}

func (z Zone) String() string {
	if !z.Valid() {
		return fmt.Sprintf("Zone(%d)", int(z))
	}
	return zoneKeys[z]
}

// KoreanName returns the statutory name of the district.
func (z Zone) KoreanName() string {
	if !z.Valid() {
		return z.String()
	}
	return koreanNames[z]
}

// ParseZone accepts the snake-case key or the Korean statutory name.
func ParseZone(s string) (Zone, error) {
	s = strings.TrimSpace(s)
	key := strings.ReplaceAll(strings.ToLower(s), "-", "_")
	for z := Zone(0); z < zoneCount; z++ {
		if zoneKeys[z] == key || koreanNames[z] == s {
			return z, nil
		}
	}
	return 0, fmt.Errorf("unknown zone %q", s)
}

// AllZones returns every zone in table order.
func AllZones() []Zone {
	out := make([]Zone, zoneCount)
	for i := range out {
		out[i] = Zone(i)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (z Zone) MarshalText() ([]byte, error) {
	if !z.Valid() {
		return nil, fmt.Errorf("invalid zone %d", int(z))
	}
	return []byte(zoneKeys[z]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (z *Zone) UnmarshalText(b []byte) error {
	v, err := ParseZone(string(b))
	if err != nil {
		return err
	}
	*z = v
	return nil
}
