package domain

import "time"

// Geo represents a WGS-84 latitude/longitude coordinate pair.
// The dataset leaves coordinates blank for some zones; a zero pair means
// "not recorded" and such records are excluded from map views only.
type Geo struct {
	Lat float64 `json:"lat,omitempty"`
	Lon float64 `json:"lon,omitempty"`
}

// Valid reports whether the pair carries real coordinates.
func (g Geo) Valid() bool {
	return g.Lat != 0 || g.Lon != 0
}

// AccidentRecord is one row of the source dataset.
type AccidentRecord struct {
	Region     string `json:"region"`   // raw 사고다발지역시도시군구 label, suffix intact
	Location   string `json:"location"` // 사고지역위치명
	Type       string `json:"type"`     // raw 사고유형구분 string
	Accidents  int    `json:"accidents"`
	Casualties int    `json:"casualties,omitempty"`
	Deaths     int    `json:"deaths,omitempty"`
	Geo        Geo    `json:"geo,omitempty"`
}

// Category is the closed classification of accident types. Unrecognized
// type strings collapse into CategoryOther so that plan lookup is total.
type Category int

const (
	CategoryOther Category = iota
	CategorySchoolZoneChildren
	CategoryPedestrianChildren
	CategoryPedestrianElderly
	CategoryBicycle
)

// Dataset strings for the known categories.
const (
	TypeSchoolZoneChildren = "스쿨존어린이"
	TypePedestrianChildren = "보행어린이"
	TypePedestrianElderly  = "보행노인"
	TypeBicycle            = "자전거"
)

// ParseCategory maps a raw 사고유형구분 string onto the closed set.
// Matching is exact; anything else is CategoryOther.
func ParseCategory(raw string) Category {
	switch raw {
	case TypeSchoolZoneChildren:
		return CategorySchoolZoneChildren
	case TypePedestrianChildren:
		return CategoryPedestrianChildren
	case TypePedestrianElderly:
		return CategoryPedestrianElderly
	case TypeBicycle:
		return CategoryBicycle
	default:
		return CategoryOther
	}
}

func (c Category) String() string {
	switch c {
	case CategorySchoolZoneChildren:
		return TypeSchoolZoneChildren
	case CategoryPedestrianChildren:
		return TypePedestrianChildren
	case CategoryPedestrianElderly:
		return TypePedestrianElderly
	case CategoryBicycle:
		return TypeBicycle
	default:
		return "기타"
	}
}

// Plan is a remediation strategy with its assumed reduction rate.
type Plan struct {
	Strategy string  `json:"strategy"`
	Rate     float64 `json:"rate"`
}

// Plan returns the remediation plan for the category. The switch is
// exhaustive over the enum; CategoryOther carries the default plan.
func (c Category) Plan() Plan {
	switch c {
	case CategorySchoolZoneChildren:
		return Plan{Strategy: "스쿨존 과속단속/시인성 강화", Rate: 0.30}
	case CategoryPedestrianChildren:
		return Plan{Strategy: "보행로 펜스 및 안전교육", Rate: 0.25}
	case CategoryPedestrianElderly:
		return Plan{Strategy: "노인보호구역 및 횡단보도 개선", Rate: 0.20}
	case CategoryBicycle:
		return Plan{Strategy: "자전거 전용도로 및 교차로 개선", Rate: 0.25}
	default:
		return Plan{Strategy: "일반 안전 점검", Rate: 0.10}
	}
}

// DerivedRecord is the enriched, immutable form of an AccidentRecord after
// region cleaning, plan assignment, and the reduction simulation.
type DerivedRecord struct {
	AccidentRecord

	CleanedRegion      string    `json:"cleaned_region"`
	Province           string    `json:"province"`
	Category           Category  `json:"-"`
	Strategy           string    `json:"strategy"`
	ReductionRate      float64   `json:"reduction_rate"`
	PredictedReduction float64   `json:"predicted_reduction"`
	PredictedRemaining float64   `json:"predicted_remaining"`
	ProcessedAt        time.Time `json:"processed_at"`
}
