// Package domain models the Korean national traffic-accident-hotspot
// standard dataset (전국교통사고다발지역표준데이터) and the remediation
// simulation derived from it.
//
// # Data Source
//
// The dataset is published through the Korean public data portal
// (data.go.kr) as a delimited text file, one row per accident-prone zone.
// Files from the portal are usually CP949/EUC-KR encoded; newer exports are
// UTF-8. Decoding is the loader's problem, not this package's — domain code
// only ever sees decoded strings.
//
// # Dataset Conventions
//
// Region labels (사고다발지역시도시군구 column):
//
//	"<시도> <시군구><n>"  →  e.g. "서울특별시 강남구1"
//	The trailing digit run is a per-district zone counter, not part of the
//	administrative name. [CleanRegion] strips it: "서울특별시 강남구1" →
//	"서울특별시 강남구". Labels without a suffix pass through unchanged.
//
// Province extraction:
//
//	The first whitespace-delimited token of a cleaned label is the top-level
//	administrative region (시/도): "서울특별시 강남구" → "서울특별시".
//	A label with no token at all cannot be attributed; see
//	[ErrMalformedRegion] and the ProvinceUnknown policy on [DeriveTable].
//
// Accident categories (사고유형구분 column):
//
//	스쿨존어린이  school-zone children
//	보행어린이    pedestrian children
//	보행노인      pedestrian elderly
//	자전거        bicycle
//
//	Any other string (기타, future additions, typos) maps to CategoryOther.
//	The fallback is a policy decision, not an error: every zone gets at
//	least the general safety review plan.
//
// # Reduction Simulation
//
// Each category carries a remediation plan and an assumed fractional
// reduction rate. The rates are static business constants; the simulation is
// plain arithmetic, not a statistical model:
//
//	스쿨존어린이: 스쿨존 과속단속/시인성 강화   0.30
//	보행어린이:   보행로 펜스 및 안전교육       0.25
//	보행노인:     노인보호구역 및 횡단보도 개선  0.20
//	자전거:       자전거 전용도로 및 교차로 개선 0.25
//	(default):    일반 안전 점검               0.10
//
// PredictedRemaining is defined as the complement of PredictedReduction, so
//
//	PredictedReduction + PredictedRemaining == Accidents
//
// holds exactly for every record, not merely within floating-point error.
package domain
