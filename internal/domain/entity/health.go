package entity

// RiskProfile is the caller-supplied risk personality used by the health
// scorer and the insight generator.
type RiskProfile string

const (
	RiskConservative RiskProfile = "Conservative"
	RiskBalanced     RiskProfile = "Balanced"
	RiskAggressive   RiskProfile = "Aggressive"
)

// ParseRiskProfile maps arbitrary input to a known profile. Unknown values
// fall back to Balanced.
func ParseRiskProfile(s string) RiskProfile {
	switch RiskProfile(s) {
	case RiskConservative, RiskAggressive:
		return RiskProfile(s)
	default:
		return RiskBalanced
	}
}

// HealthAssessment is the derived 0-100 portfolio health verdict. It is a
// pure function of (snapshot, profile): never cached server-side, recomputed
// on every request.
type HealthAssessment struct {
	Score int `json:"score"`
	// Factors are the human-readable notes generated at each scoring step,
	// in scoring order.
	Factors []string `json:"factors"`
	// Explanation is the display string: a coarse banner followed by the
	// concatenated factors.
	Explanation       string `json:"explanation"`
	ImbalanceDetected bool   `json:"imbalanceDetected"`
}
