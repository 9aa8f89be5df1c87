// Package scoring converts feature evidence into four confidence-tagged
// completeness dimensions and a 0-100 composite.
package scoring

// Confidence tags how a score was derived. Nothing is ever presented as a
// hard fact when it was inferred or absent: a missing input is UNAVAILABLE,
// never a silent zero.
type Confidence string

const (
	// ConfidenceMeasured means directly counted from files on disk.
	ConfidenceMeasured Confidence = "MEASURED"

	// ConfidenceValidated means derived from a real external tool run.
	ConfidenceValidated Confidence = "VALIDATED"

	// ConfidenceEstimated means derived from a regex-based approximation.
	ConfidenceEstimated Confidence = "ESTIMATED"

	// ConfidencePatternBased means pattern detection, not a certified
	// result (e.g. accessibility markers are not an audit).
	ConfidencePatternBased Confidence = "PATTERN-BASED"

	// ConfidenceHeuristic means several estimates compounded.
	ConfidenceHeuristic Confidence = "HEURISTIC"

	// ConfidenceUnavailable means the input needed for this score did not
	// exist.
	ConfidenceUnavailable Confidence = "UNAVAILABLE"
)

// ScoreDetail is one scored dimension with its evidence and provenance.
type ScoreDetail struct {
	// Score is bounded to the dimension's sub-range (0-25).
	Score int `json:"score"`

	// Details are human-readable evidence lines.
	Details []string `json:"details"`

	Confidence Confidence `json:"confidence"`

	// Source is free-text provenance for the score.
	Source string `json:"source"`
}

// CompletenessScore is one feature's four dimensions plus the clamped
// composite and its qualitative band.
type CompletenessScore struct {
	Feature string `json:"feature"`

	Implementation ScoreDetail `json:"implementation"`
	TestSignal     ScoreDetail `json:"test_signal"`
	Accessibility  ScoreDetail `json:"accessibility"`
	CodeQuality    ScoreDetail `json:"code_quality"`

	// Total is the sum of the four dimensions, clamped to [0,100].
	Total int `json:"total"`

	// Band is the qualitative interpretation of Total.
	Band string `json:"band"`
}

// DimensionMax bounds each dimension's sub-range.
const DimensionMax = 25

// Band maps a total to its qualitative interpretation.
func Band(total int) string {
	switch {
	case total >= 90:
		return "production-ready"
	case total >= 75:
		return "minor polish needed"
	case total >= 50:
		return "functional with gaps"
	case total >= 25:
		return "substantial work remaining"
	default:
		return "major rework required"
	}
}

func clampDimension(score int) int {
	if score < 0 {
		return 0
	}
	if score > DimensionMax {
		return DimensionMax
	}
	return score
}

func clampTotal(total int) int {
	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return total
}
