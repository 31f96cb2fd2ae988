package domain

// Recommendation is the discrete disposition derived from the
// calibrated confidence score.
type Recommendation string

// Recommendations in descending order of confidence.
const (
	RecommendAutoResolve Recommendation = "auto_resolve"
	RecommendAgentReview Recommendation = "agent_review"
	RecommendHumanReview Recommendation = "human_review"
	RecommendEscalate    Recommendation = "escalate"
)

// ConfidenceComponents holds the per-stage confidence scores,
// each in [0,1].
type ConfidenceComponents struct {
	Classification     float64
	KnowledgeRetrieval float64
	ResponseDrafting   float64
	Contextual         float64
}

// ConfidenceFactors holds the ticket-quality factors, each in [0,1].
type ConfidenceFactors struct {
	DataQuality           float64
	HistoricalPerformance float64
	Complexity            float64
	Coverage              float64
}

// ConfidenceAssessment is the fused, calibrated confidence output.
type ConfidenceAssessment struct {
	// Components are the per-stage scores.
	Components ConfidenceComponents

	// Factors are the ticket-quality factors.
	Factors ConfidenceFactors

	// Overall is the weighted fusion of components and factors in [0,1].
	Overall float64

	// Calibrated is Overall adjusted by historically observed accuracy
	// for its score band, clamped to [0,1].
	Calibrated float64

	// Recommendation is the discrete disposition.
	Recommendation Recommendation
}

// CalibrationBin maps a score band to its historically observed
// accuracy. Bins are kept sorted ascending by Low and are
// non-overlapping.
type CalibrationBin struct {
	// Low is the inclusive lower bound of the band.
	Low float64

	// High is the exclusive upper bound of the band
	// (inclusive for the final bin).
	High float64

	// Accuracy is the observed accuracy of past suggestions whose
	// overall score fell in this band.
	Accuracy float64
}

// Midpoint returns the centre of the bin's score band.
func (b CalibrationBin) Midpoint() float64 {
	return (b.Low + b.High) / 2
}

// Contains reports whether score falls inside the bin.
func (b CalibrationBin) Contains(score float64) bool {
	return score >= b.Low && score < b.High
}
