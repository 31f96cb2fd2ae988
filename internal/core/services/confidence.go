package services

import (
	"strings"
	"time"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

// Component fusion weights. Components carry 70% of the overall score,
// quality factors the remaining 30%.
const (
	componentGroupWeight = 0.7
	factorGroupWeight    = 0.3

	weightClassification = 0.25
	weightRetrieval      = 0.30
	weightDrafting       = 0.25
	weightContextual     = 0.20

	weightDataQuality = 0.30
	weightHistorical  = 0.25
	weightComplexity  = 0.25
	weightCoverage    = 0.20
)

// Recommendation thresholds below the auto-resolve gate.
const (
	agentReviewThreshold = 0.6
	humanReviewThreshold = 0.3
)

// popularArticleViews is the view count at which a top match earns the
// popularity bonus. Matches DefaultRetrievalConfig().PopularViewCount.
const popularArticleViews = 100

// AutoResolvePolicy gates the auto_resolve recommendation.
type AutoResolvePolicy struct {
	// Enabled turns auto-resolution on.
	Enabled bool

	// Categories is the allow-list of auto-resolvable categories.
	Categories []string

	// MaxPriority is the most urgent priority still eligible.
	MaxPriority domain.Priority

	// Threshold is the minimum calibrated score.
	Threshold float64
}

// Allows reports whether the policy permits auto-resolution for the
// given category, priority, and calibrated score.
func (p AutoResolvePolicy) Allows(category string, priority domain.Priority, calibrated float64) bool {
	if !p.Enabled || calibrated < p.Threshold || !priority.AtMost(p.MaxPriority) {
		return false
	}
	for _, allowed := range p.Categories {
		if allowed == category {
			return true
		}
	}
	return false
}

// strategyMultipliers discount draft confidence by how reliable each
// strategy has proven to be in general.
var strategyMultipliers = map[domain.DraftStrategy]float64{
	domain.DraftTemplate:   1.0,
	domain.DraftHybrid:     0.9,
	domain.DraftGenerative: 0.85,
	domain.DraftFallback:   0.3,
}

// multiIssueIndicators suggest a ticket bundles several problems.
var multiIssueIndicators = []string{
	"also", "additionally", "another issue", "as well", "furthermore",
	"second problem", "on top of that",
}

// techTerms contribute to the complexity estimate.
var techTerms = []string{
	"api", "webhook", "sdk", "endpoint", "integration", "database",
	"server", "ssl", "certificate", "oauth", "token", "stack trace",
	"exception", "timeout", "dns",
}

// Scorer fuses the per-stage signals into a calibrated confidence and
// a discrete recommendation.
//
// Safe for concurrent use.
type Scorer struct {
	stats   *StatsTracker
	policy  AutoResolvePolicy
	urgency []string
	now     func() time.Time
}

// NewScorer creates a scorer. stats may be nil; historical multipliers
// then default to the neutral prior.
func NewScorer(stats *StatsTracker, rules *RuleSet, policy AutoResolvePolicy) *Scorer {
	return &Scorer{
		stats:   stats,
		policy:  policy,
		urgency: rules.UrgencyKeywords,
		now:     time.Now,
	}
}

// Assess fuses the stage outputs into a ConfidenceAssessment. Every
// produced value lies in [0,1].
func (s *Scorer) Assess(ticket domain.Ticket, cls domain.ClassificationResult, matches []domain.KnowledgeMatch, draft domain.DraftResponse) domain.ConfidenceAssessment {
	components := domain.ConfidenceComponents{
		Classification:     s.classificationScore(cls),
		KnowledgeRetrieval: s.retrievalScore(matches),
		ResponseDrafting:   s.draftingScore(draft),
		Contextual:         s.contextualScore(ticket, cls),
	}
	factors := domain.ConfidenceFactors{
		DataQuality:           s.dataQuality(ticket),
		HistoricalPerformance: s.historicalPerformance(cls.Category.Value),
		Complexity:            s.complexityFactor(ticket, cls),
		Coverage:              s.coverage(matches),
	}

	componentSum := weightClassification*components.Classification +
		weightRetrieval*components.KnowledgeRetrieval +
		weightDrafting*components.ResponseDrafting +
		weightContextual*components.Contextual
	factorSum := weightDataQuality*factors.DataQuality +
		weightHistorical*factors.HistoricalPerformance +
		weightComplexity*factors.Complexity +
		weightCoverage*factors.Coverage
	overall := clamp01(componentGroupWeight*componentSum + factorGroupWeight*factorSum)

	calibrated := s.calibrate(overall)

	return domain.ConfidenceAssessment{
		Components:     components,
		Factors:        factors,
		Overall:        overall,
		Calibrated:     calibrated,
		Recommendation: s.recommend(cls, calibrated),
	}
}

// classificationScore weighs category confidence, priority confidence,
// a routing-reasoning proxy, and a duplicate-safety proxy, then scales
// by the category's historical accuracy.
func (s *Scorer) classificationScore(cls domain.ClassificationResult) float64 {
	routingProxy := 0.4
	if len(cls.Routing.Reasoning) > 0 {
		routingProxy = 0.8
	}
	duplicateSafety := 1.0
	if len(cls.Duplicates) > 0 {
		duplicateSafety = 0.3
	}
	score := 0.4*cls.Category.Confidence +
		0.3*cls.Priority.Confidence +
		0.2*routingProxy +
		0.1*duplicateSafety
	return clamp01(score * s.categoryAccuracy(cls.Category.Value))
}

// retrievalScore starts at the top match score and adds bonuses for
// multiple strong matches, a highly helpful top match, and a popular
// top match, scaled by historical retrieval accuracy.
func (s *Scorer) retrievalScore(matches []domain.KnowledgeMatch) float64 {
	if len(matches) == 0 {
		return 0
	}
	score := matches[0].Score
	strong := 0
	for _, m := range matches {
		if m.Score > 0.6 {
			strong++
		}
	}
	if strong >= 2 {
		score += 0.1
	}
	if matches[0].HelpfulnessRatio > 0.8 {
		score += 0.1
	}
	if matches[0].ViewCount >= popularArticleViews {
		score += 0.05
	}
	accuracy := 0.8
	if s.stats != nil {
		accuracy = s.stats.RetrievalAccuracy()
	}
	return clamp01(score * accuracy)
}

// draftingScore discounts the draft's own confidence by strategy
// reliability, penalises extreme lengths, and scales by the
// strategy's historical accuracy.
func (s *Scorer) draftingScore(draft domain.DraftResponse) float64 {
	multiplier, ok := strategyMultipliers[draft.Strategy]
	if !ok {
		multiplier = 0.5
	}
	score := draft.Confidence * multiplier
	length := len(draft.Content)
	if length < 80 {
		score *= 0.8
	} else if length > 4000 {
		score *= 0.9
	}
	accuracy := 0.8
	if s.stats != nil {
		accuracy = s.stats.StrategyAccuracy(draft.Strategy)
	}
	return clamp01(score * accuracy)
}

// contextualScore starts at a neutral base and adds bonuses for
// requester tier, ticket completeness, attachments, priority
// reasoning, and business-hours timing.
func (s *Scorer) contextualScore(ticket domain.Ticket, cls domain.ClassificationResult) float64 {
	score := 0.5
	if ticket.RequesterTier.Elevated() {
		score += 0.1
	}
	if len(strings.Fields(ticket.Subject)) >= 3 && len(strings.Fields(ticket.Description)) >= 10 {
		score += 0.1
	}
	if ticket.HasAttachments() {
		score += 0.05
	}
	if len(cls.Priority.Reasoning) > 0 {
		score += 0.05
	}
	if s.businessHours() {
		score += 0.1
	}
	return clamp01(score)
}

// dataQuality scores how much the ticket gives the pipeline to work
// with: text length bands, requester info, and category/tag presence.
func (s *Scorer) dataQuality(ticket domain.Ticket) float64 {
	score := 0.2
	subjectWords := len(strings.Fields(ticket.Subject))
	descWords := len(strings.Fields(ticket.Description))
	switch {
	case subjectWords >= 4:
		score += 0.2
	case subjectWords >= 2:
		score += 0.1
	}
	switch {
	case descWords >= 30:
		score += 0.3
	case descWords >= 10:
		score += 0.2
	case descWords >= 3:
		score += 0.1
	}
	if ticket.RequesterName != "" {
		score += 0.1
	}
	if ticket.Category != "" || len(ticket.Tags) > 0 {
		score += 0.2
	}
	return clamp01(score)
}

// historicalPerformance blends the category's accuracy with the
// system-wide accuracy.
func (s *Scorer) historicalPerformance(category string) float64 {
	overall := 0.8
	if s.stats != nil {
		overall = s.stats.OverallAccuracy()
	}
	return clamp01(0.5*s.categoryAccuracy(category) + 0.5*overall)
}

// complexityFactor inverts a weighted complexity estimate: denser
// technical language, multi-issue phrasing, urgency, and high priority
// all lower the factor.
func (s *Scorer) complexityFactor(ticket domain.Ticket, cls domain.ClassificationResult) float64 {
	text := strings.ToLower(ticket.Text())
	words := len(strings.Fields(text))
	if words == 0 {
		return 1
	}

	techHits := 0
	for _, term := range techTerms {
		techHits += strings.Count(text, term)
	}
	techDensity := clamp01(float64(techHits) / 5)

	multiIssue := 0.0
	for _, ind := range multiIssueIndicators {
		if strings.Contains(text, ind) {
			multiIssue = 1
			break
		}
	}

	urgencyHits := 0
	for _, kw := range s.urgency {
		urgencyHits += strings.Count(text, kw)
	}
	urgencyDensity := clamp01(float64(urgencyHits) / 5)

	priorityLoad := float64(cls.Priority.Value.Rank()) / 3

	complexity := clamp01(0.3*techDensity + 0.25*multiIssue + 0.25*urgencyDensity + 0.2*priorityLoad)
	return clamp01(1 - complexity)
}

// coverage scores how well the knowledge base covers the ticket.
func (s *Scorer) coverage(matches []domain.KnowledgeMatch) float64 {
	if len(matches) == 0 {
		return 0
	}
	score := matches[0].Score
	strong := 0
	var helpfulness float64
	for _, m := range matches {
		if m.Score > 0.6 {
			strong++
		}
		helpfulness += m.HelpfulnessRatio
	}
	if strong >= 2 {
		score += 0.1
	}
	if helpfulness/float64(len(matches)) > 0.7 {
		score += 0.1
	}
	return clamp01(score)
}

// calibrate maps the overall score through the piecewise calibration
// table: the containing bin's observed accuracy over its midpoint
// scales the score. Bins snap; no interpolation between them.
func (s *Scorer) calibrate(overall float64) float64 {
	bins := domain.DefaultStats().Bins
	if s.stats != nil {
		bins = s.stats.Bins()
	}
	for _, bin := range bins {
		if bin.Contains(overall) {
			mid := bin.Midpoint()
			if mid <= 0 {
				return clamp01(overall)
			}
			return clamp01(overall * (bin.Accuracy / mid))
		}
	}
	return clamp01(overall)
}

// recommend walks the recommendation ladder.
func (s *Scorer) recommend(cls domain.ClassificationResult, calibrated float64) domain.Recommendation {
	switch {
	case s.policy.Allows(cls.Category.Value, cls.Priority.Value, calibrated):
		return domain.RecommendAutoResolve
	case calibrated >= agentReviewThreshold:
		return domain.RecommendAgentReview
	case calibrated >= humanReviewThreshold:
		return domain.RecommendHumanReview
	default:
		return domain.RecommendEscalate
	}
}

func (s *Scorer) categoryAccuracy(category string) float64 {
	if s.stats == nil {
		return neutralAccuracy
	}
	return s.stats.CategoryAccuracy(category)
}

// businessHours reports whether the assessment is happening during
// working hours, Monday to Friday 09:00-17:00 local time.
func (s *Scorer) businessHours() bool {
	now := s.now()
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return now.Hour() >= 9 && now.Hour() < 17
}
