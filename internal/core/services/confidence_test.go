package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

func newTestScorer(t *testing.T, policy AutoResolvePolicy) *Scorer {
	t.Helper()
	s := NewScorer(nil, DefaultRules(), policy)
	// Pin the clock to a Tuesday morning so the business-hours bonus
	// does not depend on when the tests run.
	s.now = func() time.Time {
		return time.Date(2025, 6, 3, 10, 0, 0, 0, time.Local)
	}
	return s
}

func richTicket() domain.Ticket {
	return domain.Ticket{
		ID:            "t-1",
		Subject:       "Cannot sign in after password reset",
		Description:   "After resetting my password I still cannot sign in to my account on any device, the page just reloads",
		RequesterName: "Jordan",
		Tags:          []string{"login"},
	}
}

func goodStageOutputs() (domain.ClassificationResult, []domain.KnowledgeMatch, domain.DraftResponse) {
	cls := domain.ClassificationResult{
		Category: domain.CategoryResult{Value: "account", Confidence: 0.6},
		Priority: domain.PriorityResult{
			Value:      domain.PriorityMedium,
			Confidence: 0.5,
			Reasoning:  []string{"no strong priority signal"},
		},
		Routing: domain.RoutingResult{
			Department: "customer-success",
			Reasoning:  []string{"routing rule for category account"},
		},
	}
	matches := []domain.KnowledgeMatch{
		{ID: "kb-1", Score: 0.85, HelpfulnessRatio: 0.9, ViewCount: 200},
		{ID: "kb-2", Score: 0.7, HelpfulnessRatio: 0.8, ViewCount: 50},
	}
	draft := domain.DraftResponse{
		Content:    "Hello Jordan, here is how to regain access to your account. Use the reset link and check your spam folder.",
		Strategy:   domain.DraftTemplate,
		Confidence: 0.8,
	}
	return cls, matches, draft
}

func TestAssess_AllValuesWithinUnitRange(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})
	cls, matches, draft := goodStageOutputs()

	a := s.Assess(richTicket(), cls, matches, draft)

	for name, v := range map[string]float64{
		"classification": a.Components.Classification,
		"retrieval":      a.Components.KnowledgeRetrieval,
		"drafting":       a.Components.ResponseDrafting,
		"contextual":     a.Components.Contextual,
		"data quality":   a.Factors.DataQuality,
		"historical":     a.Factors.HistoricalPerformance,
		"complexity":     a.Factors.Complexity,
		"coverage":       a.Factors.Coverage,
		"overall":        a.Overall,
		"calibrated":     a.Calibrated,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 1.0, name)
	}
}

func TestAssess_DegradedStagesLowerConfidence(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})
	cls, matches, draft := goodStageOutputs()

	good := s.Assess(richTicket(), cls, matches, draft)

	degradedDraft := domain.DraftResponse{
		Content:    fallbackContent,
		Strategy:   domain.DraftFallback,
		Confidence: fallbackConfidence,
	}
	bad := s.Assess(richTicket(), cls, nil, degradedDraft)

	assert.Less(t, bad.Overall, good.Overall)
	assert.Equal(t, 0.0, bad.Components.KnowledgeRetrieval)
	assert.Equal(t, 0.0, bad.Factors.Coverage)
}

func TestRetrievalScore_NoMatchesScoresZero(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})

	assert.Equal(t, 0.0, s.retrievalScore(nil))
}

func TestRetrievalScore_BonusesForStrongMatches(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})

	single := s.retrievalScore([]domain.KnowledgeMatch{{Score: 0.7}})
	reinforced := s.retrievalScore([]domain.KnowledgeMatch{
		{Score: 0.7, HelpfulnessRatio: 0.9, ViewCount: 150},
		{Score: 0.65},
	})

	assert.Greater(t, reinforced, single)
}

func TestRetrievalScore_PopularityBonusAtThreshold(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})

	below := s.retrievalScore([]domain.KnowledgeMatch{{Score: 0.5, ViewCount: popularArticleViews - 1}})
	at := s.retrievalScore([]domain.KnowledgeMatch{{Score: 0.5, ViewCount: popularArticleViews}})

	assert.InDelta(t, 0.05*0.8, at-below, 1e-9)
}

func TestDraftingScore_FallbackHeavilyDiscounted(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})

	template := s.draftingScore(domain.DraftResponse{
		Content:    "A reply that is comfortably past the short-content penalty threshold for drafts.",
		Strategy:   domain.DraftTemplate,
		Confidence: 0.8,
	})
	fallback := s.draftingScore(domain.DraftResponse{
		Content:    fallbackContent,
		Strategy:   domain.DraftFallback,
		Confidence: fallbackConfidence,
	})

	assert.Greater(t, template, fallback)
	assert.Less(t, fallback, 0.1)
}

func TestDraftingScore_PenalisesVeryShortContent(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})

	long := domain.DraftResponse{
		Content:    "This reply is long enough to avoid the short-content penalty applied by the scorer.",
		Strategy:   domain.DraftTemplate,
		Confidence: 0.8,
	}
	short := long
	short.Content = "Too short."

	assert.Less(t, s.draftingScore(short), s.draftingScore(long))
}

func TestComplexityFactor_TechnicalMultiIssueTicketsScoreLower(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})

	simple := domain.Ticket{Subject: "Question about my invoice"}
	complexTicket := domain.Ticket{
		Subject:     "API integration broken",
		Description: "The api webhook endpoint times out, additionally the sdk throws an exception and another issue is the oauth token expiry",
	}
	cls := domain.ClassificationResult{Priority: domain.PriorityResult{Value: domain.PriorityMedium}}

	assert.Greater(t, s.complexityFactor(simple, cls), s.complexityFactor(complexTicket, cls))
}

func TestComplexityFactor_EmptyTextIsMaximal(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})

	cls := domain.ClassificationResult{Priority: domain.PriorityResult{Value: domain.PriorityLow}}
	assert.Equal(t, 1.0, s.complexityFactor(domain.Ticket{}, cls))
}

func TestCalibrate_SnapsToContainingBin(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})

	// Default bins have accuracy equal to the midpoint: identity.
	assert.InDelta(t, 0.65, s.calibrate(0.65), 1e-9)

	store := newRecordingMetricsStore()
	store.stats.Bins = []domain.CalibrationBin{
		{Low: 0.0, High: 0.5, Accuracy: 0.1},
		{Low: 0.5, High: 1.01, Accuracy: 0.9},
	}
	stats, err := NewStatsTracker(context.Background(), store)
	require.NoError(t, err)
	s.stats = stats

	// [0.5, 1.01) has midpoint 0.755: a 0.6 score scales by 0.9/0.755.
	assert.InDelta(t, 0.6*(0.9/0.755), s.calibrate(0.6), 1e-9)
	// The low bin drags scores down: 0.4 * (0.1/0.25).
	assert.InDelta(t, 0.16, s.calibrate(0.4), 1e-9)
}

func TestCalibrate_ClampsToUnitRange(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})

	store := newRecordingMetricsStore()
	store.stats.Bins = []domain.CalibrationBin{{Low: 0.0, High: 1.01, Accuracy: 1.0}}
	stats, err := NewStatsTracker(context.Background(), store)
	require.NoError(t, err)
	s.stats = stats

	assert.LessOrEqual(t, s.calibrate(0.9), 1.0)
}

func TestRecommend_LadderThresholds(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})
	cls := domain.ClassificationResult{
		Category: domain.CategoryResult{Value: "billing"},
		Priority: domain.PriorityResult{Value: domain.PriorityLow},
	}

	assert.Equal(t, domain.RecommendAgentReview, s.recommend(cls, 0.75))
	assert.Equal(t, domain.RecommendAgentReview, s.recommend(cls, 0.6))
	assert.Equal(t, domain.RecommendHumanReview, s.recommend(cls, 0.45))
	assert.Equal(t, domain.RecommendHumanReview, s.recommend(cls, 0.3))
	assert.Equal(t, domain.RecommendEscalate, s.recommend(cls, 0.29))
}

func TestRecommend_AutoResolveRequiresEveryGate(t *testing.T) {
	policy := AutoResolvePolicy{
		Enabled:     true,
		Categories:  []string{"billing"},
		MaxPriority: domain.PriorityMedium,
		Threshold:   0.85,
	}
	s := newTestScorer(t, policy)

	eligible := domain.ClassificationResult{
		Category: domain.CategoryResult{Value: "billing"},
		Priority: domain.PriorityResult{Value: domain.PriorityLow},
	}
	assert.Equal(t, domain.RecommendAutoResolve, s.recommend(eligible, 0.9))

	// Below the threshold.
	assert.Equal(t, domain.RecommendAgentReview, s.recommend(eligible, 0.84))

	// Category outside the allow-list.
	offList := eligible
	offList.Category.Value = "technical"
	assert.Equal(t, domain.RecommendAgentReview, s.recommend(offList, 0.9))

	// Priority too urgent.
	urgent := eligible
	urgent.Priority.Value = domain.PriorityUrgent
	assert.Equal(t, domain.RecommendAgentReview, s.recommend(urgent, 0.9))

	// Policy disabled entirely.
	disabled := newTestScorer(t, AutoResolvePolicy{
		Categories:  []string{"billing"},
		MaxPriority: domain.PriorityMedium,
		Threshold:   0.85,
	})
	assert.Equal(t, domain.RecommendAgentReview, disabled.recommend(eligible, 0.9))
}

func TestContextualScore_BonusesAccumulate(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})

	bare := s.contextualScore(domain.Ticket{}, domain.ClassificationResult{})

	ticket := richTicket()
	ticket.RequesterTier = domain.TierEnterprise
	ticket.AttachmentCount = 1
	cls := domain.ClassificationResult{
		Priority: domain.PriorityResult{Reasoning: []string{"some rule"}},
	}
	full := s.contextualScore(ticket, cls)

	assert.Greater(t, full, bare)
	assert.LessOrEqual(t, full, 1.0)
}

func TestDataQuality_RewardsCompleteTickets(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})

	sparse := s.dataQuality(domain.Ticket{Subject: "Help"})
	rich := s.dataQuality(domain.Ticket{
		Subject:       "Cannot sign in after password reset",
		Description:   "After resetting my password I still cannot sign in to my account on any device, the page just reloads every time I press the button and no error is shown anywhere on the screen at all",
		RequesterName: "Jordan",
		Tags:          []string{"login"},
	})

	assert.Greater(t, rich, sparse)
	assert.LessOrEqual(t, rich, 1.0)
}

func TestBusinessHours_WeekendExcluded(t *testing.T) {
	s := newTestScorer(t, AutoResolvePolicy{})

	s.now = func() time.Time {
		return time.Date(2025, 6, 7, 10, 0, 0, 0, time.Local) // Saturday
	}
	assert.False(t, s.businessHours())

	s.now = func() time.Time {
		return time.Date(2025, 6, 3, 10, 0, 0, 0, time.Local) // Tuesday
	}
	assert.True(t, s.businessHours())

	s.now = func() time.Time {
		return time.Date(2025, 6, 3, 20, 0, 0, 0, time.Local) // Tuesday evening
	}
	assert.False(t, s.businessHours())
}
