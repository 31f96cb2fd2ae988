package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
	"github.com/akash-d122/helpdesk-triage/internal/core/ports/driven"
)

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	content string
	err     error
	calls   int
	prompts []string
}

func (m *mockLLM) Complete(ctx context.Context, prompt string, _ driven.CompleteOptions) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

func (m *mockLLM) ModelName() string { return "mock-model" }

func (m *mockLLM) Close() error { return nil }

func newTestDrafter(t *testing.T, llm driven.LLMService, cfg DraftConfig) *Drafter {
	t.Helper()
	d, err := NewDrafter(DefaultTemplates(), DefaultRules(), llm, cfg)
	require.NoError(t, err)
	return d
}

func confidentClassification(category string) domain.ClassificationResult {
	return domain.ClassificationResult{
		Category: domain.CategoryResult{Value: category, Confidence: 0.7},
		Priority: domain.PriorityResult{Value: domain.PriorityMedium, Confidence: 0.5},
	}
}

func sampleMatches() []domain.KnowledgeMatch {
	return []domain.KnowledgeMatch{
		{ID: "kb-1", Title: "Reset guide", Summary: "How to reset", Score: 0.8},
	}
}

func TestNewDrafter_MalformedTemplateFails(t *testing.T) {
	_, err := NewDrafter([]ResponseTemplate{
		{ID: "bad", Category: "billing", Body: "{{.Broken"},
	}, DefaultRules(), nil, DefaultDraftConfig())

	assert.Error(t, err)
}

func TestDraft_ConfidentClassificationUsesTemplate(t *testing.T) {
	d := newTestDrafter(t, nil, DefaultDraftConfig())

	ticket := domain.Ticket{RequesterName: "Jordan", Subject: "Double charge"}
	resp := d.Draft(context.Background(), ticket, confidentClassification("billing"), nil)

	assert.Equal(t, domain.DraftTemplate, resp.Strategy)
	assert.Equal(t, templateConfidence, resp.Confidence)
	assert.Equal(t, "billing-standard", resp.SourceID)
	assert.Contains(t, resp.Content, "Hello Jordan,")
}

func TestDraft_LowConfidenceWithoutProviderUsesClosestTemplate(t *testing.T) {
	d := newTestDrafter(t, nil, DefaultDraftConfig())

	cls := confidentClassification("billing")
	cls.Category.Confidence = 0.1
	resp := d.Draft(context.Background(), domain.Ticket{Subject: "Charge"}, cls, nil)

	assert.Equal(t, domain.DraftTemplate, resp.Strategy)
	// Closest template is in the declared category, so full confidence.
	assert.Equal(t, templateConfidence, resp.Confidence)
}

func TestDraft_ClosestTemplateFromOtherCategoryScoresLower(t *testing.T) {
	d := newTestDrafter(t, nil, DefaultDraftConfig())

	cls := confidentClassification("shipping")
	resp := d.Draft(context.Background(), domain.Ticket{Subject: "Where is my package"}, cls, nil)

	assert.Equal(t, domain.DraftTemplate, resp.Strategy)
	assert.Equal(t, closestConfidence, resp.Confidence)
	assert.Equal(t, "general-ack", resp.SourceID)
}

func TestDraft_GenerativeWithMatches(t *testing.T) {
	llm := &mockLLM{content: "Here is a personalised reply."}
	d := newTestDrafter(t, llm, DefaultDraftConfig())

	cls := confidentClassification("shipping")
	resp := d.Draft(context.Background(), domain.Ticket{Subject: "Lost parcel"}, cls, sampleMatches())

	assert.Equal(t, domain.DraftGenerative, resp.Strategy)
	assert.InDelta(t, generativeConfidence+matchBonus, resp.Confidence, 1e-9)
	assert.Equal(t, "mock-model", resp.SourceID)
	assert.Equal(t, "Here is a personalised reply.", resp.Content)
	require.Equal(t, 1, llm.calls)
	assert.Contains(t, llm.prompts[0], "Reset guide")
}

func TestDraft_HybridWhenNoMatches(t *testing.T) {
	llm := &mockLLM{content: "Rewritten template reply."}
	d := newTestDrafter(t, llm, DefaultDraftConfig())

	cls := confidentClassification("shipping")
	resp := d.Draft(context.Background(), domain.Ticket{Subject: "Package"}, cls, nil)

	assert.Equal(t, domain.DraftHybrid, resp.Strategy)
	assert.Equal(t, hybridConfidence, resp.Confidence)
	assert.Equal(t, "general-ack+mock-model", resp.SourceID)
}

func TestDraft_ProviderFailureDegradesToTemplate(t *testing.T) {
	llm := &mockLLM{err: errors.New("provider down")}
	d := newTestDrafter(t, llm, DefaultDraftConfig())

	cls := confidentClassification("shipping")
	resp := d.Draft(context.Background(), domain.Ticket{Subject: "Package"}, cls, sampleMatches())

	assert.Equal(t, domain.DraftTemplate, resp.Strategy)
	assert.Equal(t, "general-ack", resp.SourceID)
}

func TestDraft_RateLimitDegradesWithoutRetry(t *testing.T) {
	cfg := DefaultDraftConfig()
	cfg.RequestsPerMinute = 1
	llm := &mockLLM{content: "reply"}
	d := newTestDrafter(t, llm, cfg)
	// Drain the single burst token.
	require.True(t, d.limiter.Allow())

	cls := confidentClassification("shipping")
	resp := d.Draft(context.Background(), domain.Ticket{Subject: "Package"}, cls, sampleMatches())

	assert.Equal(t, domain.DraftTemplate, resp.Strategy)
	assert.Equal(t, 0, llm.calls, "rate-limited calls never reach the provider")
}

func TestDraft_EmptyCompletionDegrades(t *testing.T) {
	llm := &mockLLM{content: "   "}
	d := newTestDrafter(t, llm, DefaultDraftConfig())

	cls := confidentClassification("shipping")
	resp := d.Draft(context.Background(), domain.Ticket{Subject: "Package"}, cls, sampleMatches())

	assert.Equal(t, domain.DraftTemplate, resp.Strategy)
}

func TestDraft_NoTemplatesAndNoProviderFallsBack(t *testing.T) {
	d, err := NewDrafter(nil, DefaultRules(), nil, DefaultDraftConfig())
	require.NoError(t, err)

	resp := d.Draft(context.Background(), domain.Ticket{Subject: "Anything"}, confidentClassification("billing"), nil)

	assert.Equal(t, domain.DraftFallback, resp.Strategy)
	assert.Equal(t, fallbackConfidence, resp.Confidence)
	assert.Equal(t, fallbackContent, resp.Content)
}

func TestDraft_TruncatesLongContent(t *testing.T) {
	cfg := DefaultDraftConfig()
	cfg.MaxLength = 40
	llm := &mockLLM{content: strings.Repeat("long reply ", 20)}
	d := newTestDrafter(t, llm, cfg)

	cls := confidentClassification("shipping")
	resp := d.Draft(context.Background(), domain.Ticket{Subject: "Package"}, cls, sampleMatches())

	assert.True(t, resp.Truncated)
	assert.Len(t, resp.Content, 40)
	assert.InDelta(t, generativeConfidence+matchBonus-truncationPenalty, resp.Confidence, 1e-9)
}

func TestDraft_TruncatesOnRuneBoundary(t *testing.T) {
	cfg := DefaultDraftConfig()
	cfg.MaxLength = 41
	llm := &mockLLM{content: strings.Repeat("é", 30)}
	d := newTestDrafter(t, llm, cfg)

	cls := confidentClassification("shipping")
	resp := d.Draft(context.Background(), domain.Ticket{Subject: "Package"}, cls, sampleMatches())

	assert.True(t, resp.Truncated)
	assert.True(t, utf8.ValidString(resp.Content))
	assert.Len(t, resp.Content, 40)
}

func TestDraft_RecordsGenerationTime(t *testing.T) {
	d := newTestDrafter(t, nil, DefaultDraftConfig())

	resp := d.Draft(context.Background(), domain.Ticket{Subject: "Hi"}, confidentClassification("billing"), nil)

	assert.GreaterOrEqual(t, resp.GenerationTimeMs, int64(0))
}

func TestDraft_SignatureUpgradesForElevatedTier(t *testing.T) {
	d := newTestDrafter(t, nil, DefaultDraftConfig())

	ticket := domain.Ticket{RequesterTier: domain.TierPremium, Subject: "Billing question"}
	resp := d.Draft(context.Background(), ticket, confidentClassification("billing"), nil)

	assert.Contains(t, resp.Content, "Priority Support")
}

func TestLimiterTokens_NoProvider(t *testing.T) {
	d := newTestDrafter(t, nil, DefaultDraftConfig())

	assert.Equal(t, -1.0, d.LimiterTokens())
	assert.Empty(t, d.ProviderModel())
}
