package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
	"github.com/akash-d122/helpdesk-triage/internal/core/ports/driven"
	"github.com/akash-d122/helpdesk-triage/internal/logger"
)

// DraftConfig tunes the response drafting stage.
type DraftConfig struct {
	// MaxLength caps the reply length in characters; longer content is
	// truncated and the draft confidence marked down.
	MaxLength int

	// TopMatches is how many knowledge matches are rendered into
	// replies and prompts.
	TopMatches int

	// TemplateConfidence is the classification confidence at or above
	// which a declared template is preferred outright.
	TemplateConfidence float64

	// ProviderTimeout bounds each generative call.
	ProviderTimeout time.Duration

	// RequestsPerMinute is the generative rate limit. Exceeding it
	// fails the call without retry; the drafter degrades instead.
	RequestsPerMinute int

	// MaxTokens and Temperature are passed to the provider.
	MaxTokens   int
	Temperature float64

	// AgentName is the name signed on template replies.
	AgentName string
}

// DefaultDraftConfig returns the production defaults.
func DefaultDraftConfig() DraftConfig {
	return DraftConfig{
		MaxLength:          2000,
		TopMatches:         3,
		TemplateConfidence: 0.5,
		ProviderTimeout:    20 * time.Second,
		RequestsPerMinute:  20,
		MaxTokens:          500,
		Temperature:        0.7,
		AgentName:          "Support Team",
	}
}

// Draft-strategy base confidences.
const (
	templateConfidence   = 0.8
	closestConfidence    = 0.6
	generativeConfidence = 0.7
	hybridConfidence     = 0.75
	fallbackConfidence   = 0.2
	matchBonus           = 0.05
	truncationPenalty    = 0.05
)

// Drafter produces a candidate reply from templates and, when
// configured, a generative text provider.
//
// Safe for concurrent use.
type Drafter struct {
	templates *templateSet
	llm       driven.LLMService
	limiter   *rate.Limiter
	cfg       DraftConfig
	rules     *RuleSet
}

// NewDrafter creates a drafter. llm may be nil; drafting then uses
// templates only. A malformed template is a configuration error.
func NewDrafter(templates []ResponseTemplate, rules *RuleSet, llm driven.LLMService, cfg DraftConfig) (*Drafter, error) {
	set, err := newTemplateSet(templates)
	if err != nil {
		return nil, err
	}
	var limiter *rate.Limiter
	if llm != nil {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)
	}
	return &Drafter{
		templates: set,
		llm:       llm,
		limiter:   limiter,
		cfg:       cfg,
		rules:     rules,
	}, nil
}

// LimiterTokens reports the provider request tokens currently
// available, -1 when no provider is configured.
func (d *Drafter) LimiterTokens() float64 {
	if d.limiter == nil {
		return -1
	}
	return d.limiter.Tokens()
}

// ProviderModel returns the configured model name, empty without a
// provider.
func (d *Drafter) ProviderModel() string {
	if d.llm == nil {
		return ""
	}
	return d.llm.ModelName()
}

// Draft produces the candidate reply. It never fails: every internal
// error degrades down the strategy ladder and ends at the canned
// fallback with low confidence.
func (d *Drafter) Draft(ctx context.Context, ticket domain.Ticket, cls domain.ClassificationResult, matches []domain.KnowledgeMatch) domain.DraftResponse {
	start := time.Now()
	resp := d.draft(ctx, ticket, cls, matches)
	resp.GenerationTimeMs = time.Since(start).Milliseconds()

	if d.cfg.MaxLength > 0 && len(resp.Content) > d.cfg.MaxLength {
		cut := d.cfg.MaxLength
		for cut > 0 && !utf8.RuneStart(resp.Content[cut]) {
			cut--
		}
		resp.Content = resp.Content[:cut]
		resp.Confidence = clamp01(resp.Confidence - truncationPenalty)
		resp.Truncated = true
	}
	logger.Debug("draft produced",
		zap.String("ticket_id", ticket.ID),
		zap.String("strategy", string(resp.Strategy)),
		zap.Float64("confidence", resp.Confidence),
		zap.Int64("elapsed_ms", resp.GenerationTimeMs))
	return resp
}

// draft walks the strategy ladder.
func (d *Drafter) draft(ctx context.Context, ticket domain.Ticket, cls domain.ClassificationResult, matches []domain.KnowledgeMatch) domain.DraftResponse {
	category := cls.Category.Value
	priority := cls.Priority.Value

	// Confident classification with a declared template wins outright.
	if cls.Category.Confidence >= d.cfg.TemplateConfidence {
		if tmpl, ok := d.templates.match(category, priority); ok {
			if resp, err := d.renderTemplate(tmpl, ticket, matches, templateConfidence); err == nil {
				return resp
			} else {
				logger.Warn("template render failed", zap.String("template", tmpl.ID), zap.Error(err))
			}
		}
	}

	if d.llm != nil && len(matches) > 0 {
		resp, err := d.generative(ctx, ticket, cls, matches)
		if err == nil {
			return resp
		}
		logger.Warn("generative draft failed, degrading", zap.Error(err))
	} else if d.llm != nil {
		resp, err := d.hybrid(ctx, ticket, cls, matches)
		if err == nil {
			return resp
		}
		logger.Warn("hybrid draft failed, degrading", zap.Error(err))
	}

	if tmpl, ok := d.templates.closest(category); ok {
		confidence := closestConfidence
		if tmpl.Category == category {
			confidence = templateConfidence
		}
		if resp, err := d.renderTemplate(tmpl, ticket, matches, confidence); err == nil {
			return resp
		} else {
			logger.Warn("closest template render failed", zap.String("template", tmpl.ID), zap.Error(err))
		}
	}

	return domain.DraftResponse{
		Content:    fallbackContent,
		Strategy:   domain.DraftFallback,
		Confidence: fallbackConfidence,
		SourceID:   "fallback",
	}
}

// renderTemplate renders one template into a draft response.
func (d *Drafter) renderTemplate(tmpl ResponseTemplate, ticket domain.Ticket, matches []domain.KnowledgeMatch, confidence float64) (domain.DraftResponse, error) {
	content, err := d.templates.render(tmpl, d.templateData(tmpl.Category, ticket, matches))
	if err != nil {
		return domain.DraftResponse{}, err
	}
	return domain.DraftResponse{
		Content:    content,
		Strategy:   domain.DraftTemplate,
		Confidence: confidence,
		SourceID:   tmpl.ID,
	}, nil
}

// generative asks the provider to write the reply from the ticket and
// the retrieved knowledge.
func (d *Drafter) generative(ctx context.Context, ticket domain.Ticket, cls domain.ClassificationResult, matches []domain.KnowledgeMatch) (domain.DraftResponse, error) {
	content, err := d.complete(ctx, d.generativePrompt(ticket, cls, matches))
	if err != nil {
		return domain.DraftResponse{}, err
	}
	confidence := generativeConfidence
	if len(matches) > 0 {
		confidence += matchBonus
	}
	return domain.DraftResponse{
		Content:    content,
		Strategy:   domain.DraftGenerative,
		Confidence: confidence,
		SourceID:   d.llm.ModelName(),
	}, nil
}

// hybrid renders the closest template first, then asks the provider to
// rewrite and personalise it.
func (d *Drafter) hybrid(ctx context.Context, ticket domain.Ticket, cls domain.ClassificationResult, matches []domain.KnowledgeMatch) (domain.DraftResponse, error) {
	tmpl, ok := d.templates.closest(cls.Category.Value)
	if !ok {
		return domain.DraftResponse{}, fmt.Errorf("no template available for hybrid draft")
	}
	base, err := d.templates.render(tmpl, d.templateData(tmpl.Category, ticket, matches))
	if err != nil {
		return domain.DraftResponse{}, err
	}
	prompt := fmt.Sprintf(`Rewrite the following support reply so it reads naturally and
addresses the customer's specific issue. Keep it concise and keep all
factual content. Do not invent policies or promises.

Customer subject: %s
Customer message: %s

Reply to rewrite:
%s`, ticket.Subject, ticket.Description, base)
	content, err := d.complete(ctx, prompt)
	if err != nil {
		return domain.DraftResponse{}, err
	}
	return domain.DraftResponse{
		Content:    content,
		Strategy:   domain.DraftHybrid,
		Confidence: hybridConfidence,
		SourceID:   tmpl.ID + "+" + d.llm.ModelName(),
	}, nil
}

// complete enforces the rate limit and timeout around one provider
// call. A refused token fails immediately without retry.
func (d *Drafter) complete(ctx context.Context, prompt string) (string, error) {
	if d.llm == nil {
		return "", domain.ErrProviderUnavailable
	}
	if !d.limiter.Allow() {
		return "", domain.ErrRateLimited
	}
	ctx, cancel := context.WithTimeout(ctx, d.cfg.ProviderTimeout)
	defer cancel()
	content, err := d.llm.Complete(ctx, prompt, driven.CompleteOptions{
		MaxTokens:   d.cfg.MaxTokens,
		Temperature: d.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("provider completion: %w", err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("provider returned empty completion")
	}
	return content, nil
}

// generativePrompt builds the drafting prompt from the ticket and the
// top knowledge matches.
func (d *Drafter) generativePrompt(ticket domain.Ticket, cls domain.ClassificationResult, matches []domain.KnowledgeMatch) string {
	var sb strings.Builder
	sb.WriteString("Write a helpful, professional support reply to this customer.\n")
	sb.WriteString("Be specific, do not invent policies, and close politely.\n\n")
	fmt.Fprintf(&sb, "Customer name: %s\n", d.customerName(ticket))
	fmt.Fprintf(&sb, "Ticket category: %s\n", cls.Category.Value)
	fmt.Fprintf(&sb, "Subject: %s\n", ticket.Subject)
	fmt.Fprintf(&sb, "Message: %s\n", ticket.Description)
	if len(matches) > 0 {
		sb.WriteString("\nRelevant knowledge-base articles:\n")
		for i, m := range matches {
			if i >= d.cfg.TopMatches {
				break
			}
			fmt.Fprintf(&sb, "- %s: %s\n", m.Title, m.Summary)
		}
	}
	fmt.Fprintf(&sb, "\nSign the reply as %q.\n", d.signature(ticket.RequesterTier))
	return sb.String()
}

// templateData assembles the rendering context, applying tier-based
// personalisation to the signature.
func (d *Drafter) templateData(category string, ticket domain.Ticket, matches []domain.KnowledgeMatch) templateData {
	top := matches
	if len(top) > d.cfg.TopMatches {
		top = top[:d.cfg.TopMatches]
	}
	return templateData{
		CustomerName: d.customerName(ticket),
		AgentName:    d.cfg.AgentName,
		Category:     category,
		Subject:      ticket.Subject,
		Matches:      top,
		Steps:        d.rules.StepsFor(category),
		Signature:    d.signature(ticket.RequesterTier),
	}
}

func (d *Drafter) customerName(ticket domain.Ticket) string {
	if ticket.RequesterName != "" {
		return ticket.RequesterName
	}
	return "there"
}

// signature upgrades elevated tiers to the priority team sign-off.
func (d *Drafter) signature(tier domain.RequesterTier) string {
	if tier.Elevated() {
		return d.cfg.AgentName + "\nPriority Support"
	}
	return d.cfg.AgentName
}
