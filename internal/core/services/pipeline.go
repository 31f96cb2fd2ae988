package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
	"github.com/akash-d122/helpdesk-triage/internal/core/ports/driven"
	"github.com/akash-d122/helpdesk-triage/internal/core/ports/driving"
	"github.com/akash-d122/helpdesk-triage/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.TriageService = (*Pipeline)(nil)

// Config collects the tunables for the whole pipeline.
type Config struct {
	// Rules are the classification rule tables.
	Rules *RuleSet

	// Templates are the reply templates.
	Templates []ResponseTemplate

	// Retrieval tunes the knowledge retrieval stage.
	Retrieval RetrievalConfig

	// Drafting tunes the response drafting stage.
	Drafting DraftConfig

	// AutoResolve gates the auto_resolve recommendation.
	AutoResolve AutoResolvePolicy

	// DuplicateThreshold is the Jaccard similarity above which a
	// ticket is flagged as a duplicate.
	DuplicateThreshold float64

	// DuplicateWindow is how long ticket vectors are remembered.
	DuplicateWindow time.Duration
}

// DefaultConfig returns the production defaults. Auto-resolution is
// off until a deployment opts in.
func DefaultConfig() Config {
	return Config{
		Rules:              DefaultRules(),
		Templates:          DefaultTemplates(),
		Retrieval:          DefaultRetrievalConfig(),
		Drafting:           DefaultDraftConfig(),
		AutoResolve:        AutoResolvePolicy{MaxPriority: domain.PriorityMedium, Threshold: 0.85},
		DuplicateThreshold: 0.8,
		DuplicateWindow:    24 * time.Hour,
	}
}

// Pipeline sequences the four analysis stages per ticket and assembles
// the persisted suggestion. Stages run strictly sequentially for one
// ticket; separate tickets may be processed concurrently on the same
// Pipeline.
type Pipeline struct {
	classifier  *Classifier
	retriever   *Retriever
	drafter     *Drafter
	scorer      *Scorer
	stats       *StatsTracker
	index       *Index
	duplicates  *DuplicateDetector
	articles    driven.ArticleStore
	suggestions driven.SuggestionStore
}

// NewPipeline wires the pipeline. articles is required; suggestions,
// metrics, and llm may be nil and their features degrade.
func NewPipeline(ctx context.Context, cfg Config, articles driven.ArticleStore, suggestions driven.SuggestionStore, metrics driven.MetricsStore, llm driven.LLMService) (*Pipeline, error) {
	if articles == nil {
		return nil, fmt.Errorf("%w: article store", domain.ErrMissingConfig)
	}
	if cfg.Rules == nil {
		cfg.Rules = DefaultRules()
	}
	if len(cfg.Templates) == 0 {
		cfg.Templates = DefaultTemplates()
	}
	if cfg.Retrieval == (RetrievalConfig{}) {
		cfg.Retrieval = DefaultRetrievalConfig()
	}
	if cfg.Drafting == (DraftConfig{}) {
		cfg.Drafting = DefaultDraftConfig()
	}
	if cfg.DuplicateThreshold <= 0 {
		cfg.DuplicateThreshold = 0.8
	}
	if cfg.DuplicateWindow <= 0 {
		cfg.DuplicateWindow = 24 * time.Hour
	}

	stats, err := NewStatsTracker(ctx, metrics)
	if err != nil {
		return nil, err
	}
	drafter, err := NewDrafter(cfg.Templates, cfg.Rules, llm, cfg.Drafting)
	if err != nil {
		return nil, err
	}

	index := NewIndex()
	duplicates := NewDuplicateDetector(cfg.DuplicateThreshold, cfg.DuplicateWindow)
	return &Pipeline{
		classifier:  NewClassifier(cfg.Rules, duplicates),
		retriever:   NewRetriever(index, stats, cfg.Retrieval),
		drafter:     drafter,
		scorer:      NewScorer(stats, cfg.Rules, cfg.AutoResolve),
		stats:       stats,
		index:       index,
		duplicates:  duplicates,
		articles:    articles,
		suggestions: suggestions,
	}, nil
}

// ProcessTicket runs the four stages for one ticket. Business-level
// problems degrade stage by stage and are annotated on the suggestion;
// an error return indicates a configuration or programmer mistake.
func (p *Pipeline) ProcessTicket(ctx context.Context, ticket domain.Ticket) (*domain.Suggestion, error) {
	s := &domain.Suggestion{
		ID:        uuid.NewString(),
		TicketID:  ticket.ID,
		TraceID:   uuid.NewString(),
		Status:    domain.StatusPending,
		CreatedAt: time.Now(),
	}
	logger.Info("processing ticket",
		zap.String("ticket_id", ticket.ID),
		zap.String("trace_id", s.TraceID))

	if strings.TrimSpace(ticket.Text()) == "" {
		s.Annotations = append(s.Annotations, "empty ticket text; defaults applied")
	}

	s.Classification = defaultClassification()
	p.runStage(s, "classification", func() {
		s.Classification = p.classifier.Classify(ticket)
	})

	p.runStage(s, "retrieval", func() {
		if p.index.snapshot() == nil {
			s.Annotations = append(s.Annotations, "knowledge index not built; retrieval skipped")
			return
		}
		s.KnowledgeMatches = p.retriever.Search(ticket.Text(), s.Classification.Category.Value, ticket.Tags)
	})

	s.Draft = domain.DraftResponse{
		Content:    fallbackContent,
		Strategy:   domain.DraftFallback,
		Confidence: fallbackConfidence,
		SourceID:   "fallback",
	}
	p.runStage(s, "drafting", func() {
		s.Draft = p.drafter.Draft(ctx, ticket, s.Classification, s.KnowledgeMatches)
	})
	if s.Draft.Strategy == domain.DraftFallback {
		s.Annotations = append(s.Annotations, "drafting degraded to canned fallback")
	}

	s.Confidence = domain.ConfidenceAssessment{Recommendation: domain.RecommendEscalate}
	p.runStage(s, "confidence", func() {
		s.Confidence = p.scorer.Assess(ticket, s.Classification, s.KnowledgeMatches, s.Draft)
	})

	s.Status = domain.StatusCompleted
	if s.Confidence.Recommendation == domain.RecommendAutoResolve {
		s.Status = domain.StatusAutoApplied
		s.Annotations = append(s.Annotations, "auto-resolution applied by policy")
	}
	s.CompletedAt = time.Now()

	if p.suggestions != nil {
		if err := p.suggestions.Save(ctx, s); err != nil {
			return nil, fmt.Errorf("save suggestion: %w", err)
		}
	}
	logger.Info("ticket processed",
		zap.String("ticket_id", ticket.ID),
		zap.String("suggestion_id", s.ID),
		zap.String("recommendation", string(s.Confidence.Recommendation)),
		zap.Float64("calibrated", s.Confidence.Calibrated),
		zap.Bool("degraded", s.Degraded()))
	return s, nil
}

// runStage executes one stage with a panic guard so an internal bug in
// any component degrades that stage instead of failing the run.
func (p *Pipeline) runStage(s *domain.Suggestion, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("stage panicked",
				zap.String("stage", name),
				zap.String("trace_id", s.TraceID),
				zap.Any("panic", r))
			s.Annotations = append(s.Annotations, name+" degraded: internal error")
		}
	}()
	fn()
}

// ReindexKnowledge rebuilds the lexical index from the article store
// and swaps it in atomically, then drops cached retrieval results.
func (p *Pipeline) ReindexKnowledge(ctx context.Context) error {
	articles, err := p.articles.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published articles: %w", err)
	}
	p.index.Rebuild(articles)
	p.retriever.ClearCache()
	logger.Info("knowledge index rebuilt", zap.Int("articles", len(articles)))
	return nil
}

// RecordReviewFeedback applies a reviewer's verdict: the suggestion's
// lifecycle moves on and the accuracy figures absorb the outcome.
func (p *Pipeline) RecordReviewFeedback(ctx context.Context, suggestionID string, outcome domain.ReviewOutcome, details string) error {
	if !outcome.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidOutcome, outcome)
	}
	if p.suggestions == nil {
		return fmt.Errorf("%w: suggestion store", domain.ErrMissingConfig)
	}
	s, err := p.suggestions.Get(ctx, suggestionID)
	if err != nil {
		return fmt.Errorf("load suggestion %s: %w", suggestionID, err)
	}

	if err := p.stats.RecordOutcome(ctx, s, outcome); err != nil {
		return err
	}

	review := &domain.Review{Outcome: outcome, Details: details, ReviewedAt: time.Now()}
	status := domain.StatusReviewed
	switch outcome {
	case domain.OutcomeCorrect:
		status = domain.StatusApproved
	case domain.OutcomeIncorrect:
		status = domain.StatusRejected
	case domain.OutcomePartial:
		status = domain.StatusModified
	}
	if err := p.suggestions.UpdateStatus(ctx, suggestionID, status, review); err != nil {
		return fmt.Errorf("update suggestion %s: %w", suggestionID, err)
	}
	return nil
}

// Health returns a diagnostic snapshot.
func (p *Pipeline) Health(ctx context.Context) domain.Health {
	status := "ok"
	if p.index.snapshot() == nil {
		status = "degraded"
	}
	return domain.Health{
		Status:              status,
		IndexedArticleCount: p.index.ArticleCount(),
		DuplicateCacheSize:  p.duplicates.Size(),
		RetrievalCacheSize:  p.retriever.CacheSize(),
		RateLimiterTokens:   p.drafter.LimiterTokens(),
		ProviderModel:       p.drafter.ProviderModel(),
	}
}

// defaultClassification is the zero-signal classification used when
// the stage itself fails.
func defaultClassification() domain.ClassificationResult {
	return domain.ClassificationResult{
		Category: domain.CategoryResult{Value: GeneralCategory},
		Priority: domain.PriorityResult{Value: domain.PriorityMedium, Confidence: 0.5},
		Metadata: domain.TextMetadata{},
	}
}
