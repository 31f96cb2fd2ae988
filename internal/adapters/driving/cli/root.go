// Package cli provides the cobra command surface for the triage
// pipeline.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akash-d122/helpdesk-triage/internal/adapters/driven/llm/openai"
	"github.com/akash-d122/helpdesk-triage/internal/adapters/driven/storage/memory"
	"github.com/akash-d122/helpdesk-triage/internal/adapters/driven/storage/sqlite"
	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
	"github.com/akash-d122/helpdesk-triage/internal/core/ports/driven"
	"github.com/akash-d122/helpdesk-triage/internal/core/ports/driving"
	"github.com/akash-d122/helpdesk-triage/internal/core/services"
	"github.com/akash-d122/helpdesk-triage/internal/logger"
	"github.com/akash-d122/helpdesk-triage/pkg/config"
)

// version is set at build time via -ldflags.
var version = "dev"

// articleWriter is the write side of article storage, used by seeding.
type articleWriter interface {
	Save(ctx context.Context, article domain.Article) error
}

var (
	cfgFile string
	verbose bool

	cfg           *config.Config
	triageService driving.TriageService
	articleStore  articleWriter
	sqliteStore   *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "AI ticket triage pipeline",
	Long: `Triage analyses incoming support tickets: it classifies them,
retrieves relevant knowledge-base articles, drafts a candidate reply,
and computes a calibrated confidence score that drives the
auto-resolution decision.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if sqliteStore != nil {
			_ = sqliteStore.Close()
		}
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires storage, the optional provider, and the pipeline
// from configuration.
func initServices(cmd *cobra.Command, _ []string) error {
	if err := logger.Init(verbose); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	pipelineCfg := pipelineConfig(cfg)

	var pipeline *services.Pipeline
	ctx := cmd.Context()
	switch cfg.Storage.Driver {
	case "memory":
		articles := memory.NewArticleStore()
		articleStore = articles
		pipeline, err = services.NewPipeline(ctx, pipelineCfg,
			articles, memory.NewSuggestionStore(), memory.NewMetricsStore(), buildLLM(cfg))
	case "sqlite":
		sqliteStore, err = sqlite.NewStore(cfg.Storage.Path)
		if err != nil {
			return err
		}
		articles := sqliteStore.Articles()
		articleStore = articles
		pipeline, err = services.NewPipeline(ctx, pipelineCfg,
			articles, sqliteStore.Suggestions(), sqliteStore.Metrics(), buildLLM(cfg))
	default:
		return fmt.Errorf("%w: unknown storage driver %q", domain.ErrMissingConfig, cfg.Storage.Driver)
	}
	if err != nil {
		return err
	}
	triageService = pipeline
	return nil
}

// buildLLM returns the provider adapter, or nil when no API key is
// configured so drafting degrades to templates.
func buildLLM(cfg *config.Config) driven.LLMService {
	if cfg.OpenAI.APIKey == "" {
		return nil
	}
	svc, err := openai.NewService(openai.Config{
		APIKey: cfg.OpenAI.APIKey,
		Model:  cfg.OpenAI.Model,
	})
	if err != nil {
		return nil
	}
	return svc
}

// pipelineConfig translates file configuration into pipeline tuning.
func pipelineConfig(cfg *config.Config) services.Config {
	out := services.DefaultConfig()

	if cfg.Retrieval.MaxResults > 0 {
		out.Retrieval.MaxResults = cfg.Retrieval.MaxResults
	}
	if cfg.Retrieval.MinScore > 0 {
		out.Retrieval.MinScore = cfg.Retrieval.MinScore
	}
	if cfg.Retrieval.SemanticTopN > 0 {
		out.Retrieval.SemanticTopN = cfg.Retrieval.SemanticTopN
	}
	if cfg.Retrieval.CacheSize > 0 {
		out.Retrieval.CacheSize = cfg.Retrieval.CacheSize
	}
	if cfg.Retrieval.PopularViewCount > 0 {
		out.Retrieval.PopularViewCount = cfg.Retrieval.PopularViewCount
	}

	if cfg.Drafting.MaxLength > 0 {
		out.Drafting.MaxLength = cfg.Drafting.MaxLength
	}
	if cfg.Drafting.TopMatches > 0 {
		out.Drafting.TopMatches = cfg.Drafting.TopMatches
	}
	if cfg.Drafting.TemplateConfidence > 0 {
		out.Drafting.TemplateConfidence = cfg.Drafting.TemplateConfidence
	}
	if cfg.Drafting.AgentName != "" {
		out.Drafting.AgentName = cfg.Drafting.AgentName
	}
	if cfg.OpenAI.MaxTokens > 0 {
		out.Drafting.MaxTokens = cfg.OpenAI.MaxTokens
	}
	if cfg.OpenAI.Temperature > 0 {
		out.Drafting.Temperature = cfg.OpenAI.Temperature
	}
	if cfg.OpenAI.TimeoutSeconds > 0 {
		out.Drafting.ProviderTimeout = time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second
	}
	if cfg.OpenAI.RequestsPerMinute > 0 {
		out.Drafting.RequestsPerMinute = cfg.OpenAI.RequestsPerMinute
	}

	out.AutoResolve = services.AutoResolvePolicy{
		Enabled:     cfg.AutoResolve.Enabled,
		Categories:  cfg.AutoResolve.Categories,
		MaxPriority: domain.Priority(cfg.AutoResolve.MaxPriority),
		Threshold:   cfg.AutoResolve.Threshold,
	}

	if cfg.Duplicates.Threshold > 0 {
		out.DuplicateThreshold = cfg.Duplicates.Threshold
	}
	if cfg.Duplicates.WindowHours > 0 {
		out.DuplicateWindow = time.Duration(cfg.Duplicates.WindowHours) * time.Hour
	}

	if len(cfg.Rules.CategoryKeywords) > 0 {
		out.Rules.CategoryKeywords = cfg.Rules.CategoryKeywords
	}
	if len(cfg.Rules.UrgencyKeywords) > 0 {
		out.Rules.UrgencyKeywords = cfg.Rules.UrgencyKeywords
	}
	if len(cfg.Rules.TroubleshootingSteps) > 0 {
		out.Rules.TroubleshootingSteps = cfg.Rules.TroubleshootingSteps
	}
	return out
}
