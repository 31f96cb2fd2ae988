package domain

// HistoricalStats holds the accuracy figures learned from reviewed
// outcomes. They feed the confidence component multipliers and the
// calibration table, and are updated online as feedback arrives.
type HistoricalStats struct {
	// CategoryAccuracy is the observed classification accuracy per
	// category, in [0,1].
	CategoryAccuracy map[string]float64

	// StrategyAccuracy is the observed drafting accuracy per strategy,
	// in [0,1].
	StrategyAccuracy map[DraftStrategy]float64

	// ArticleSuccess is the observed per-article success rate of
	// suggestions that cited the article, in [0,1].
	ArticleSuccess map[string]float64

	// RetrievalAccuracy is the observed retrieval accuracy in [0,1].
	RetrievalAccuracy float64

	// OverallAccuracy is the observed system-wide accuracy in [0,1].
	OverallAccuracy float64

	// Bins is the calibration table, sorted ascending by Low.
	Bins []CalibrationBin
}

// DefaultStats returns a neutral starting point: accuracies at a
// mildly optimistic prior and a calibration table whose bin accuracy
// equals the bin midpoint, making calibration the identity until
// feedback says otherwise.
func DefaultStats() HistoricalStats {
	return HistoricalStats{
		CategoryAccuracy:  map[string]float64{},
		StrategyAccuracy:  map[DraftStrategy]float64{},
		ArticleSuccess:    map[string]float64{},
		RetrievalAccuracy: 0.8,
		OverallAccuracy:   0.8,
		Bins: []CalibrationBin{
			{Low: 0.0, High: 0.2, Accuracy: 0.1},
			{Low: 0.2, High: 0.4, Accuracy: 0.3},
			{Low: 0.4, High: 0.6, Accuracy: 0.5},
			{Low: 0.6, High: 0.8, Accuracy: 0.7},
			{Low: 0.8, High: 1.01, Accuracy: 0.9},
		},
	}
}

// Health is a diagnostic snapshot of the pipeline.
type Health struct {
	// Status is "ok" or "degraded".
	Status string

	// IndexedArticleCount is the number of articles in the current
	// lexical index, zero if never built.
	IndexedArticleCount int

	// DuplicateCacheSize is the number of recent ticket vectors held
	// for duplicate detection.
	DuplicateCacheSize int

	// RetrievalCacheSize is the number of cached retrieval results.
	RetrievalCacheSize int

	// RateLimiterTokens is the number of provider request tokens
	// currently available.
	RateLimiterTokens float64

	// ProviderModel is the configured generative model, empty when no
	// provider is configured.
	ProviderModel string
}
