package matching

import (
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/config"
)

// Factory builds engines bound to per-tenant directory and trust lookups.
// The scorer and composer are shared; they hold no tenant state.
type Factory struct {
	logger   ectologger.Logger
	scorer   *SimilarityScorer
	composer *ScoreComposer
	config   EngineConfig
}

// NewFactory creates an engine factory
func NewFactory(logger ectologger.Logger, scorerConfig ScorerConfig, composerConfig ComposerConfig, engineConfig EngineConfig) *Factory {
	return &Factory{
		logger:   logger,
		scorer:   NewSimilarityScorer(scorerConfig),
		composer: NewScoreComposer(composerConfig),
		config:   engineConfig,
	}
}

// NewFactoryFromConfig builds a factory from the service configuration,
// keeping the default factor weights.
func NewFactoryFromConfig(logger ectologger.Logger, cfg *config.Config) *Factory {
	composerConfig := DefaultComposerConfig()
	composerConfig.HighTrustThreshold = cfg.HighTrustThreshold

	engineConfig := EngineConfig{
		BaseMinScore:            cfg.BaseMinScore,
		CrossEnterpriseMinScore: cfg.CrossEnterpriseMinScore,
		MaxResults:              cfg.MaxResults,
		HighValueThreshold:      cfg.HighValueThreshold,
		LowTrustThreshold:       cfg.LowTrustThreshold,
		DefaultTrustScore:       cfg.DefaultTrustScore,
	}

	return NewFactory(logger, DefaultScorerConfig(), composerConfig, engineConfig)
}

// EngineFor builds an engine using the given tenant-bound lookups
func (f *Factory) EngineFor(directory DirectoryResolver, trust TrustLookup) *Engine {
	return NewEngine(
		f.logger,
		f.scorer,
		NewContextResolver(directory, f.logger),
		f.composer,
		trust,
		f.config,
	)
}
