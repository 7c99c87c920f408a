package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/bookquest/bookquest-server/internal/catalog"
	"github.com/bookquest/bookquest-server/internal/config"
	"github.com/bookquest/bookquest-server/internal/logger"
	"github.com/bookquest/bookquest-server/internal/recommend"
)

// EngineHandle wraps the recommendation engine with its build lifecycle.
type EngineHandle struct {
	*recommend.Engine
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *EngineHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideEngine provides the recommendation engine and kicks off the model
// build in the background. The server starts accepting requests immediately;
// recommendation endpoints return 503 until the build finishes. Once the
// catalog is loaded the search index is populated from the same snapshot.
func ProvideEngine(i do.Injector) (*EngineHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	idx := do.MustInvoke[*SearchIndexHandle](i)

	engineCfg := recommend.DefaultEngineConfig()
	engineCfg.Vectorizer.MaxFeatures = cfg.Engine.VocabularySize
	engineCfg.DefaultLimit = cfg.Engine.DefaultLimit
	engineCfg.MaxLimit = cfg.Engine.MaxLimit
	engineCfg.CollaborativeUsers = cfg.Engine.CollaborativeUsers

	loader := catalog.NewLoader(catalog.DefaultSchema, log.Logger)
	engine := recommend.NewEngine(loader, cfg.Catalog.SourcePath, engineCfg, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		buildCtx, done := context.WithTimeout(ctx, buildTimeout)
		defer done()

		if err := engine.Build(buildCtx); err != nil {
			log.Error("Engine build failed", "error", err)
			return
		}
		snap, err := engine.Snapshot()
		if err != nil {
			return
		}
		if err := idx.IndexCatalog(snap.Catalog); err != nil {
			log.Error("Search indexing failed", "error", err)
		}
	}()

	return &EngineHandle{Engine: engine, cancel: cancel}, nil
}
