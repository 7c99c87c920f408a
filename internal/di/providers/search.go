package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookquest/bookquest-server/internal/logger"
	"github.com/bookquest/bookquest-server/internal/search"
)

// SearchIndexHandle wraps the bleve index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the full-text catalog index. It starts empty;
// the engine provider fills it once the catalog has been loaded.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	idx, err := search.NewIndex(log.Logger)
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: idx}, nil
}
