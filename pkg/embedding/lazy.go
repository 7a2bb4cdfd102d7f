package embedding

import (
	"sync"

	"semantic-docstore-be/pkg/apperror"
)

// readinessChecker is implemented by providers that can probe their backing
// model without generating an embedding.
type readinessChecker interface {
	Ping() error
}

// LazyProvider defers model acquisition until the first Generate call and
// remembers the outcome for the process lifetime. A provider whose model
// cannot be reached fails every call with a ModelUnavailable error instead
// of taking the process down at startup.
type LazyProvider struct {
	inner EmbeddingProvider

	once     sync.Once
	loadErr  error
	loadDone bool
}

func NewLazyProvider(inner EmbeddingProvider) *LazyProvider {
	return &LazyProvider{inner: inner}
}

func (p *LazyProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	p.once.Do(func() {
		if checker, ok := p.inner.(readinessChecker); ok {
			p.loadErr = checker.Ping()
		}
		p.loadDone = true
	})
	if p.loadErr != nil {
		return nil, apperror.Wrap(apperror.KindModelUnavailable, "embedding model unavailable", p.loadErr)
	}

	res, err := p.inner.Generate(text, taskType)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindModelUnavailable, "embedding generation failed", err)
	}
	return res, nil
}

// Loaded reports whether the first-use probe has run. Exposed for stats.
func (p *LazyProvider) Loaded() bool {
	return p.loadDone && p.loadErr == nil
}
