package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"semantic-docstore-be/internal/entity"
	"semantic-docstore-be/internal/repository/contract"
	"semantic-docstore-be/internal/repository/memory"
	"semantic-docstore-be/pkg/apperror"
	"semantic-docstore-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// stubProvider returns canned vectors keyed by substring match on the
// input text, so tests control the geometry without a live model. Texts
// used in tests must match at most one key.
type stubProvider struct {
	vectors  map[string][]float32
	fallback []float32
	failWith error
	calls    int
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		vectors:  make(map[string][]float32),
		fallback: []float32{0, 0, 0, 1},
	}
}

func (s *stubProvider) on(key string, vector []float32) *stubProvider {
	s.vectors[strings.ToLower(key)] = vector
	return s
}

func (s *stubProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	s.calls++
	if s.failWith != nil {
		return nil, s.failWith
	}
	lower := strings.ToLower(text)
	for key, vec := range s.vectors {
		if strings.Contains(lower, key) {
			return stubResponse(vec), nil
		}
	}
	return stubResponse(s.fallback), nil
}

func stubResponse(vector []float32) *embedding.EmbeddingResponse {
	res := &embedding.EmbeddingResponse{}
	res.Embedding.Values = vector
	return res
}

var errModelDown = apperror.Wrap(apperror.KindModelUnavailable, "embedding model unavailable", errors.New("connection refused"))

// failingEmbeddings decorates the embedding store so its writes fail,
// exercising the rollback path of the paired-write transaction.
type failingEmbeddings struct {
	contract.DocumentEmbeddingRepository
}

var errIndexWrite = errors.New("index write refused")

func (f *failingEmbeddings) Create(ctx context.Context, emb *entity.DocumentEmbedding) error {
	return errIndexWrite
}

type harness struct {
	factory  *memory.RepositoryFactory
	cache    contract.ClusterCacheRepository
	provider *stubProvider

	documents IDocumentService
	search    ISearchService
	clusters  IClusterService
}

func newHarness() *harness {
	factory := memory.NewRepositoryFactory()
	cache := memory.NewClusterCacheRepository(time.Hour)
	provider := newStubProvider()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisher := NewPublisherService("DOCUMENT_CHANGED", pubSub)

	clusters := NewClusterService(factory, cache, nopLogger{})
	return &harness{
		factory:  factory,
		cache:    cache,
		provider: provider,

		documents: NewDocumentService(factory, publisher, provider, cache, 4, "stub-model"),
		search:    NewSearchService(factory, provider, clusters),
		clusters:  clusters,
	}
}

// nopLogger satisfies logger.ILogger for tests.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
