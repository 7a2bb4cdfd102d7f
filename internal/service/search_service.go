package service

import (
	"context"

	"semantic-docstore-be/internal/dto"
	"semantic-docstore-be/internal/repository/unitofwork"
	"semantic-docstore-be/pkg/apperror"
	"semantic-docstore-be/pkg/embedding"

	"github.com/google/uuid"
)

const defaultSearchLimit = 5

type ISearchService interface {
	Search(ctx context.Context, req *dto.SearchRequest) ([]*dto.SearchResultResponse, error)
}

type searchService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	clusterService    IClusterService
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	clusterService IClusterService,
) ISearchService {
	return &searchService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		clusterService:    clusterService,
	}
}

func (c *searchService) Search(ctx context.Context, req *dto.SearchRequest) ([]*dto.SearchResultResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}
	if limit < 0 {
		return nil, apperror.Inputf("limit must be positive, got %d", limit)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	// An empty collection short-circuits before the provider is touched, so
	// searching an empty store works even when the model is down.
	count, err := uow.DocumentEmbeddingRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []*dto.SearchResultResponse{}, nil
	}

	embeddingRes, err := c.embeddingProvider.Generate(req.Query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	if int64(limit) > count {
		limit = int(count)
	}

	scored, err := uow.DocumentEmbeddingRepository().SearchSimilar(ctx, embeddingRes.Embedding.Values, limit)
	if err != nil {
		return nil, err
	}

	docIds := make([]uuid.UUID, len(scored))
	for i, s := range scored {
		docIds[i] = s.Embedding.DocumentId
	}
	docs, err := uow.DocumentRepository().FindByIDs(ctx, docIds)
	if err != nil {
		return nil, err
	}
	docById := make(map[uuid.UUID]int, len(docs))
	for i, doc := range docs {
		docById[doc.Id] = i
	}

	orderedIds, err := uow.DocumentRepository().FindIDsOrdered(ctx)
	if err != nil {
		return nil, err
	}
	ordinalById := make(map[uuid.UUID]int, len(orderedIds))
	for i, id := range orderedIds {
		ordinalById[id] = i + 1
	}

	// Cluster assignment is best-effort enrichment from the memo; a cold
	// cache never triggers a computation on the read path.
	clusterByDoc := make(map[uuid.UUID]*dto.ClusterResponse)
	if report, ok := c.clusterService.CachedReport(ctx); ok {
		for i := range report.Clusters {
			for _, member := range report.Clusters[i].Documents {
				clusterByDoc[member.Id] = &report.Clusters[i]
			}
		}
	}

	results := make([]*dto.SearchResultResponse, 0, len(scored))
	for _, s := range scored {
		idx, ok := docById[s.Embedding.DocumentId]
		if !ok {
			// Orphaned vector; skip rather than surface a hole.
			continue
		}
		doc := docs[idx]
		result := &dto.SearchResultResponse{
			DocumentResponse: *toDocumentResponse(doc, ordinalById[doc.Id]),
			SimilarityScore:  s.Similarity,
		}
		if cluster, ok := clusterByDoc[doc.Id]; ok {
			clusterId := cluster.ClusterId
			clusterName := cluster.ClusterName
			result.ClusterId = &clusterId
			result.ClusterName = &clusterName
		}
		results = append(results, result)
	}
	return results, nil
}
