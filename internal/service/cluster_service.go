package service

import (
	"context"

	"semantic-docstore-be/internal/dto"
	"semantic-docstore-be/internal/entity"
	"semantic-docstore-be/internal/pkg/logger"
	"semantic-docstore-be/internal/repository/contract"
	"semantic-docstore-be/internal/repository/unitofwork"
	"semantic-docstore-be/pkg/apperror"
	"semantic-docstore-be/pkg/clustering"
	"semantic-docstore-be/pkg/vectormath"

	"github.com/google/uuid"
)

const (
	defaultMinClusters = 2
	defaultMaxClusters = 10
)

type IClusterService interface {
	// Cluster computes a fresh partition of the whole collection and
	// memoizes it.
	Cluster(ctx context.Context, req *dto.ClusterRequest) (*dto.ClusterReportResponse, error)

	// GetOrCompute serves the memoized report when it is still valid,
	// otherwise recomputes with default parameters.
	GetOrCompute(ctx context.Context) (*dto.ClusterReportResponse, error)

	// CachedReport is the read-only path used to enrich search results.
	// It never triggers a computation.
	CachedReport(ctx context.Context) (*dto.ClusterReportResponse, bool)
}

type clusterService struct {
	uowFactory   unitofwork.RepositoryFactory
	clusterCache contract.ClusterCacheRepository
	log          logger.ILogger
}

func NewClusterService(
	uowFactory unitofwork.RepositoryFactory,
	clusterCache contract.ClusterCacheRepository,
	log logger.ILogger,
) IClusterService {
	return &clusterService{
		uowFactory:   uowFactory,
		clusterCache: clusterCache,
		log:          log,
	}
}

func (c *clusterService) Cluster(ctx context.Context, req *dto.ClusterRequest) (*dto.ClusterReportResponse, error) {
	if req == nil {
		req = &dto.ClusterRequest{}
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	embeddings, err := uow.DocumentEmbeddingRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	n := len(embeddings)
	if n < 2 {
		return nil, apperror.Inputf("clustering needs at least 2 documents, have %d", n)
	}

	points := make([][]float64, n)
	for i, emb := range embeddings {
		points[i] = vectormath.Normalize(vectormath.Sanitize(vectormath.ToFloat64(emb.EmbeddingValue)))
	}

	km := clustering.NewKMeans()
	k, err := c.resolveK(req, km, points)
	if err != nil {
		return nil, err
	}

	result := km.Fit(points, k)
	score := clustering.Silhouette(points, result.Labels)

	docById := make(map[uuid.UUID]*entity.Document, len(docs))
	for _, doc := range docs {
		docById[doc.Id] = doc
	}

	clusters := make([]dto.ClusterResponse, 0, k)
	for clusterId := 0; clusterId < k; clusterId++ {
		memberIdx := make([]int, 0)
		for i, label := range result.Labels {
			if label == clusterId {
				memberIdx = append(memberIdx, i)
			}
		}
		if len(memberIdx) == 0 {
			continue
		}

		// Representative = medoid: the member closest to the centroid.
		// Strict < keeps the earliest member on ties.
		repIdx := memberIdx[0]
		bestDist := vectormath.EuclideanDistance(points[repIdx], result.Centroids[clusterId])
		for _, i := range memberIdx[1:] {
			if d := vectormath.EuclideanDistance(points[i], result.Centroids[clusterId]); d < bestDist {
				bestDist = d
				repIdx = i
			}
		}
		representativeId := embeddings[repIdx].DocumentId

		members := make([]dto.ClusterMember, 0, len(memberIdx))
		memberDocs := make([]*entity.Document, 0, len(memberIdx))
		for _, i := range memberIdx {
			doc, ok := docById[embeddings[i].DocumentId]
			if !ok {
				// Orphaned vector; skip rather than fail the report.
				continue
			}
			memberDocs = append(memberDocs, doc)
			members = append(members, dto.ClusterMember{
				Id:        doc.Id,
				Title:     doc.Title,
				DocType:   doc.DocType,
				CreatedAt: doc.CreatedAt,
			})
		}

		// Renumber so ids stay contiguous when a label ends up with no
		// members (coincident points can merge clusters on the final
		// assignment pass).
		clusters = append(clusters, dto.ClusterResponse{
			ClusterId:                len(clusters),
			ClusterName:              generateClusterName(memberDocs, representativeId),
			Size:                     len(members),
			Documents:                members,
			RepresentativeDocumentId: representativeId,
		})
	}

	report := &dto.ClusterReportResponse{
		Clusters:        clusters,
		NumClusters:     len(clusters),
		SilhouetteScore: score,
		TotalDocuments:  len(docs),
	}

	c.clusterCache.Set(report, int64(len(docs)))
	c.log.Info("cluster", "Cluster report computed", map[string]interface{}{
		"num_clusters":     k,
		"total_documents":  len(docs),
		"silhouette_score": score,
	})

	return report, nil
}

func (c *clusterService) GetOrCompute(ctx context.Context) (*dto.ClusterReportResponse, error) {
	if report, ok := c.CachedReport(ctx); ok {
		return report, nil
	}
	return c.Cluster(ctx, &dto.ClusterRequest{})
}

func (c *clusterService) CachedReport(ctx context.Context) (*dto.ClusterReportResponse, bool) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.DocumentRepository().Count(ctx)
	if err != nil {
		return nil, false
	}
	return c.clusterCache.Get(count)
}

// resolveK picks the cluster count: the explicit request value clamped to
// [1, n-1], or a silhouette sweep over [minClusters, maxClusters] when the
// request leaves it open. Higher silhouette wins; ties keep the smaller k.
func (c *clusterService) resolveK(req *dto.ClusterRequest, km *clustering.KMeans, points [][]float64) (int, error) {
	n := len(points)

	if req.NumClusters != nil {
		k := *req.NumClusters
		if k < 1 {
			return 0, apperror.Inputf("num_clusters must be at least 1, got %d", k)
		}
		if k > n-1 {
			k = n - 1
		}
		return k, nil
	}

	minK := defaultMinClusters
	if req.MinClusters != nil {
		minK = *req.MinClusters
	}
	maxK := defaultMaxClusters
	if req.MaxClusters != nil {
		maxK = *req.MaxClusters
	}
	if minK < 2 {
		minK = 2
	}
	if maxK < minK {
		return 0, apperror.Inputf("max_clusters %d is below min_clusters %d", maxK, minK)
	}

	bestK := 0
	bestScore := -1.0
	for k := minK; k <= maxK && k < n; k++ {
		result := km.Fit(points, k)
		score := clustering.Silhouette(points, result.Labels)
		if score > bestScore {
			bestScore = score
			bestK = k
		}
	}
	if bestK == 0 {
		// The sweep range was empty (n <= minK); fall back to the largest
		// non-degenerate count available.
		bestK = minK
		if bestK > n-1 {
			bestK = n - 1
		}
	}
	return bestK, nil
}
