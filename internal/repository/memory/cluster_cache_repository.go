package memory

import (
	"time"

	"semantic-docstore-be/internal/dto"
	"semantic-docstore-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

const clusterReportKey = "cluster_report"

type cachedClusterReport struct {
	report        *dto.ClusterReportResponse
	documentCount int64
}

type ClusterCacheRepository struct {
	cache *cache.Cache
}

// NewClusterCacheRepository creates the cluster memo store. The TTL bounds
// staleness as a backstop against missed invalidations; the expired-item
// janitor runs every 10 minutes.
func NewClusterCacheRepository(ttl time.Duration) contract.ClusterCacheRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &ClusterCacheRepository{
		cache: c,
	}
}

func (r *ClusterCacheRepository) Get(currentDocumentCount int64) (*dto.ClusterReportResponse, bool) {
	x, found := r.cache.Get(clusterReportKey)
	if !found {
		return nil, false
	}
	entry := x.(*cachedClusterReport)
	if entry.documentCount != currentDocumentCount {
		// A mutation slipped past invalidation; treat as a miss.
		return nil, false
	}
	return entry.report, true
}

func (r *ClusterCacheRepository) Set(report *dto.ClusterReportResponse, documentCount int64) {
	r.cache.Set(clusterReportKey, &cachedClusterReport{
		report:        report,
		documentCount: documentCount,
	}, cache.DefaultExpiration)
}

func (r *ClusterCacheRepository) Invalidate() {
	r.cache.Delete(clusterReportKey)
}
