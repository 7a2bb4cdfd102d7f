package contract

import "semantic-docstore-be/internal/dto"

// ClusterCacheRepository memoizes the last cluster computation. An entry is
// served only while the document count still matches the count recorded at
// computation time and the TTL has not elapsed; any mutation invalidates it
// outright. Reads (search, cluster lookups) never invalidate.
type ClusterCacheRepository interface {
	Get(currentDocumentCount int64) (*dto.ClusterReportResponse, bool)
	Set(report *dto.ClusterReportResponse, documentCount int64)
	Invalidate()
}
