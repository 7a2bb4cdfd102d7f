package dto

import (
	"time"

	"github.com/google/uuid"
)

type ClusterRequest struct {
	NumClusters *int `json:"num_clusters"` // nil = pick k by silhouette score
	MinClusters *int `json:"min_clusters"`
	MaxClusters *int `json:"max_clusters"`
}

type ClusterMember struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	DocType   string    `json:"doc_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ClusterResponse struct {
	ClusterId                int             `json:"cluster_id"`
	ClusterName              string          `json:"cluster_name"`
	Size                     int             `json:"size"`
	Documents                []ClusterMember `json:"documents"`
	RepresentativeDocumentId uuid.UUID       `json:"representative_document_id"`
}

type ClusterReportResponse struct {
	Clusters        []ClusterResponse `json:"clusters"`
	NumClusters     int               `json:"num_clusters"`
	SilhouetteScore float64           `json:"silhouette_score"`
	TotalDocuments  int               `json:"total_documents"`
}
