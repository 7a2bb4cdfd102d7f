package dto

type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit"`
}

type SearchResultResponse struct {
	DocumentResponse
	SimilarityScore float64 `json:"similarity_score"`
	ClusterId       *int    `json:"cluster_id,omitempty"`
	ClusterName     *string `json:"cluster_name,omitempty"`
}
