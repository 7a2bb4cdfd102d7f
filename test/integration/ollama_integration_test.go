package integration

import (
	"log"
	"os"
	"testing"

	"semantic-docstore-be/pkg/embedding"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Needs a local Ollama with the embedding model pulled; skipped otherwise.
func TestOllamaEmbedding(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}
	model := os.Getenv("OLLAMA_EMBEDDING_MODEL")
	if model == "" {
		model = "all-minilm"
	}

	provider := embedding.NewOllamaProvider(baseURL, model)
	if err := provider.Ping(); err != nil {
		t.Skipf("Ollama not reachable at %s: %v", baseURL, err)
	}

	res, err := provider.Generate("the quick brown fox", embedding.TaskRetrievalDocument)
	require.NoError(t, err)
	require.NotEmpty(t, res.Embedding.Values)
	t.Logf("Embedding dimension: %d", len(res.Embedding.Values))

	// Stored vectors are unit length so cosine math stays stable.
	var norm float64
	for _, v := range res.Embedding.Values {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 0.01)

	t.Run("Query And Document Tasks Differ In Type Only", func(t *testing.T) {
		q, err := provider.Generate("the quick brown fox", embedding.TaskRetrievalQuery)
		require.NoError(t, err)
		assert.Equal(t, len(res.Embedding.Values), len(q.Embedding.Values))
	})
}
