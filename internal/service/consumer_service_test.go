package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"semantic-docstore-be/internal/dto"
	"semantic-docstore-be/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestConsumerInvalidatesCacheOnDocumentChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	cache := memory.NewClusterCacheRepository(time.Hour)
	cache.Set(&dto.ClusterReportResponse{NumClusters: 1}, 3)

	consumer := NewConsumerService(pubSub, "DOCUMENT_CHANGED", cache)
	require.NoError(t, consumer.Consume(ctx))

	docId := uuid.New()
	payload, err := json.Marshal(dto.DocumentChangedMessage{DocumentId: &docId, Action: "deleted"})
	require.NoError(t, err)

	publisher := NewPublisherService("DOCUMENT_CHANGED", pubSub)
	require.NoError(t, publisher.Publish(ctx, payload))

	require.Eventually(t, func() bool {
		_, ok := cache.Get(3)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConsumerAcksMalformedPayload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	cache := memory.NewClusterCacheRepository(time.Hour)
	cache.Set(&dto.ClusterReportResponse{NumClusters: 1}, 3)

	consumer := NewConsumerService(pubSub, "DOCUMENT_CHANGED", cache)
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("DOCUMENT_CHANGED", pubSub)
	require.NoError(t, publisher.Publish(ctx, []byte("not json")))

	// A bad payload is dropped without wedging the subscription; the next
	// valid event still lands.
	docId := uuid.New()
	payload, err := json.Marshal(dto.DocumentChangedMessage{DocumentId: &docId, Action: "created"})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, payload))

	require.Eventually(t, func() bool {
		_, ok := cache.Get(3)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}
