package service

import (
	"context"
	"encoding/json"
	"log"

	"semantic-docstore-be/internal/dto"
	"semantic-docstore-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService listens for document-change events and drops the cluster
// cache. Mutating services invalidate synchronously as well; this listener
// is the safety net for mutation paths added later that forget to, and the
// hook point for the external notification layer.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	clusterCache contract.ClusterCacheRepository
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	clusterCache contract.ClusterCacheRepository,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		clusterCache: clusterCache,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.DocumentChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal document change message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.clusterCache.Invalidate()
	log.Printf("[INFO] Cluster cache invalidated after document %s event", payload.Action)
	msg.Ack()
}
