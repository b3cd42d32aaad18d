package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
	"github.com/radieske/ev-lab-poc/pkg/contracts/topics"
)

// RedisBroadcaster repassa picks de EV alto para o canal Pub/Sub
// consumido pelo feed WebSocket do ev-outrights-service.
type RedisBroadcaster struct {
	r *redis.Client
}

func NewRedisBroadcaster(r *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{r: r}
}

// PublishPrediction serializa a predição e publica no canal de picks.
func (b *RedisBroadcaster) PublishPrediction(ctx context.Context, pred events.MatchPrediction) error {
	payload, err := json.Marshal(pred)
	if err != nil {
		return err
	}
	return b.r.Publish(ctx, topics.PicksHighChannel, payload).Err()
}
