package picks

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
	"github.com/radieske/ev-lab-poc/pkg/contracts/topics"
)

// Cache lê do Redis as últimas predições escritas pelo ev-match-worker.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

// Latest retorna a última predição de uma partida; ok=false quando não
// há registro (nunca pontuada, ou TTL expirado).
func (c *Cache) Latest(ctx context.Context, fixtureID string) (events.MatchPrediction, bool, error) {
	var pred events.MatchPrediction

	b, err := c.R.Get(ctx, topics.LatestPredictionKey(fixtureID)).Bytes()
	if err == redis.Nil {
		return pred, false, nil
	}
	if err != nil {
		return pred, false, err
	}
	if err := json.Unmarshal(b, &pred); err != nil {
		return pred, false, err
	}
	return pred, true, nil
}
