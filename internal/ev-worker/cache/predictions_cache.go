package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
	"github.com/radieske/ev-lab-poc/pkg/contracts/topics"
)

// PredictionsCache guarda a última predição de cada partida no Redis
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type PredictionsCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewPredictionsCache cria o cache de predições com TTL configurável
func NewPredictionsCache(c *redis.Client, ttl time.Duration) *PredictionsCache {
	return &PredictionsCache{Client: c, TTL: ttl}
}

// SetLatest armazena a predição mais recente de uma partida com TTL definido
func (r *PredictionsCache) SetLatest(ctx context.Context, pred events.MatchPrediction) error {
	b, err := json.Marshal(pred)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, topics.LatestPredictionKey(pred.FixtureID), b, r.TTL).Err()
}
