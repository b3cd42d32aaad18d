package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
	"github.com/radieske/ev-lab-poc/pkg/contracts/topics"
)

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis Pub/Sub
// de picks e repassa cada predição recebida para os clientes WebSocket
// inscritos no canal "picks" via Hub
//
// Funcionamento:
// - Recebe mensagens JSON do canal Redis
// - Desserializa para MatchPrediction (payload inválido é descartado com warn)
// - Chama hub.Broadcast para entregar aos clientes conectados
func StartRedisSubscriber(ctx context.Context, r *redis.Client, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, topics.PicksHighChannel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg, ok := <-ch:
				if !ok {
					return // canal fechado pelo go-redis (conexão perdida)
				}
				var pred events.MatchPrediction
				if err := json.Unmarshal([]byte(msg.Payload), &pred); err != nil {
					log.Warn("ws subscriber unmarshal failed", zap.Error(err))
					continue
				}
				hub.Broadcast(ChannelPicks, pred)
			}
		}
	}()
}
