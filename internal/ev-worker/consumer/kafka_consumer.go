package consumer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/ev-lab-poc/internal/ev-worker/cache"
	"github.com/radieske/ev-lab-poc/internal/ev-worker/publisher"
	"github.com/radieske/ev-lab-poc/internal/model/matchev"
	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

// Processor consome eventos de partida do Kafka, aplica o modelo de EV e
// publica as predições. Callbacks de métricas podem ser usadas para
// monitoramento de cada etapa
type Processor struct {
	Log       *zap.Logger
	Reader    *kafka.Reader
	Scorer    *matchev.Scorer
	Publisher *publisher.KafkaPublisher

	// Cache da última predição por partida; nil desabilita
	Cache *cache.PredictionsCache

	OnConsumed func()       // métricas (counter++)
	OnScored   func(n int)  // métricas: predições geradas no lote
	OnPublish  func()       // métricas: predição publicada
	OnCached   func()       // métricas: sets no cache
	OnError    func(string) // métricas por fase

	// Após publicar com sucesso, cada predição passa por aqui
	// (broadcast de picks, alertas)
	OnAfterPublish func(pred events.MatchPrediction)
}

// Run inicia o loop principal de consumo e score das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}

		evs, err := DecodeBatch(m.Value)
		if err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			continue
		}

		preds := p.Scorer.ScoreEvents(evs)
		if p.OnScored != nil {
			p.OnScored(len(preds))
		}

		for _, pred := range preds {
			if err := p.Publisher.Publish(ctx, pred); err != nil {
				if p.OnError != nil {
					p.OnError("publish")
				}
				continue
			}
			if p.OnPublish != nil {
				p.OnPublish()
			}

			if p.Cache != nil {
				if err := p.Cache.SetLatest(ctx, pred); err != nil {
					p.Log.Warn("cache set failed", zap.String("fixture_id", pred.FixtureID), zap.Error(err))
					if p.OnError != nil {
						p.OnError("cache")
					}
				} else if p.OnCached != nil {
					p.OnCached()
				}
			}

			if p.OnAfterPublish != nil {
				p.OnAfterPublish(pred)
			}
		}
	}
}

// DecodeBatch aceita tanto um array de eventos quanto um evento único
// por mensagem. Fontes variam, então os dois formatos circulam no tópico.
func DecodeBatch(raw []byte) ([]events.MatchEvent, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty message")
	}

	if raw[0] == '[' {
		var list []events.MatchEvent
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode event list: %w", err)
		}
		return list, nil
	}

	var single events.MatchEvent
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return []events.MatchEvent{single}, nil
}
