package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedkafka "github.com/radieske/ev-lab-poc/internal/shared/kafka"
	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

// KafkaPublisher publica predições do modelo no tópico de saída.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewKafkaPublisher cria um publisher para o tópico de predições.
// Com ensureTopic ligado (ambiente local/dev) o tópico é criado no
// startup; falha na criação não derruba o serviço, o writer tem
// auto-criação como rede de segurança.
func NewKafkaPublisher(brokers string, topic string, ensureTopic bool, log *zap.Logger) *KafkaPublisher {
	if ensureTopic {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := sharedkafka.EnsureTopic(ctx, brokers, topic); err != nil {
			log.Warn("failed to ensure kafka topic", zap.String("topic", topic), zap.Error(err))
		} else {
			log.Info("kafka topic ready", zap.String("topic", topic))
		}
	}

	return &KafkaPublisher{
		writer: sharedkafka.NewWriter(brokers, topic),
		log:    log,
	}
}

// Publish serializa a predição em JSON e envia para o tópico configurado.
// A chave da mensagem usa o fixture_id para manter a distribuição por
// partição consistente por partida.
func (p *KafkaPublisher) Publish(ctx context.Context, pred events.MatchPrediction) error {
	value, err := json.Marshal(pred)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(pred.FixtureID),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish prediction", zap.Error(err))
		return err
	}

	p.log.Debug("published prediction",
		zap.String("fixture_id", pred.FixtureID),
		zap.Float64("ev", pred.EV),
	)
	return nil
}

// Close finaliza o writer e libera recursos associados.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
