package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/ev-lab-poc/internal/shared/config"
	sharedkafka "github.com/radieske/ev-lab-poc/internal/shared/kafka"
	"github.com/radieske/ev-lab-poc/internal/shared/logger"
	"github.com/radieske/ev-lab-poc/internal/shared/metrics"
	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

// Confronto do catálogo fixo usado na geração de eventos simulados
type matchSeed struct {
	league string
	home   string
	away   string
}

var eventCatalog = []matchSeed{
	{league: "FIFA World Cup", home: "Brazil", away: "Argentina"},
	{league: "UEFA Champions League", home: "Real Madrid", away: "Bayern Munich"},
	{league: "Premier League", home: "Arsenal", away: "Liverpool"},
	{league: "La Liga", home: "Barcelona", away: "Sevilla"},
	{league: "Serie A", home: "Inter", away: "Juventus"},
	{league: "Brasileirão Série A", home: "Flamengo", away: "Palmeiras"},
}

// Métricas Prometheus do simulador
var (
	catalogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_catalog_size",
		Help: "Confrontos no catálogo de simulação",
	})
	batchesPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_batches_published_total",
		Help: "Lotes de eventos publicados no Kafka",
	})
	eventsPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_events_published_total",
		Help: "Eventos individuais publicados no Kafka",
	})
)

// Gera um lote de 1..max eventos a partir do catálogo, com início entre
// 15 minutos e 36 horas no futuro para exercitar as janelas do modelo.
func makeBatch(max int) []events.MatchEvent {
	if max < 1 {
		max = 1
	}
	n := rand.Intn(max) + 1
	batch := make([]events.MatchEvent, 0, n)
	for i := 0; i < n; i++ {
		seed := eventCatalog[rand.Intn(len(eventCatalog))]
		commence := time.Now().UTC().Add(time.Duration(15+rand.Intn(36*60-15)) * time.Minute)

		batch = append(batch, events.MatchEvent{
			FixtureID:    events.FlexString(uuid.NewString()),
			Market:       "h2h",
			CommenceTime: events.FlexString(commence.Format(time.RFC3339)),
			League:       events.FlexString(seed.league),
			HomeTeam:     events.FlexString(seed.home),
			AwayTeam:     events.FlexString(seed.away),
		})
	}
	return batch
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.KafkaEnsureTopics {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := sharedkafka.EnsureTopic(ctx, cfg.KafkaBrokers, cfg.TopicEvents); err != nil {
			log.Warn("ensure topic failed", zap.String("topic", cfg.TopicEvents), zap.Error(err))
		}
		cancel()
	}

	writer := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicEvents)
	defer writer.Close()

	prometheus.MustRegister(catalogSize, batchesPublished, eventsPublished)
	catalogSize.Set(float64(len(eventCatalog)))

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	interval := time.Duration(cfg.SimIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("event simulator running",
		zap.String("topic", cfg.TopicEvents),
		zap.Duration("interval", interval),
		zap.Int("batch_max", cfg.SimBatchMax),
	)

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = metricsSrv.Shutdown(shutdownCtx)
			shutdownCancel()
			log.Info("event simulator stopped")
			return

		case <-ticker.C:
			batch := makeBatch(cfg.SimBatchMax)
			payload, err := json.Marshal(batch)
			if err != nil {
				log.Warn("marshal batch failed", zap.Error(err))
				continue
			}

			wctx, wcancel := context.WithTimeout(ctx, 5*time.Second)
			err = sharedkafka.WriteJSON(wctx, writer, uuid.NewString(), payload)
			wcancel()
			if err != nil {
				log.Warn("publish batch failed", zap.Error(err))
				continue
			}

			batchesPublished.Inc()
			eventsPublished.Add(float64(len(batch)))
			log.Debug("batch published", zap.Int("events", len(batch)))
		}
	}
}
