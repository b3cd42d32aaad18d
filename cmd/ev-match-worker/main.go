package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/ev-lab-poc/pkg/contracts/events"

	"github.com/radieske/ev-lab-poc/internal/ev-worker/alert"
	"github.com/radieske/ev-lab-poc/internal/ev-worker/cache"
	"github.com/radieske/ev-lab-poc/internal/ev-worker/consumer"
	"github.com/radieske/ev-lab-poc/internal/ev-worker/publisher"
	"github.com/radieske/ev-lab-poc/internal/ev-worker/pubsub"
	"github.com/radieske/ev-lab-poc/internal/model/matchev"
	sharedcache "github.com/radieske/ev-lab-poc/internal/shared/cache"
	"github.com/radieske/ev-lab-poc/internal/shared/config"
	sharedkafka "github.com/radieske/ev-lab-poc/internal/shared/kafka"
	"github.com/radieske/ev-lab-poc/internal/shared/logger"
	"github.com/radieske/ev-lab-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Redis (canal de picks) e Kafka
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	reader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicEvents, cfg.KafkaGroupID)
	defer reader.Close()

	pub := publisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.TopicPredictions, cfg.KafkaEnsureTopics, log)
	defer pub.Close()

	// Cache Redis com a última predição de cada partida
	ttl := 60 * time.Second
	rcache := cache.NewPredictionsCache(redisClient, ttl)

	// Broadcaster de picks de alto EV no Redis Pub/Sub (consumido pelo ev-outrights-service/ws)
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)
	picksFilter := alert.Filter{MinEV: cfg.AlertMinEV}

	// Alertas Telegram são opcionais; sem token o worker só publica no Redis
	var notifier *alert.TelegramNotifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notifier, err = alert.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Fatal("telegram init", zap.Error(err))
		}
	} else {
		log.Info("telegram alerts disabled")
	}

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "ev_worker_messages_consumed_total", Help: "mensagens consumidas"})
	scored := prometheus.NewCounter(prometheus.CounterOpts{Name: "ev_worker_predictions_scored_total", Help: "predições geradas"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "ev_worker_predictions_published_total", Help: "predições publicadas no Kafka"})
	cached := prometheus.NewCounter(prometheus.CounterOpts{Name: "ev_worker_cache_sets_total", Help: "sets no cache de predições"})
	broadcasts := prometheus.NewCounter(prometheus.CounterOpts{Name: "ev_worker_picks_broadcast_total", Help: "picks de alto EV publicados no Redis"})
	alerts := prometheus.NewCounter(prometheus.CounterOpts{Name: "ev_worker_alerts_sent_total", Help: "alertas Telegram enviados"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "ev_worker_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, scored, published, cached, broadcasts, alerts, errorsBy)

	// Instancia o processor, conectando callbacks de métricas, broadcast e alerta
	proc := &consumer.Processor{
		Log:        log,
		Reader:     reader,
		Scorer:     matchev.NewScorer(nil, time.Now),
		Publisher:  pub,
		Cache:      rcache,
		OnConsumed: func() { consumed.Inc() },
		OnScored:   func(n int) { scored.Add(float64(n)) },
		OnPublish:  func() { published.Inc() },
		OnCached:   func() { cached.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		// Após publicar no Kafka, picks acima do corte vão para o feed ws e para o Telegram
		OnAfterPublish: func(pred events.MatchPrediction) {
			ok, reason := picksFilter.ShouldAlert(pred)
			if !ok {
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := broadcaster.PublishPrediction(ctx, pred); err != nil {
				log.Warn("picks broadcast failed", zap.Error(err))
			} else {
				broadcasts.Inc()
			}

			if notifier != nil {
				if err := notifier.Notify(pred, reason); err != nil {
					log.Warn("telegram alert failed", zap.Error(err))
				} else {
					alerts.Inc()
				}
			}
		},
	}

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("ev-match-worker started")
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = metricsSrv.Shutdown(shutdownCtx)

	log.Info("ev-match-worker stopped")
}
