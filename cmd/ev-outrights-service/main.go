package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/ev-lab-poc/internal/ev-api/httpapi"
	"github.com/radieske/ev-lab-poc/internal/ev-api/picks"
	"github.com/radieske/ev-lab-poc/internal/ev-api/ws"
	"github.com/radieske/ev-lab-poc/internal/model/outrights"
	sharedcache "github.com/radieske/ev-lab-poc/internal/shared/cache"
	"github.com/radieske/ev-lab-poc/internal/shared/config"
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

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// conecta com cache Redis (fonte do feed de picks)
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	// Tabela de prioridades dos torneios: embutida, ou carregada de YAML
	priorities := outrights.DefaultPriorities()
	if cfg.PrioritiesFile != "" {
		priorities, err = outrights.LoadPriorities(cfg.PrioritiesFile)
		if err != nil {
			log.Fatal("failed to load priorities", zap.String("path", cfg.PrioritiesFile), zap.Error(err))
		}
		log.Info("priorities loaded", zap.String("path", cfg.PrioritiesFile), zap.Int("entries", len(priorities)))
	}
	scorer := outrights.NewScorer(priorities, time.Now)

	// Métricas Prometheus do serviço
	scores := prometheus.NewCounter(prometheus.CounterOpts{Name: "ev_outrights_scores_total", Help: "requisições de score atendidas"})
	modelErrors := prometheus.NewCounter(prometheus.CounterOpts{Name: "ev_outrights_model_errors_total", Help: "falhas de modelo degradadas em resposta"})
	wsClients := prometheus.NewGauge(prometheus.GaugeOpts{Name: "ev_outrights_ws_connections", Help: "clientes WebSocket conectados"})
	wsDelivered := prometheus.NewCounter(prometheus.CounterOpts{Name: "ev_outrights_ws_picks_sent_total", Help: "picks entregues via WebSocket"})
	prometheus.MustRegister(scores, modelErrors, wsClients, wsDelivered)

	// Hub WebSocket alimentado pelo canal de picks do Redis
	hub := ws.NewHub(log, func(r *http.Request) bool { return true })
	hub.OnConnect = func() { wsClients.Inc() }
	hub.OnDisconnect = func() { wsClients.Dec() }
	hub.OnBroadcast = func() { wsDelivered.Inc() }

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ws.StartRedisSubscriber(ctx, redisClient, hub, log)

	api := &httpapi.API{
		Log:         log,
		Scorer:      scorer,
		WSHandler:   hub.HandleWS,
		Picks:       picks.New(redisClient),
		OnScored:    func() { scores.Inc() },
		OnRecovered: func() { modelErrors.Inc() },
	}

	// Servidor de métricas e health em porta separada
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	go func() {
		log.Info("ev-outrights-service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)

	log.Info("ev-outrights-service stopped")
}
