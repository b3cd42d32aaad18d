package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/radieske/ev-lab-poc/internal/model/outrights"
	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

// Nome e versão reportados no /health; clientes usam para conferir o deploy.
const (
	ServiceID      = "ev-outrights"
	ServiceVersion = "0.1.0"
)

// PicksReader consulta a última predição de uma partida (cache do worker).
type PicksReader interface {
	Latest(ctx context.Context, fixtureID string) (events.MatchPrediction, bool, error)
}

// API expõe o modelo de outrights por HTTP e o feed de picks por WebSocket.
// Callbacks de métricas são opcionais.
type API struct {
	Log    *zap.Logger
	Scorer *outrights.Scorer

	// Handler do feed WebSocket (/ws); nil desabilita a rota
	WSHandler http.HandlerFunc

	// Cache de predições recentes (/ev/picks/{fixtureID}); nil desabilita a rota
	Picks PicksReader

	OnScored    func() // métricas (counter++)
	OnRecovered func() // métricas: erro de modelo convertido em resposta degradada
}

// Router retorna o roteador HTTP com os endpoints do serviço
func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// O timeout vale só para as rotas REST; a sessão WebSocket vive
	// além de qualquer deadline de request.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))

		r.Get("/health", a.health)                     // Liveness + identificação do serviço
		r.Post("/ev/outrights/score", a.scoreOutright) // Score de um evento de outrights
		if a.Picks != nil {
			r.Get("/ev/picks/{fixtureID}", a.getLatestPick) // Última predição de uma partida
		}
	})

	if a.WSHandler != nil {
		r.Get("/ws", a.WSHandler) // Feed de picks de EV alto
	}
	return r
}

// requestLogger registra método, rota, status e duração de cada request
func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		a.Log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
