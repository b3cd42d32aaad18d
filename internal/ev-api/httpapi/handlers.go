package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// health devolve o payload fixo de liveness
func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": ServiceID,
		"version": ServiceVersion,
	})
}

// scoreOutright avalia o evento do corpo { "event": { ... } }.
// O contrato é sempre responder 200 com uma predição bem formada: corpo
// inválido ou falha do modelo viram predição de EV zero com o erro no
// edge_reason, nunca 4xx/5xx.
func (a *API) scoreOutright(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req events.ScoreOutrightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Log.Warn("invalid score request body", zap.Error(err))
		if a.OnRecovered != nil {
			a.OnRecovered()
		}
		writeJSON(w, http.StatusOK, errorPrediction(err))
		return
	}

	pred := a.safeScore(req.Event)
	if a.OnScored != nil {
		a.OnScored()
	}
	writeJSON(w, http.StatusOK, pred)
}

// safeScore converte qualquer panic do modelo na predição degradada.
// Esse é o único ponto onde uma falha inesperada pode aflorar.
func (a *API) safeScore(ev events.OutrightEvent) (pred events.OutrightPrediction) {
	defer func() {
		if rec := recover(); rec != nil {
			a.Log.Warn("model failure recovered", zap.Any("panic", rec))
			if a.OnRecovered != nil {
				a.OnRecovered()
			}
			pred = errorPrediction(fmt.Errorf("%v", rec))
		}
	}()

	return a.Scorer.Score(ev)
}

// getLatestPick retorna a última predição cacheada de uma partida
func (a *API) getLatestPick(w http.ResponseWriter, r *http.Request) {
	fixtureID := chi.URLParam(r, "fixtureID")

	pred, ok, err := a.Picks.Latest(r.Context(), fixtureID)
	if err != nil {
		a.Log.Warn("picks cache read failed", zap.String("fixture_id", fixtureID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

// errorPrediction monta a resposta degradada de erro de modelo.
func errorPrediction(err error) events.OutrightPrediction {
	return events.OutrightPrediction{
		EV:             0.0,
		SelectionName:  "Error",
		SelectionKey:   nil,
		Price:          1.0,
		BookmakerTitle: "N/A",
		EdgeReason:     fmt.Sprintf("error_modelo: %v", err),
	}
}
