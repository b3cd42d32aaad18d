package topics

// Tópicos Kafka
const (
	// Eventos de partida aguardando score (entrada do ev-match-worker)
	EvEvents = "ev_events"

	// Predições do modelo (saída do ev-match-worker)
	EvPredictions = "ev_predictions"
)

// Canais Redis Pub/Sub
const (
	// Picks com EV acima do corte, repassados ao feed WebSocket
	PicksHighChannel = "ev.picks.high"
)

// LatestPredictionKey é a chave Redis da última predição de uma partida.
// Escrita pelo ev-match-worker, lida pelo ev-outrights-service.
func LatestPredictionKey(fixtureID string) string {
	return "ev:pred:latest:" + fixtureID
}
