package events

import (
	"bytes"
	"encoding/json"
)

// Evento de partida publicado no tópico "ev_events".
// O formato é o NDJSON dos feeds de odds: campos opcionais e nomes de
// timestamp variados conforme a fonte ("commence_time", "tsISO",
// "fixture.date" ou "date").
type MatchEvent struct {
	FixtureID    FlexString  `json:"fixture_id,omitempty"`
	Market       FlexString  `json:"market,omitempty"`
	CommenceTime FlexString  `json:"commence_time,omitempty"`
	TsISO        FlexString  `json:"tsISO,omitempty"`
	Fixture      *FixtureRef `json:"fixture,omitempty"`
	Date         FlexString  `json:"date,omitempty"`
	League       FlexString  `json:"league,omitempty"`
	HomeTeam     FlexString  `json:"home_team,omitempty"`
	AwayTeam     FlexString  `json:"away_team,omitempty"`
}

// FixtureRef carrega o timestamp aninhado usado por algumas fontes.
type FixtureRef struct {
	Date FlexString `json:"date,omitempty"`
}

// Fontes ruins mandam "fixture" como string ou número; nesses casos o
// campo é ignorado em vez de invalidar o evento.
func (f *FixtureRef) UnmarshalJSON(b []byte) error {
	f.Date = ""

	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}

	type plain FixtureRef
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	*f = FixtureRef(v)
	return nil
}

// Predição do modelo de partidas, publicada no tópico "ev_predictions".
type MatchPrediction struct {
	FixtureID string         `json:"fixture_id"`
	Market    string         `json:"market"`
	EV        float64        `json:"ev"`
	ProbModel float64        `json:"prob_model"`
	Version   string         `json:"version"`
	Meta      PredictionMeta `json:"meta"`
}

// PredictionMeta lista as categorias de heurística consideradas no score
// (consideradas, não necessariamente disparadas).
type PredictionMeta struct {
	Reasons []string `json:"reasons"`
}
