package matchev

import (
	"strconv"
	"strings"
	"time"

	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

// Version identifica a geração da heurística nas predições publicadas.
const Version = "lab_v1_time_league"

// Categorias de heurística consideradas no score. Sempre listadas na
// meta, mesmo quando não mudaram o valor.
const (
	ReasonTimeWindow       = "time_window"
	ReasonLeagueImportance = "league_importance"
)

// DefaultKeywords retorna os termos (minúsculos) que marcam uma liga
// como importante para o bump de EV.
func DefaultKeywords() []string {
	return []string{
		"world cup",
		"champions league",
		"premier league",
		"la liga",
		"serie a",
		"bundesliga",
		"ligue 1",
		"europa league",
	}
}

// Scorer aplica a heurística v1 de partidas: base fixa, bump por janela
// de tempo até o início e bump por liga importante. Sem estado mutável;
// seguro para chamadas concorrentes.
type Scorer struct {
	keywords []string
	now      func() time.Time
}

// NewScorer cria um Scorer com a lista de palavras-chave informada.
// keywords nil usa a lista embutida; now nil usa time.Now.
func NewScorer(keywords []string, now func() time.Time) *Scorer {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	if now == nil {
		now = time.Now
	}
	return &Scorer{keywords: keywords, now: now}
}

// ScoreEvents aplica a heurística a uma lista de eventos, um resultado
// por entrada, na mesma ordem. Lista vazia devolve lista vazia.
func (s *Scorer) ScoreEvents(evs []events.MatchEvent) []events.MatchPrediction {
	out := make([]events.MatchPrediction, 0, len(evs))
	for idx, ev := range evs {
		fixtureID := string(ev.FixtureID)
		if fixtureID == "" {
			fixtureID = strconv.Itoa(idx)
		}

		market := string(ev.Market)
		if market == "" {
			market = "h2h"
		}

		evVal := s.scoreSingle(ev)

		// Probabilidade modelo simples: 0.5 + EV (0.5..0.6)
		prob := 0.5 + evVal
		if prob < 0.01 {
			prob = 0.01
		}
		if prob > 0.99 {
			prob = 0.99
		}

		out = append(out, events.MatchPrediction{
			FixtureID: fixtureID,
			Market:    market,
			EV:        evVal,
			ProbModel: prob,
			Version:   Version,
			Meta: events.PredictionMeta{
				Reasons: []string{ReasonTimeWindow, ReasonLeagueImportance},
			},
		})
	}
	return out
}

// scoreSingle calcula o EV de um evento: base 0.01, bumps por janela de
// tempo e por liga importante, com teto em 0.10.
func (s *Scorer) scoreSingle(ev events.MatchEvent) float64 {
	base := 0.01

	// Bump por tempo até o início (pensado para quando faltam poucas horas).
	if mins, ok := s.minutesToStart(ev); ok {
		switch {
		case mins >= 20 && mins <= 60:
			base += 0.03
		case mins > 60 && mins <= 180:
			base += 0.025
		case mins > 180 && mins <= 360:
			// 3 a 6 horas
			base += 0.02
		case mins > 360 && mins <= 1440:
			// 6h a 24h
			base += 0.015
		}
	}

	if s.isBigLeague(string(ev.League)) {
		base += 0.015
	}

	// Teto e piso
	if base < 0.0 {
		base = 0.0
	}
	if base > 0.10 {
		base = 0.10
	}
	return base
}

// minutesToStart lê o primeiro campo de timestamp presente no evento e
// devolve os minutos até o início (negativo para eventos no passado).
// ok=false quando não há campo presente ou nenhum formato reconhecido.
func (s *Scorer) minutesToStart(ev events.MatchEvent) (float64, bool) {
	iso := string(ev.CommenceTime)
	if iso == "" {
		iso = string(ev.TsISO)
	}
	if iso == "" && ev.Fixture != nil {
		iso = string(ev.Fixture.Date)
	}
	if iso == "" {
		iso = string(ev.Date)
	}
	if iso == "" {
		return 0, false
	}

	ts, ok := events.ParseTimestamp(iso)
	if !ok {
		return 0, false
	}
	return ts.Sub(s.now()).Minutes(), true
}

// isBigLeague verifica se o nome da liga contém alguma palavra-chave.
func (s *Scorer) isBigLeague(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, k := range s.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
