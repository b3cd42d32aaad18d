package outrights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

// Relógio fixo para os testes: os fatores de tempo ficam determinísticos.
var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func num(v float64) events.FlexFloat {
	return events.FlexFloat{Value: v, Valid: true}
}

func commenceIn(d time.Duration) events.FlexTime {
	return events.FlexTime{Time: testNow.Add(d), Valid: true}
}

func TestPriceFactor(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		expected float64
	}{
		{"zero", 0.0, 0.0},
		{"negative", -2.0, 0.0},
		{"too short exact boundary", 1.3, 0.0},
		{"just above short boundary", 1.31, 0.5},
		{"mid low band", 2.0, 0.5},
		{"end of low band", 2.5, 0.5},
		{"start of peak band", 2.51, 1.0},
		{"peak band", 4.0, 1.0},
		{"end of peak band", 6.0, 1.0},
		{"upper mid band", 10.0, 0.8},
		{"end of upper mid band", 15.0, 0.8},
		{"longshot band", 20.0, 0.5},
		{"end of longshot band", 30.0, 0.5},
		{"deep longshot band", 45.0, 0.3},
		{"end of deep longshot band", 60.0, 0.3},
		{"extreme band", 100.0, 0.2},
		{"end of extreme band", 200.0, 0.2},
		{"absurd longshot", 200.01, 0.0},
		{"very absurd longshot", 1000.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PriceFactor(tt.price))
		})
	}
}

func TestPriceFactorOnlyKnownSteps(t *testing.T) {
	known := map[float64]bool{0.0: true, 0.2: true, 0.3: true, 0.5: true, 0.8: true, 1.0: true}

	// Varre a faixa inteira e confere que o fator só assume valores da escada
	// e que zera exatamente fora de (1.3, 200].
	for p := -5.0; p <= 250.0; p += 0.07 {
		f := PriceFactor(p)
		assert.True(t, known[f], "price %.2f produced unknown factor %v", p, f)
		if p <= 1.3 || p > 200 {
			assert.Equal(t, 0.0, f, "price %.2f should be excluded", p)
		} else {
			assert.Greater(t, f, 0.0, "price %.2f should have signal", p)
		}
	}
}

func TestTimeFactor(t *testing.T) {
	tests := []struct {
		name     string
		commence time.Time
		expected float64
	}{
		{"missing commence", time.Time{}, 0.0},
		{"already started", testNow.Add(-time.Hour), 0.0},
		{"starts exactly now", testNow, 0.0},
		{"hot window one day", testNow.Add(24 * time.Hour), 1.0},
		{"hot window boundary seven days", testNow.Add(7 * 24 * time.Hour), 1.0},
		{"close window eight days", testNow.Add(8 * 24 * time.Hour), 0.7},
		{"close window boundary thirty days", testNow.Add(30 * 24 * time.Hour), 0.7},
		{"general window ninety days", testNow.Add(90 * 24 * time.Hour), 0.4},
		{"general window boundary one year", testNow.Add(365 * 24 * time.Hour), 0.4},
		{"too far away", testNow.Add(366 * 24 * time.Hour), 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TimeFactor(tt.commence, testNow))
		})
	}
}

func TestCombineEV(t *testing.T) {
	// Caso de referência: fatores máximos de tempo e preço com prioridade
	// baixa dão score 0.88 e EV 0.22.
	assert.Equal(t, 0.22, CombineEV(1.0, 1.0, 0.4))
	assert.Equal(t, 0.25, CombineEV(1.0, 1.0, 1.0))
	assert.Equal(t, 0.0, CombineEV(0.0, 0.0, 0.0))
}

func TestCombineEVBoundsAndMonotonicity(t *testing.T) {
	steps := []float64{0.0, 0.1, 0.3, 0.4, 0.5, 0.7, 0.8, 1.0}

	for _, tf := range steps {
		for _, pf := range steps {
			for _, prf := range steps {
				ev := CombineEV(tf, pf, prf)
				assert.GreaterOrEqual(t, ev, 0.0)
				assert.LessOrEqual(t, ev, 0.25)

				// Aumentar qualquer fator isolado nunca reduz o EV.
				assert.GreaterOrEqual(t, CombineEV(tf+0.1, pf, prf), ev)
				assert.GreaterOrEqual(t, CombineEV(tf, pf+0.1, prf), ev)
				assert.GreaterOrEqual(t, CombineEV(tf, pf, prf+0.1), ev)
			}
		}
	}
}

func TestPriorityFactor(t *testing.T) {
	s := NewScorer(nil, fixedNow)

	tests := []struct {
		name     string
		sportKey string
		expected float64
	}{
		{"alta", "soccer_fifa_world_cup_winner", 1.0},
		{"media", "soccer_copa_america_winner", 0.7},
		{"unmapped key", "soccer_brazil_serie_b_winner", 0.4},
		{"empty key", "", 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.PriorityFactor(tt.sportKey))
		})
	}
}

func TestPriorityFactorCustomTable(t *testing.T) {
	s := NewScorer(map[string]string{
		"basketball_euroleague_winner": PriorityHigh,
		"soccer_fifa_world_cup_winner": "baja",
		"handball_weird_tier":          "urgente",
	}, fixedNow)

	assert.Equal(t, 1.0, s.PriorityFactor("basketball_euroleague_winner"))
	// A tabela injetada substitui a embutida por completo.
	assert.Equal(t, 0.4, s.PriorityFactor("soccer_fifa_world_cup_winner"))
	// Nível desconhecido vale prioridade baixa.
	assert.Equal(t, 0.4, s.PriorityFactor("handball_weird_tier"))
}

func TestScoreGoldenBrazilWinner(t *testing.T) {
	s := NewScorer(nil, fixedNow)

	ev := events.OutrightEvent{
		SportKey:     "soccer_conmebol_libertadores_winner",
		CommenceTime: commenceIn(72 * time.Hour),
		Bookmakers: []events.Bookmaker{
			{
				Title: "Bet365",
				Markets: []events.Market{
					{Key: "winner", Outcomes: []events.Outcome{
						{Name: "Brazil", Price: num(4.0)},
					}},
				},
			},
		},
	}

	pred := s.Score(ev)

	assert.Equal(t, 0.22, pred.EV)
	assert.Equal(t, "Brazil", pred.SelectionName)
	require.NotNil(t, pred.SelectionKey)
	assert.Equal(t, "winner:Brazil", *pred.SelectionKey)
	assert.Equal(t, 4.0, pred.Price)
	assert.Equal(t, "Bet365", pred.BookmakerTitle)
	assert.Equal(t,
		"Torneo: soccer_conmebol_libertadores_winner. Comienza en 3.0 días. "+
			"Selección: Brazil @ 4.00 en Bet365. "+
			"Factores considerados: ventana temporal, rango de cuota y prioridad del torneo.",
		pred.EdgeReason)
}

func TestScoreNoBookmakers(t *testing.T) {
	s := NewScorer(nil, fixedNow)

	pred := s.Score(events.OutrightEvent{SportKey: "soccer_fifa_world_cup_winner"})

	assert.Equal(t, 0.0, pred.EV)
	assert.Equal(t, "N/A", pred.SelectionName)
	assert.Nil(t, pred.SelectionKey)
	assert.Equal(t, 1.0, pred.Price)
	assert.Equal(t, "N/A", pred.BookmakerTitle)
	assert.Equal(t, "Sin bookmakers en el evento; no se puede evaluar EV.", pred.EdgeReason)
}

func TestScoreNoValidOutcomes(t *testing.T) {
	s := NewScorer(nil, fixedNow)

	tests := []struct {
		name string
		ev   events.OutrightEvent
	}{
		{
			name: "only non outright markets",
			ev: events.OutrightEvent{Bookmakers: []events.Bookmaker{
				{Title: "Bet365", Markets: []events.Market{
					{Key: "h2h", Outcomes: []events.Outcome{{Name: "Brazil", Price: num(2.0)}}},
					{Key: "totals", Outcomes: []events.Outcome{{Name: "Over", Price: num(1.9)}}},
				}},
			}},
		},
		{
			name: "prices at or below one",
			ev: events.OutrightEvent{Bookmakers: []events.Bookmaker{
				{Title: "Bet365", Markets: []events.Market{
					{Key: "outrights", Outcomes: []events.Outcome{
						{Name: "Brazil", Price: num(1.0)},
						{Name: "Argentina", Price: num(0.5)},
					}},
				}},
			}},
		},
		{
			name: "invalid prices discarded",
			ev: events.OutrightEvent{Bookmakers: []events.Bookmaker{
				{Title: "Bet365", Markets: []events.Market{
					{Key: "outrights", Outcomes: []events.Outcome{
						{Name: "Brazil", Price: events.FlexFloat{}},
					}},
				}},
			}},
		},
		{
			name: "bookmaker without markets",
			ev: events.OutrightEvent{Bookmakers: []events.Bookmaker{
				{Title: "Bet365"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := s.Score(tt.ev)
			assert.Equal(t, 0.0, pred.EV)
			assert.Equal(t, "N/A", pred.SelectionName)
			assert.Nil(t, pred.SelectionKey)
			assert.Equal(t, "Sin outcomes válidos de outrights en el evento.", pred.EdgeReason)
		})
	}
}

func TestScoreMarketFilter(t *testing.T) {
	s := NewScorer(nil, fixedNow)

	// O market h2h tem preço melhor, mas é invisível para o modelo;
	// variantes de outright e "winner" entram, inclusive com caixa alta.
	ev := events.OutrightEvent{
		CommenceTime: commenceIn(72 * time.Hour),
		Bookmakers: []events.Bookmaker{
			{Title: "Pinnacle", Markets: []events.Market{
				{Key: "h2h", Outcomes: []events.Outcome{{Name: "Ignored", Price: num(4.0)}}},
				{Key: "OUTRIGHT_WINNER", Outcomes: []events.Outcome{{Name: "Palmeiras", Price: num(12.0)}}},
			}},
			{Title: "Betfair", Markets: []events.Market{
				{Key: "WINNER", Outcomes: []events.Outcome{{Name: "Flamengo", Price: num(18.0)}}},
			}},
		},
	}

	pred := s.Score(ev)

	// 12.0 fica na faixa 0.8; 18.0 na 0.5: vence o outcome do market filtrado
	// com maior fator de preço.
	assert.Equal(t, "Palmeiras", pred.SelectionName)
	require.NotNil(t, pred.SelectionKey)
	assert.Equal(t, "outright_winner:Palmeiras", *pred.SelectionKey)
}

func TestScoreTieKeepsFirstSeen(t *testing.T) {
	s := NewScorer(nil, fixedNow)

	// Três candidatos na mesma faixa de preço: empate exato de EV,
	// vence o primeiro na ordem bookmaker -> market -> outcome.
	ev := events.OutrightEvent{
		CommenceTime: commenceIn(48 * time.Hour),
		Bookmakers: []events.Bookmaker{
			{Title: "Bet365", Markets: []events.Market{
				{Key: "outrights", Outcomes: []events.Outcome{
					{Name: "Argentina", Price: num(3.0)},
					{Name: "Francia", Price: num(4.0)},
				}},
			}},
			{Title: "Pinnacle", Markets: []events.Market{
				{Key: "outrights", Outcomes: []events.Outcome{
					{Name: "Brasil", Price: num(5.0)},
				}},
			}},
		},
	}

	pred := s.Score(ev)

	assert.Equal(t, "Argentina", pred.SelectionName)
	assert.Equal(t, "Bet365", pred.BookmakerTitle)
	assert.Equal(t, 3.0, pred.Price)
}

func TestScorePriceLeniency(t *testing.T) {
	s := NewScorer(nil, fixedNow)

	// Preço como string numérica vale; preço nulo é descartado.
	ev := events.OutrightEvent{
		CommenceTime: commenceIn(24 * time.Hour),
		Bookmakers: []events.Bookmaker{
			{Title: "Betano", Markets: []events.Market{
				{Key: "outrights", Outcomes: []events.Outcome{
					{Name: "Nulo", Price: events.FlexFloat{}},
					{Name: "Uruguay", Price: num(4.5)},
				}},
			}},
		},
	}

	pred := s.Score(ev)
	assert.Equal(t, "Uruguay", pred.SelectionName)
	assert.Equal(t, 4.5, pred.Price)
}

func TestScoreEmptyBookmakerTitleBecomesUnknown(t *testing.T) {
	s := NewScorer(nil, fixedNow)

	ev := events.OutrightEvent{
		CommenceTime: commenceIn(24 * time.Hour),
		Bookmakers: []events.Bookmaker{
			{Title: "", Markets: []events.Market{
				{Key: "winner", Outcomes: []events.Outcome{{Name: "Chile", Price: num(5.0)}}},
			}},
		},
	}

	pred := s.Score(ev)
	assert.Equal(t, "Unknown", pred.BookmakerTitle)
}

func TestScoreReasonFallbacks(t *testing.T) {
	s := NewScorer(nil, fixedNow)

	bookmakers := []events.Bookmaker{
		{Title: "Bet365", Markets: []events.Market{
			{Key: "winner", Outcomes: []events.Outcome{{Name: "Brasil", Price: num(4.0)}}},
		}},
	}

	t.Run("sport title preferred", func(t *testing.T) {
		pred := s.Score(events.OutrightEvent{
			SportTitle:   "Copa Libertadores",
			SportKey:     "soccer_conmebol_libertadores_winner",
			CommenceTime: commenceIn(24 * time.Hour),
			Bookmakers:   bookmakers,
		})
		assert.Contains(t, pred.EdgeReason, "Torneo: Copa Libertadores.")
	})

	t.Run("sport key fallback", func(t *testing.T) {
		pred := s.Score(events.OutrightEvent{
			SportKey:     "soccer_conmebol_libertadores_winner",
			CommenceTime: commenceIn(24 * time.Hour),
			Bookmakers:   bookmakers,
		})
		assert.Contains(t, pred.EdgeReason, "Torneo: soccer_conmebol_libertadores_winner.")
	})

	t.Run("generic fallback", func(t *testing.T) {
		pred := s.Score(events.OutrightEvent{
			CommenceTime: commenceIn(24 * time.Hour),
			Bookmakers:   bookmakers,
		})
		assert.Contains(t, pred.EdgeReason, "Torneo: torneo.")
	})

	t.Run("unknown start when commence missing", func(t *testing.T) {
		pred := s.Score(events.OutrightEvent{Bookmakers: bookmakers})
		assert.Contains(t, pred.EdgeReason, "Comienza en desconocido.")
		// Sem sinal de tempo o EV cai, mas a seleção continua válida.
		assert.Greater(t, pred.EV, 0.0)
	})
}

func TestScorePastEventStillSelects(t *testing.T) {
	s := NewScorer(nil, fixedNow)

	// Evento no passado zera o fator de tempo, mas preço e prioridade
	// ainda geram EV positivo.
	pred := s.Score(events.OutrightEvent{
		SportKey:     "soccer_fifa_world_cup_winner",
		CommenceTime: commenceIn(-48 * time.Hour),
		Bookmakers: []events.Bookmaker{
			{Title: "Bet365", Markets: []events.Market{
				{Key: "outrights", Outcomes: []events.Outcome{{Name: "España", Price: num(5.0)}}},
			}},
		},
	})

	// score = 0.4*0 + 0.4*1.0 + 0.2*1.0 = 0.6 -> EV 0.15
	assert.Equal(t, 0.15, pred.EV)
	assert.Contains(t, pred.EdgeReason, "-2.0 días")
}

func TestScoreIdempotentWithFixedClock(t *testing.T) {
	s := NewScorer(nil, fixedNow)

	ev := events.OutrightEvent{
		SportKey:     "soccer_uefa_champions_league_winner",
		CommenceTime: commenceIn(10 * 24 * time.Hour),
		Bookmakers: []events.Bookmaker{
			{Title: "Bet365", Markets: []events.Market{
				{Key: "outrights", Outcomes: []events.Outcome{
					{Name: "Real Madrid", Price: num(3.2)},
					{Name: "Arsenal", Price: num(7.5)},
				}},
			}},
		},
	}

	first := s.Score(ev)
	second := s.Score(ev)
	assert.Equal(t, first, second)
}
