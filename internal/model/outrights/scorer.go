package outrights

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

// Textos de resposta voltados ao usuário. Os clientes do feed esperam
// exatamente estas frases em espanhol; não traduzir.
const (
	reasonNoBookmakers = "Sin bookmakers en el evento; no se puede evaluar EV."
	reasonNoOutcomes   = "Sin outcomes válidos de outrights en el evento."
	reasonNoValue      = "Modelo heurístico no encontró valor en este torneo."
)

// Scorer avalia eventos de outrights com uma heurística determinística:
// janela temporal até o início, faixa da cuota e prioridade do torneio.
// A tabela de prioridades e o relógio são injetados na construção, então
// uma instância é imutável e segura para uso concorrente.
type Scorer struct {
	priorities map[string]string
	now        func() time.Time
}

// NewScorer cria um Scorer com a tabela de prioridades informada.
// priorities nil usa a tabela embutida; now nil usa time.Now.
func NewScorer(priorities map[string]string, now func() time.Time) *Scorer {
	if priorities == nil {
		priorities = DefaultPriorities()
	}
	if now == nil {
		now = time.Now
	}
	return &Scorer{priorities: priorities, now: now}
}

// candidate é um outcome selecionável depois do filtro de market e preço.
type candidate struct {
	bookmakerTitle string
	outcomeName    string
	price          float64
	marketKey      string
}

// Score avalia um evento e devolve a melhor seleção encontrada.
// É total em relação ao formato da entrada: campos ausentes ou inválidos
// degradam para uma predição de EV zero com o motivo no texto.
func (s *Scorer) Score(ev events.OutrightEvent) events.OutrightPrediction {
	if len(ev.Bookmakers) == 0 {
		return zeroPrediction(reasonNoBookmakers)
	}

	candidates := flattenCandidates(ev)
	if len(candidates) == 0 {
		return zeroPrediction(reasonNoOutcomes)
	}

	// Tempo e prioridade valem para o evento inteiro; preço varia por candidato.
	timeF := TimeFactor(ev.CommenceTime.Time, s.now())
	priorityF := s.PriorityFactor(ev.SportKey)

	var best *candidate
	bestEV := -1.0
	for i := range candidates {
		priceF := PriceFactor(candidates[i].price)
		evVal := CombineEV(timeF, priceF, priorityF)
		// > estrito: em empate exato vence o primeiro na ordem de entrada
		if evVal > bestEV {
			bestEV = evVal
			best = &candidates[i]
		}
	}

	if best == nil || bestEV <= 0 {
		return zeroPrediction(reasonNoValue)
	}

	selectionKey := fmt.Sprintf("%s:%s", best.marketKey, best.outcomeName)

	// Segunda leitura do relógio, só para o texto de dias até o início.
	daysTxt := "desconocido"
	if ev.CommenceTime.Valid {
		days := ev.CommenceTime.Time.Sub(s.now()).Hours() / 24.0
		daysTxt = fmt.Sprintf("%.1f días", days)
	}

	sportTitle := ev.SportTitle
	if sportTitle == "" {
		sportTitle = ev.SportKey
	}
	if sportTitle == "" {
		sportTitle = "torneo"
	}

	edgeReason := fmt.Sprintf(
		"Torneo: %s. Comienza en %s. Selección: %s @ %.2f en %s. "+
			"Factores considerados: ventana temporal, rango de cuota y prioridad del torneo.",
		sportTitle, daysTxt, best.outcomeName, best.price, best.bookmakerTitle,
	)

	return events.OutrightPrediction{
		EV:             bestEV,
		SelectionName:  best.outcomeName,
		SelectionKey:   &selectionKey,
		Price:          best.price,
		BookmakerTitle: best.bookmakerTitle,
		EdgeReason:     edgeReason,
	}
}

// PriorityFactor converte o nível do torneio em fator 0..1.
func (s *Scorer) PriorityFactor(sportKey string) float64 {
	if sportKey == "" {
		return 0.4
	}
	switch s.priorities[sportKey] {
	case PriorityHigh:
		return 1.0
	case PriorityMedium:
		return 0.7
	default:
		return 0.4 // baixa ou desconhecido
	}
}

// TimeFactor dá um fator 0..1 conforme a distância em dias até o início.
//
//   - commence zerado/ausente: 0.0 (sem sinal de tempo)
//   - <= 0 dias: 0.0 (já começou ou ficou no passado)
//   - > 365 dias: 0.1 (longe demais, quase sem sinal)
//   - 30..365 dias: 0.4 (acompanhamento geral)
//   - 7..30 dias: 0.7 (já bem perto)
//   - 0..7 dias: 1.0 (janela quente)
func TimeFactor(commence time.Time, now time.Time) float64 {
	if commence.IsZero() {
		return 0.0
	}

	deltaDays := commence.Sub(now).Seconds() / 86400.0

	switch {
	case deltaDays <= 0:
		return 0.0
	case deltaDays > 365:
		return 0.1
	case deltaDays > 30:
		return 0.4
	case deltaDays > 7:
		return 0.7
	default:
		return 1.0 // 0..7 dias
	}
}

// PriceFactor dá um fator heurístico conforme a faixa da cuota.
// A ideia é evitar favoritos ultra curtos e super-longshots, priorizando
// cuotas "semi-realistas" tipo 3-6, 6-15.
func PriceFactor(price float64) float64 {
	switch {
	case price <= 1.3 || price > 200:
		return 0.0
	case price <= 2.5:
		return 0.5
	case price <= 6.0:
		return 1.0
	case price <= 15.0:
		return 0.8
	case price <= 30.0:
		return 0.5
	case price <= 60.0:
		return 0.3
	default:
		return 0.2 // 60..200, mas não tão extremo
	}
}

// CombineEV combina os fatores num score 0..1 e escala para EV 0..0.25,
// arredondado a 3 decimais.
func CombineEV(timeF, priceF, priorityF float64) float64 {
	score := 0.4*timeF + 0.4*priceF + 0.2*priorityF
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	ev := 0.25 * score
	return math.Round(ev*1000) / 1000
}

// flattenCandidates achata bookmakers/markets/outcomes numa lista de
// candidatos na ordem de entrada, só com markets de outrights/winner e
// preços válidos (> 1.0).
func flattenCandidates(ev events.OutrightEvent) []candidate {
	var candidates []candidate
	for _, bm := range ev.Bookmakers {
		title := bm.Title
		if title == "" {
			title = "Unknown"
		}
		for _, mk := range bm.Markets {
			key := strings.ToLower(mk.Key)
			if !strings.Contains(key, "outright") && key != "winner" {
				continue
			}
			for _, outcome := range mk.Outcomes {
				if !outcome.Price.Valid || outcome.Price.Value <= 1.0 {
					continue
				}
				candidates = append(candidates, candidate{
					bookmakerTitle: title,
					outcomeName:    outcome.Name,
					price:          outcome.Price.Value,
					marketKey:      key,
				})
			}
		}
	}
	return candidates
}

// zeroPrediction monta a resposta degradada padrão (sem seleção real).
func zeroPrediction(reason string) events.OutrightPrediction {
	return events.OutrightPrediction{
		EV:             0.0,
		SelectionName:  "N/A",
		SelectionKey:   nil,
		Price:          1.0,
		BookmakerTitle: "N/A",
		EdgeReason:     reason,
	}
}
