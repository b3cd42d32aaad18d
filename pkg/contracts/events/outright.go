package events

// Evento de outrights (vencedor de torneio) no formato da OddsAPI.
// As listas preservam a ordem de chegada; o desempate do modelo depende dela.

type Outcome struct {
	Name  string    `json:"name"`
	Price FlexFloat `json:"price"`
}

type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

type Bookmaker struct {
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

type OutrightEvent struct {
	ID           string      `json:"id,omitempty"`
	SportKey     string      `json:"sport_key,omitempty"`
	SportTitle   string      `json:"sport_title,omitempty"`
	CommenceTime FlexTime    `json:"commence_time"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Corpo do POST /ev/outrights/score: { "event": { ... } }
type ScoreOutrightRequest struct {
	Event OutrightEvent `json:"event"`
}

// Resposta do modelo de outrights.
// SelectionKey é nil nas respostas degradadas (sem seleção real).
type OutrightPrediction struct {
	EV             float64 `json:"ev"`
	SelectionName  string  `json:"selection_name"`
	SelectionKey   *string `json:"selection_key"`
	Price          float64 `json:"price"`
	BookmakerTitle string  `json:"bookmaker_title"`
	EdgeReason     string  `json:"edge_reason"`
}
