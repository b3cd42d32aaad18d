package runner

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/ev-lab-poc/internal/model/matchev"
	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

// maxLineBytes limita o tamanho de uma linha NDJSON de entrada.
const maxLineBytes = 10 * 1024 * 1024

// Runner lê eventos em NDJSON, pontua em lote e escreve predições em NDJSON.
type Runner struct {
	Log    *zap.Logger
	Scorer *matchev.Scorer

	OnSkipped func()
}

// Run consome todas as linhas de in antes de pontuar, para que o fallback de
// fixture_id use o índice do evento dentro do lote válido.
func (r *Runner) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var batch []events.MatchEvent
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var ev events.MatchEvent
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			r.Log.Warn("skipping malformed line", zap.Int("line", line), zap.Error(err))
			if r.OnSkipped != nil {
				r.OnSkipped()
			}
			continue
		}
		batch = append(batch, ev)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	preds := r.Scorer.ScoreEvents(batch)

	enc := json.NewEncoder(out)
	for _, pred := range preds {
		if err := enc.Encode(pred); err != nil {
			return fmt.Errorf("write prediction: %w", err)
		}
	}

	r.Log.Info("batch scored", zap.Int("events", len(batch)), zap.Int("predictions", len(preds)))
	return nil
}
