package runner

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/ev-lab-poc/internal/model/matchev"
	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

func newTestRunner(t *testing.T) (*Runner, *int) {
	t.Helper()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	skipped := 0
	r := &Runner{
		Log:       zap.NewNop(),
		Scorer:    matchev.NewScorer(nil, func() time.Time { return now }),
		OnSkipped: func() { skipped++ },
	}
	return r, &skipped
}

func decodeOutput(t *testing.T, out *bytes.Buffer) []events.MatchPrediction {
	t.Helper()

	var preds []events.MatchPrediction
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var pred events.MatchPrediction
		require.NoError(t, json.Unmarshal([]byte(line), &pred))
		preds = append(preds, pred)
	}
	return preds
}

func TestRunScoresEachLine(t *testing.T) {
	in := strings.NewReader(
		`{"fixture_id": "a1", "market": "h2h", "league": "Premier League"}` + "\n" +
			`{"fixture_id": "a2", "market": "totals"}` + "\n",
	)
	var out bytes.Buffer

	r, skipped := newTestRunner(t)
	require.NoError(t, r.Run(in, &out))

	preds := decodeOutput(t, &out)
	require.Len(t, preds, 2)
	assert.Equal(t, 0, *skipped)

	assert.Equal(t, "a1", preds[0].FixtureID)
	assert.InDelta(t, 0.025, preds[0].EV, 1e-12)
	assert.Equal(t, "a2", preds[1].FixtureID)
	assert.InDelta(t, 0.01, preds[1].EV, 1e-12)
	assert.Equal(t, matchev.Version, preds[0].Version)
}

func TestRunSkipsMalformedAndBlankLines(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		`{"fixture_id": "ok1"}`,
		``,
		`not json at all`,
		`   `,
		`{"fixture_id": "ok2"}`,
		`{"broken":`,
	}, "\n"))
	var out bytes.Buffer

	r, skipped := newTestRunner(t)
	require.NoError(t, r.Run(in, &out))

	preds := decodeOutput(t, &out)
	require.Len(t, preds, 2)
	assert.Equal(t, 2, *skipped)
	assert.Equal(t, "ok1", preds[0].FixtureID)
	assert.Equal(t, "ok2", preds[1].FixtureID)
}

func TestRunIndexFallbackCountsOnlyValidLines(t *testing.T) {
	// A linha malformada vem antes do evento sem fixture_id; o índice do
	// fallback segue o lote válido, não o número da linha.
	in := strings.NewReader(strings.Join([]string{
		`{"fixture_id": "named"}`,
		`garbage line`,
		`{"market": "h2h"}`,
	}, "\n"))
	var out bytes.Buffer

	r, _ := newTestRunner(t)
	require.NoError(t, r.Run(in, &out))

	preds := decodeOutput(t, &out)
	require.Len(t, preds, 2)
	assert.Equal(t, "named", preds[0].FixtureID)
	assert.Equal(t, "1", preds[1].FixtureID)
}

func TestRunEmptyInputWritesNothing(t *testing.T) {
	var out bytes.Buffer

	r, skipped := newTestRunner(t)
	require.NoError(t, r.Run(strings.NewReader(""), &out))

	assert.Empty(t, out.String())
	assert.Equal(t, 0, *skipped)
}

func TestRunOutputIsOnePredictionPerLine(t *testing.T) {
	in := strings.NewReader(`{"fixture_id": "x"}` + "\n" + `{"fixture_id": "y"}` + "\n")
	var out bytes.Buffer

	r, _ := newTestRunner(t)
	require.NoError(t, r.Run(in, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.True(t, json.Valid([]byte(line)))
		assert.Contains(t, line, `"meta"`)
	}
}
