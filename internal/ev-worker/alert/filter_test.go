package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

func TestShouldAlert(t *testing.T) {
	f := Filter{MinEV: 0.04}

	cases := []struct {
		name string
		ev   float64
		want bool
	}{
		{name: "zero ev never alerts", ev: 0.0, want: false},
		{name: "negative ev never alerts", ev: -0.02, want: false},
		{name: "below threshold", ev: 0.039, want: false},
		{name: "exactly at threshold", ev: 0.04, want: true},
		{name: "above threshold", ev: 0.055, want: true},
		{name: "capped ev", ev: 0.10, want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := f.ShouldAlert(events.MatchPrediction{FixtureID: "f1", EV: tc.ev})
			assert.Equal(t, tc.want, ok)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestShouldAlertZeroThresholdStillSkipsZeroEV(t *testing.T) {
	f := Filter{MinEV: 0}

	ok, reason := f.ShouldAlert(events.MatchPrediction{EV: 0})
	assert.False(t, ok)
	assert.Equal(t, "ev is zero", reason)

	ok, _ = f.ShouldAlert(events.MatchPrediction{EV: 0.01})
	assert.True(t, ok)
}
