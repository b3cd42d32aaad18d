package consumer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBatchList(t *testing.T) {
	raw := []byte(`[
		{"fixture_id": "m1", "market": "h2h", "league": "Premier League"},
		{"fixture_id": "m2", "commence_time": "2026-07-01T18:00:00Z"}
	]`)

	evs, err := DecodeBatch(raw)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, "m1", string(evs[0].FixtureID))
	assert.Equal(t, "Premier League", string(evs[0].League))
	assert.Equal(t, "m2", string(evs[1].FixtureID))
	assert.Equal(t, "2026-07-01T18:00:00Z", string(evs[1].CommenceTime))
}

func TestDecodeBatchSingleObject(t *testing.T) {
	raw := []byte(`{"fixture_id": "solo", "market": "totals"}`)

	evs, err := DecodeBatch(raw)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "solo", string(evs[0].FixtureID))
	assert.Equal(t, "totals", string(evs[0].Market))
}

func TestDecodeBatchLeadingWhitespace(t *testing.T) {
	raw := []byte("\n\t  [{\"fixture_id\": \"ws\"}]")

	evs, err := DecodeBatch(raw)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "ws", string(evs[0].FixtureID))
}

func TestDecodeBatchUnknownFieldsTolerated(t *testing.T) {
	raw := []byte(`{"fixture_id": 42, "league": true, "extra": {"deep": [1,2]}}`)

	evs, err := DecodeBatch(raw)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "42", string(evs[0].FixtureID))
	assert.Equal(t, "true", string(evs[0].League))
}

func TestDecodeBatchErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
	}{
		{name: "empty payload", raw: []byte("")},
		{name: "blank payload", raw: []byte("   \n ")},
		{name: "not json", raw: []byte("definitely not json")},
		{name: "broken list", raw: []byte(`[{"fixture_id": "a"},`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			evs, err := DecodeBatch(tc.raw)
			assert.Error(t, err)
			assert.Nil(t, evs)
		})
	}
}
