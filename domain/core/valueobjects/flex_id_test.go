package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIDMatches(t *testing.T) {
	tests := []struct {
		name string
		a, b FlexID
		want bool
	}{
		{"identical strings", NewFlexID("abc"), NewFlexID("abc"), true},
		{"different strings", NewFlexID("abc"), NewFlexID("abd"), false},
		{"string vs int same value", NewFlexID("5"), NewFlexIDFromInt(5), true},
		{"zero padded matches numerically", NewFlexID("05"), NewFlexIDFromInt(5), true},
		{"numeric mismatch", NewFlexID("5"), NewFlexIDFromInt(6), false},
		{"zero never matches zero", FlexID{}, FlexID{}, false},
		{"zero never matches value", FlexID{}, NewFlexID("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Matches(tt.b))
			assert.Equal(t, tt.want, tt.b.Matches(tt.a))
		})
	}
}

func TestFlexIDFromAny(t *testing.T) {
	assert.Equal(t, "7", NewFlexIDFromAny(7).String())
	assert.Equal(t, "7", NewFlexIDFromAny("7").String())
	// JSON numbers decode as float64
	assert.Equal(t, "7", NewFlexIDFromAny(float64(7)).String())
	assert.True(t, NewFlexIDFromAny(nil).IsZero())
}

func TestFlexIDGroupRef(t *testing.T) {
	n, ok := NewFlexID("group-3").GroupRef()
	require.True(t, ok)
	assert.Equal(t, 3, n)

	for _, raw := range []string{"group-", "group-x", "3", "tweet-3", "", "group-3-extra"} {
		_, ok := NewFlexID(raw).GroupRef()
		assert.False(t, ok, "raw=%q", raw)
	}
}

func TestFlexIDJSON(t *testing.T) {
	type payload struct {
		ID FlexID `json:"id"`
	}

	t.Run("accepts string", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"id":"abc"}`), &p))
		assert.Equal(t, "abc", p.ID.String())
	})

	t.Run("accepts number", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"id":12}`), &p))
		assert.Equal(t, "12", p.ID.String())
	})

	t.Run("round trips", func(t *testing.T) {
		out, err := json.Marshal(payload{ID: NewFlexID("x9")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"x9"}`, string(out))
	})
}
