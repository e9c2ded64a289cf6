package handlers

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLenientDecimal(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want decimal.Decimal
	}{
		{"number", `3200.50`, decimal.NewFromFloat(3200.50)},
		{"numeric string", `"3200.50"`, decimal.NewFromFloat(3200.50)},
		{"integer", `42`, decimal.NewFromInt(42)},
		{"negative passes through", `-5`, decimal.NewFromInt(-5)},
		{"non-numeric string", `"abc"`, decimal.Zero},
		{"null", `null`, decimal.Zero},
		{"object", `{"a":1}`, decimal.Zero},
		{"boolean", `true`, decimal.Zero},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := lenientDecimal(json.RawMessage(tc.raw))
			assert.True(t, got.Equal(tc.want), "got %s, want %s", got, tc.want)
		})
	}
}

func TestLenientDecimalEmpty(t *testing.T) {
	assert.True(t, lenientDecimal(nil).IsZero())
}
