package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuantityFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    int64 // scaled
		wantErr bool
	}{
		{"0", 0, false},
		{"1", 10_000, false},
		{"2.5", 25_000, false},
		{"-3.25", -32_500, false},
		{"0.0001", 1, false},
		{"0.00005", 1, false}, // rounds half-up
		{"100.12345", 1_001_235, false},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q, err := NewQuantityFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Int64Scaled())
		})
	}
}

func TestQuantity_String(t *testing.T) {
	assert.Equal(t, "0.0000", Quantity(0).String())
	assert.Equal(t, "1.5000", MustQuantity("1.5").String())
	assert.Equal(t, "-2.2500", MustQuantity("-2.25").String())
	assert.Equal(t, "100.0001", Quantity(1_000_001).String())
}

func TestQuantity_Arithmetic(t *testing.T) {
	a := MustQuantity("10.5")
	b := MustQuantity("3.25")

	assert.Equal(t, MustQuantity("13.75"), a+b)
	assert.Equal(t, MustQuantity("7.25"), a-b)
	assert.Equal(t, MustQuantity("-10.5"), a.Neg())
	assert.Equal(t, MustQuantity("10.5"), a.Neg().Abs())
	assert.True(t, Quantity(0).IsZero())
	assert.True(t, b.IsPositive())
	assert.True(t, b.Neg().IsNegative())
}

func TestQuantity_JSON(t *testing.T) {
	data, err := json.Marshal(MustQuantity("12.5"))
	require.NoError(t, err)
	assert.Equal(t, "12.5000", string(data))

	var q Quantity
	require.NoError(t, json.Unmarshal([]byte("12.5"), &q))
	assert.Equal(t, MustQuantity("12.5"), q)

	require.NoError(t, json.Unmarshal([]byte(`"-3.75"`), &q))
	assert.Equal(t, MustQuantity("-3.75"), q)

	require.NoError(t, json.Unmarshal([]byte("null"), &q))
	assert.True(t, q.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &q))
}

func TestQuantity_Float64RoundTrip(t *testing.T) {
	q := NewQuantityFromFloat64(2.5)
	assert.Equal(t, 2.5, q.Float64())
	assert.Equal(t, MustQuantity("2.5"), q)
}
