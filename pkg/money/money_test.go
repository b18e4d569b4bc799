package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cents int64
	}{
		{"plain decimal", "49.90", 4990},
		{"comma decimal", "49,90", 4990},
		{"euro suffix", "123,45 €", 12345},
		{"euro prefix", "€ 1234.56", 123456},
		{"thousands comma", "1,234.56", 123456},
		{"thousands dot with comma decimal", "1.234,56", 123456},
		{"thousands space", "1 234,56", 123456},
		{"negative", "-49,90", -4990},
		{"negative with symbol", "-123.45 €", -12345},
		{"integer", "500", 50000},
		{"single comma decimal digit", "7,5", 750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.cents, m.Amount())
		})
	}
}

func TestParse_Unparseable(t *testing.T) {
	for _, input := range []string{"", "   ", "n/a", "€", "--"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.ErrorIs(t, err, ErrUnparseable)
		})
	}
}

func TestParse_DateLikeStringIsNotRejected(t *testing.T) {
	// Footer rows sometimes carry dates in amount columns; the caller decides
	// whether such rows survive, Parse just extracts what digits it can.
	m, err := Parse("01/03/2024")
	require.NoError(t, err)
	assert.NotZero(t, m.Amount())
}

func TestSplitTaxInclusive(t *testing.T) {
	t.Run("standard rate", func(t *testing.T) {
		gross, err := Parse("49,90")
		require.NoError(t, err)

		base, tax := gross.SplitTaxInclusive(20.0)
		assert.Equal(t, int64(4158), base.Amount())
		assert.Equal(t, int64(832), tax.Amount())
	})

	t.Run("zero rate", func(t *testing.T) {
		gross := New(10000)
		base, tax := gross.SplitTaxInclusive(0)
		assert.Equal(t, int64(10000), base.Amount())
		assert.True(t, tax.IsZero())
	})

	t.Run("base plus tax reconstructs gross exactly", func(t *testing.T) {
		for _, cents := range []int64{1, 99, 4990, 123456, -4990, 1000001} {
			for _, rate := range []float64{0, 5.5, 7, 10, 20} {
				gross := New(cents)
				base, tax := gross.SplitTaxInclusive(rate)
				assert.Equal(t, gross.Amount(), base.Add(tax).Amount(),
					"cents=%d rate=%v", cents, rate)
			}
		}
	})
}

func TestArithmetic(t *testing.T) {
	a := New(1050)
	b := New(-250)

	assert.Equal(t, int64(800), a.Add(b).Amount())
	assert.Equal(t, int64(1300), a.Subtract(b).Amount())
	assert.Equal(t, int64(250), b.Abs().Amount())
	assert.Equal(t, int64(250), b.Negate().Amount())
	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(a))
	assert.True(t, New(1050).Equals(a))
	assert.True(t, b.IsNegative())
	assert.True(t, a.IsPositive())
	assert.True(t, Zero().IsZero())
}

func TestString(t *testing.T) {
	assert.Equal(t, "12.30", New(1230).String())
	assert.Equal(t, "-0.05", New(-5).String())
}
