package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestQuantizeIsIdempotent(t *testing.T) {
	inputs := []string{"0", "0.005", "-0.005", "1000", "4975.505", "19.999", "-3.141"}
	for _, in := range inputs {
		first, err := Quantize(in)
		require.NoError(t, err)
		second, err := Quantize(first)
		require.NoError(t, err)
		require.True(t, first.Equal(second), "quantize(%s) not idempotent: %s != %s", in, first, second)
	}
}

func TestQuantizeRoundsHalfUp(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{1000, "1000.00"},
		{"4975.505", "4975.51"},
		{"0.005", "0.01"},
		{"-0.005", "-0.01"},
		{"2.675", "2.68"},
		{int64(7), "7.00"},
		{decimal.RequireFromString("12.345"), "12.35"},
	}
	for _, tc := range cases {
		got, err := Quantize(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, String(got), "quantize(%v)", tc.in)
	}
}

func TestQuantizeRejectsUnparsableInput(t *testing.T) {
	_, err := Quantize("not-a-number")
	require.ErrorIs(t, err, ErrValueConversion)

	_, err = Quantize(nil)
	require.ErrorIs(t, err, ErrValueConversion)

	_, err = Quantize(struct{}{})
	require.ErrorIs(t, err, ErrValueConversion)
}

func TestStringKeepsTwoDecimals(t *testing.T) {
	d, err := Quantize("1.5")
	require.NoError(t, err)
	require.Equal(t, "1.50", String(d))
	require.Equal(t, "0.00", String(Zero))
}
