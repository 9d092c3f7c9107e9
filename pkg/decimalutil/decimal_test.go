package decimalutil_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/familiarcow/rune-tools-desktop-sub003/pkg/decimalutil"
)

func TestSplitDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		intPart  string
		fracPart string
	}{
		{"123.456", "123", "456"},
		{"123", "123", ""},
		{"0.00000001", "0", "00000001"},
		{"1.", "1", ""},
	}
	for _, tt := range tests {
		i, f := decimalutil.SplitDecimal(tt.in)
		require.Equal(t, tt.intPart, i)
		require.Equal(t, tt.fracPart, f)
	}
}

func TestTruncateFractionNeverRounds(t *testing.T) {
	t.Parallel()

	// Digits >= 5 in the dropped tail must be discarded, not rounded up.
	require.Equal(t, "23", decimalutil.TruncateFraction("239", 2))
	require.Equal(t, "99", decimalutil.TruncateFraction("999", 2))
	require.Equal(t, "123", decimalutil.TruncateFraction("123", 5))
	require.Equal(t, "", decimalutil.TruncateFraction("123", 0))
	require.Equal(t, "", decimalutil.TruncateFraction("123", -1))
}

func TestPadFraction(t *testing.T) {
	t.Parallel()

	require.Equal(t, "12300", decimalutil.PadFraction("123", 5))
	require.Equal(t, "123", decimalutil.PadFraction("123", 3))
	require.Equal(t, "123", decimalutil.PadFraction("123", 2))
	require.Equal(t, "00000", decimalutil.PadFraction("", 5))
}

func TestShiftToInteger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		decimals int
		want     string
	}{
		{"1.00000003", 8, "100000003"},
		{"0.00000001", 8, "1"},
		{"1", 8, "100000000"},
		{"123.456", 6, "123456000"},
		{"0", 8, "0"},
		// 18-decimal token amount that float64 cannot represent exactly.
		{"1.000000000000000001", 18, "1000000000000000001"},
	}
	for _, tt := range tests {
		got, err := decimalutil.ShiftToInteger(tt.in, tt.decimals)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestShiftToIntegerRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := decimalutil.ShiftToInteger("1.2.3", 8)
	require.Error(t, err)
	_, err = decimalutil.ShiftToInteger("-1", 8)
	require.Error(t, err)
	_, err = decimalutil.ShiftToInteger("1.123456789", 8)
	require.Error(t, err)
}

func TestFromBaseUnits(t *testing.T) {
	t.Parallel()

	got, err := decimalutil.FromBaseUnits("1000", 8)
	require.NoError(t, err)
	require.Equal(t, "0.00001000", got)

	got, err = decimalutil.FromBaseUnits("123456789", 8)
	require.NoError(t, err)
	require.Equal(t, "1.23456789", got)

	got, err = decimalutil.FromBaseUnits("42", 0)
	require.NoError(t, err)
	require.Equal(t, "42", got)
}

func TestCmpIsNumeric(t *testing.T) {
	t.Parallel()

	// String comparison would get these wrong.
	c, err := decimalutil.Cmp("9", "10")
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = decimalutil.Cmp("1.50", "1.5")
	require.NoError(t, err)
	require.Equal(t, 0, c)

	c, err = decimalutil.Cmp("0.000000000000000002", "0.000000000000000001")
	require.NoError(t, err)
	require.Equal(t, 1, c)
}

func TestIsDecimalString(t *testing.T) {
	t.Parallel()

	require.True(t, decimalutil.IsDecimalString("1.23"))
	require.True(t, decimalutil.IsDecimalString("0"))
	require.False(t, decimalutil.IsDecimalString("-1"))
	require.False(t, decimalutil.IsDecimalString("1e8"))
	require.False(t, decimalutil.IsDecimalString("1,000"))
	require.False(t, decimalutil.IsDecimalString(""))
	require.False(t, decimalutil.IsDecimalString("."))
}
