package format

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func tokens(s string) *big.Int {
	// s is a decimal number of whole tokens with at most 18 fractional digits
	parts := strings.SplitN(s, ".", 2)
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	frac += strings.Repeat("0", TokenDecimals-len(frac))
	v, ok := new(big.Int).SetString(parts[0]+frac, 10)
	if !ok {
		panic("invalid amount " + s)
	}
	return v
}

func TestPrice(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "0.00"},
		{"2.5", "2.50"},
		{"0.004", "0.00"},
		{"0.005", "0.01"},
		{"999.99", "999.99"},
		{"999.999", "1000.00"},
		{"1000", "1.0K"},
		{"1234.5", "1.2K"},
		{"1250", "1.3K"},
		{"999949", "999.9K"},
		{"1000000", "1.00M"},
		{"2500000", "2.50M"},
		{"123456789", "123.46M"},
		{"1000000000000", "1000000.00M"},
	}
	for _, c := range cases {
		t.Run(c.amount, func(t *testing.T) {
			require.Equal(t, c.want, Price(tokens(c.amount)))
		})
	}
}

func TestPriceScenario(t *testing.T) {
	price, _ := new(big.Int).SetString("2500000000000000000", 10)
	require.Equal(t, "2.50", Price(price))
}

func TestPriceUnknown(t *testing.T) {
	require.Equal(t, Unknown, Price(nil))
}

func parseDisplayed(t *testing.T, s string) float64 {
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "M"):
		mult, s = 1e6, strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "K"):
		mult, s = 1e3, strings.TrimSuffix(s, "K")
	}
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return v * mult
}

func TestPriceMonotonic(t *testing.T) {
	step := tokens("0.37")
	amount := big.NewInt(0)
	prev := -1.0

	// walk across the K and M boundaries with growing steps
	for i := 0; i < 4000; i++ {
		displayed := parseDisplayed(t, Price(amount))
		require.GreaterOrEqualf(t, displayed, prev, "amount %s", amount)
		prev = displayed

		amount = new(big.Int).Add(amount, step)
		if i%200 == 199 {
			step = new(big.Int).Mul(step, big.NewInt(3))
		}
	}
}

func TestDuration(t *testing.T) {
	require.Equal(t, "00:00:00", Duration(0))
	require.Equal(t, "00:00:59", Duration(59))
	require.Equal(t, "00:01:00", Duration(60))
	require.Equal(t, "01:00:00", Duration(3600))
	require.Equal(t, "23:59:59", Duration(86399))
	require.Equal(t, "25:01:05", Duration(90065))
	require.Equal(t, "100:00:00", Duration(360000))
}

func TestDurationFields(t *testing.T) {
	for _, s := range []uint64{0, 1, 61, 3599, 3661, 86400, 90065, 359999, 1 << 40} {
		got := Duration(s)
		want := fmt.Sprintf("%d", s/3600)
		if s/3600 < 10 {
			want = "0" + want
		}
		want += fmt.Sprintf(":%02d:%02d", s/60%60, s%60)
		require.Equal(t, want, got)
	}
}
