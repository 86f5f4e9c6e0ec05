package reply

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompletarResult(t *testing.T) {
	// 100 at 0.54 buys 185.1852 shares; completing at 0.23 costs 42.59 USD.
	text := CompletarResult(42.59259259259259, 185.18518518518519)

	require.Contains(t, text, "Completar Arbitraje")
	require.Contains(t, text, "*42.59 USD*")
	require.Contains(t, text, "185.1852")
}

func TestTotalResult(t *testing.T) {
	text := TotalResult(708.3333333333334, 291.6666666666667)

	require.Contains(t, text, "Arbitraje Total")
	require.Contains(t, text, "s1 = 708.33 USD")
	require.Contains(t, text, "s2 = 291.67 USD")
}

func TestHintsCarryExamples(t *testing.T) {
	require.Contains(t, CompletarHint(), "`100 0.54 0.23`")
	require.Contains(t, CompletarHint(), "`s1 p1 p2`")

	require.Contains(t, TotalHint(), "`1000 0.68 0.28`")
	require.Contains(t, TotalHint(), "`S p1 p2`")
}
