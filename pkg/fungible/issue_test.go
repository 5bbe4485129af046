package fungible

import (
	"testing"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/stretchr/testify/require"
)

func TestNewIssue(t *testing.T) {
	t.Parallel()

	allocate := []Outcoins{{Coins: 600, Vout: 0}, {Coins: 400, Vout: 1}}
	control := Outcoins{Coins: 0, Vout: 2}
	description := "a test asset"

	issue, err := NewIssue("TST", "Test", &description,
		MultipleIssues(2000, control), allocate, 2)
	require.NoError(t, err)
	require.Equal(t, "TST", issue.Ticker)
	require.Equal(t, AccountingValue(2000), *issue.Supply)
	require.Equal(t, control, *issue.Inflatable)
	require.Equal(t, allocate, issue.Allocate)

	single, err := NewIssue("TST", "Test", nil, SingleIssue(), allocate, 0)
	require.NoError(t, err)
	require.Nil(t, single.Supply)
	require.Nil(t, single.Inflatable)
	require.True(t, SingleIssue().IsSingle())
	require.False(t, MultipleIssues(1, control).IsSingle())

	data, err := rgb.Encode(issue)
	require.NoError(t, err)
	var decoded Issue
	require.NoError(t, rgb.Decode(data, &decoded))
	require.Equal(t, issue, &decoded)
}

func TestNewIssueErrors(t *testing.T) {
	t.Parallel()

	supply := AccountingValue(10)
	tests := []struct {
		name      string
		ticker    string
		structure IssueStructure
		allocate  []Outcoins
		precision uint8
	}{
		{"empty ticker", "", SingleIssue(), nil, 0},
		{"precision too high", "TST", SingleIssue(), nil, MaxPrecision + 1},
		{"supply without control", "TST", IssueStructure{MaxSupply: &supply}, nil, 0},
		{"over supply", "TST", MultipleIssues(10, Outcoins{}), []Outcoins{{Coins: 11}}, 0},
		{"excess precision", "TST", SingleIssue(), []Outcoins{{Coins: 0.001}}, 2},
		{"wrapping total under supply", "TST", MultipleIssues(1, Outcoins{}),
			[]Outcoins{{Coins: 1 << 63}, {Coins: 1 << 63, Vout: 1}}, 0},
		{"wrapping total", "TST", SingleIssue(),
			[]Outcoins{{Coins: 1 << 63}, {Coins: 1 << 63, Vout: 1}}, 0},
	}
	for _, test := range tests {
		_, err := NewIssue(test.ticker, "Test", nil, test.structure,
			test.allocate, test.precision)
		require.True(t, rgb.IsErrorCode(err, rgb.ErrParse), test.name)
	}
}
