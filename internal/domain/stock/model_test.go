package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNormalizesInput(t *testing.T) {
	for _, raw := range []string{"AAPL", "aapl", " aapl ", "AaPl"} {
		s, err := Parse(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, Symbol("AAPL"), s)
	}
}

func TestParseRejectsUnknownSymbols(t *testing.T) {
	for _, raw := range []string{"", "ENRON", "AAPL2", "stream"} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrUnsupportedSymbol, "raw %q", raw)
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("nvda"))
	assert.False(t, IsSupported("BRK.A"))
}

func TestAllIsDeterministicAndComplete(t *testing.T) {
	all := All()
	require.Len(t, all, len(supportedSymbols))

	assert.Equal(t, Symbol("AAPL"), all[0])
	assert.Equal(t, all, All())

	for _, s := range all {
		assert.NotEmpty(t, s.CompanyName(), "symbol %s", s)
	}
}
