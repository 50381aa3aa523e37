package services

import (
	"testing"

	"meme-scanner/agent/internal/models"

	"github.com/stretchr/testify/assert"
)

func trendPair(symbol, name string) *Pair {
	p := pairWith(30, 5000, 40000, 5, 10, 7, 3, 1000, 57600)
	p.BaseToken.Symbol = symbol
	p.BaseToken.Name = name
	return p
}

func TestTrendBoostMatchesSymbolAndName(t *testing.T) {
	keywords := []models.HotKeyword{
		{Term: "pepe", Score: 50},
		{Term: "doge", Score: 80},
		{Term: "cat", Score: 20},
	}

	boost, hits := TrendBoostFrom(keywords, trendPair("PEPE2", "Super Pepe"), 10)
	assert.InDelta(t, 6.0, boost, 1e-9) // 50 * 0.12
	assert.Equal(t, []string{"pepe"}, hits)

	boost, hits = TrendBoostFrom(keywords, trendPair("DOGECAT", "doge cat mix"), 10)
	assert.InDelta(t, 10.0, boost, 1e-9) // 9.6 + 2.4 capped
	assert.ElementsMatch(t, []string{"doge", "cat"}, hits)
}

func TestTrendBoostNoMatches(t *testing.T) {
	keywords := []models.HotKeyword{{Term: "pepe", Score: 90}}

	boost, hits := TrendBoostFrom(keywords, trendPair("SOL", "Solana Thing"), 10)
	assert.Zero(t, boost)
	assert.Empty(t, hits)

	boost, hits = TrendBoostFrom(nil, trendPair("PEPE", "pepe"), 10)
	assert.Zero(t, boost)
	assert.Empty(t, hits)
}

func TestTrendBoostSkipsEmptyTerms(t *testing.T) {
	keywords := []models.HotKeyword{{Term: "", Score: 100}, {Term: "moon", Score: 40}}

	boost, hits := TrendBoostFrom(keywords, trendPair("MOON", "to the moon"), 10)
	assert.InDelta(t, 4.8, boost, 1e-9)
	assert.Equal(t, []string{"moon"}, hits)
}

func TestTrendBoostSingleHitCapped(t *testing.T) {
	keywords := []models.HotKeyword{{Term: "ai", Score: 100}}

	boost, _ := TrendBoostFrom(keywords, trendPair("AIMAX", "ai max"), 10)
	assert.InDelta(t, 10.0, boost, 1e-9) // 12 capped at max
}
