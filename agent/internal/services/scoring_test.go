package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorePairSubScoresStayNormalized(t *testing.T) {
	cases := []struct {
		name string
		f    FeatureSet
	}{
		{"all zero", FeatureSet{}},
		{"tiny pair", FeatureSet{AgeMin: 0.5, LiqUSD: 1, FdvUSD: 1, Pchg5m: -99, Pchg1h: -99, Imbalance: 0}},
		{"whale pair", FeatureSet{AgeMin: 60, LiqUSD: 1e9, FdvUSD: 1e10, Pchg5m: 5000, Pchg1h: 5000, Imbalance: 1, Buys5: 500}},
		{"ancient pair", FeatureSet{AgeMin: 1e6, LiqUSD: 50000, FdvUSD: 2e6, Pchg5m: 3, Pchg1h: 8, Imbalance: 0.7}},
		{"negative momentum", FeatureSet{AgeMin: 30, LiqUSD: 5000, FdvUSD: 40000, Pchg5m: -50, Pchg1h: -80, Imbalance: 0.2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, b := ScorePair(tc.f, 0)

			for name, sub := range map[string]float64{
				"hLiq": b.HLiq, "hMom": b.HMom, "hImb": b.HImb, "hAge": b.HAge, "hFdv": b.HFdv,
			} {
				assert.GreaterOrEqual(t, sub, 0.0, name)
				assert.LessOrEqual(t, sub, 1.0, name)
			}
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
		})
	}
}

func TestScorePairBoostCappedAt100(t *testing.T) {
	f := FeatureSet{AgeMin: 60, LiqUSD: 1e7, FdvUSD: 1e7, Pchg5m: 500, Pchg1h: 500, Imbalance: 1}
	score, _ := ScorePair(f, 50)
	assert.Equal(t, 100.0, score)
}

func TestScorePairRoundedToOneDecimal(t *testing.T) {
	f := FeatureSet{AgeMin: 30, LiqUSD: 5000, FdvUSD: 40000, Pchg5m: 5, Pchg1h: 10, Imbalance: 0.7, Buys5: 7, Sells5: 3}
	score, _ := ScorePair(f, 0)
	assert.Equal(t, score, math.Round(score*10)/10)
}

func TestScorePairBoostIsAdditive(t *testing.T) {
	f := FeatureSet{AgeMin: 30, LiqUSD: 5000, FdvUSD: 40000, Pchg5m: 5, Pchg1h: 10, Imbalance: 0.7, Buys5: 7, Sells5: 3}
	base, _ := ScorePair(f, 0)
	boosted, b := ScorePair(f, 10)

	assert.InDelta(t, base+10, boosted, 0.11)
	assert.Equal(t, 10.0, b.TrendBoost)
}

func TestScorePairBreakdownEchoesFeatures(t *testing.T) {
	f := FeatureSet{AgeMin: 33.33, LiqUSD: 5000, FdvUSD: 40000, Pchg5m: 5, Pchg1h: 10,
		Buys5: 7, Sells5: 3, Imbalance: 0.7, Vol5m: 2000, Vol24h: 57600, VolSpike: 10}
	_, b := ScorePair(f, 0)

	assert.Equal(t, 33.3, b.AgeMin)
	assert.Equal(t, 5000.0, b.LiqUSD)
	assert.Equal(t, 7, b.Buys5)
	assert.Equal(t, 3, b.Sells5)
	assert.Equal(t, 0.7, b.Imbalance)
	assert.Equal(t, 10.0, b.Spike)
}
