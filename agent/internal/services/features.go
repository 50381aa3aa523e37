package services

import "time"

// fiveMinWindows is how many 5-minute windows fit in 24h; the 24h volume
// divided by it gives the baseline the spike ratio is measured against.
const fiveMinWindows = 288.0

// FeatureSet is the fixed numeric feature tuple the scorer and gates consume.
type FeatureSet struct {
	AgeMin    float64
	LiqUSD    float64
	FdvUSD    float64
	Pchg5m    float64
	Pchg1h    float64
	Buys5     int
	Sells5    int
	Imbalance float64
	Vol5m     float64
	Vol24h    float64
	VolSpike  float64
}

func (f FeatureSet) Tx5() int { return f.Buys5 + f.Sells5 }

// ExtractFeatures turns a raw snapshot into the feature tuple. Pure: missing
// snapshot fields default to zero and a pair with no creation timestamp gets
// age zero (treated as brand new).
func ExtractFeatures(p *Pair, now time.Time) FeatureSet {
	nowMs := now.UnixMilli()
	createdMs := p.PairCreatedAt
	if createdMs == 0 {
		createdMs = nowMs
	}
	ageMin := float64(nowMs-createdMs) / 60000.0

	tx5 := p.TxWindow("m5")
	// min denominator of 1 guards the divide on a dead-quiet window
	denom := tx5.Buys + tx5.Sells
	if denom < 1 {
		denom = 1
	}
	imbalance := float64(tx5.Buys) / float64(denom)

	v5m := p.VolumeWindow("m5")
	v24h := p.VolumeWindow("h24")
	baseline := 0.0
	if v24h > 0 {
		baseline = v24h / fiveMinWindows
	}
	spike := 0.0
	if baseline > 0 {
		spike = v5m / baseline
	}

	return FeatureSet{
		AgeMin:    ageMin,
		LiqUSD:    p.LiquidityUSD(),
		FdvUSD:    p.FDV,
		Pchg5m:    p.PriceChangeWindow("m5"),
		Pchg1h:    p.PriceChangeWindow("h1"),
		Buys5:     tx5.Buys,
		Sells5:    tx5.Sells,
		Imbalance: imbalance,
		Vol5m:     v5m,
		Vol24h:    v24h,
		VolSpike:  spike,
	}
}
