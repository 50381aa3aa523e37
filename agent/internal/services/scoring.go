package services

import "math"

// Scorer shape constants. These define what the model considers a healthy
// pair and are not operator-tunable; the operational floors live in config.
const (
	liqLogFloor   = 3.0 // 10^3 = $1k
	liqLogCeil    = 6.0 // 10^6 = $1M
	momPchg5mGain = 0.08
	momPchg1hGain = 0.04
	momWeight5m   = 0.65
	momWeight1h   = 0.35
	imbNeutral    = 0.5
	imbSaturation = 0.85
	fdvFloor      = 30_000.0
	fdvCeil       = 5_000_000.0
	agePeakMin    = 60.0   // peak-interest center, minutes
	agePeakWidth  = 60.0   // gaussian sigma, minutes
	ageFreshHoriz = 1440.0 // freshness decays to zero over a day
	agePeakWeight = 0.6
	ageFreshW     = 0.4

	weightMom = 0.27
	weightImb = 0.23
	weightLiq = 0.20
	weightAge = 0.18
	weightFdv = 0.12
)

// ScoreBreakdown exposes every raw feature and sub-score so a posted call
// can always explain itself.
type ScoreBreakdown struct {
	AgeMin    float64 `json:"ageMin"`
	LiqUSD    float64 `json:"liq"`
	FdvUSD    float64 `json:"fdv"`
	Pchg5m    float64 `json:"pc5"`
	Pchg1h    float64 `json:"pc1h"`
	Buys5     int     `json:"buys5"`
	Sells5    int     `json:"sells5"`
	Imbalance float64 `json:"imb"`
	Vol5m     float64 `json:"v5m"`
	Vol24h    float64 `json:"v24h"`
	Spike     float64 `json:"spike"`

	HLiq float64 `json:"hLiq"`
	HMom float64 `json:"hMom"`
	HImb float64 `json:"hImb"`
	HAge float64 `json:"hAge"`
	HFdv float64 `json:"hFdv"`

	TrendBoost float64 `json:"trendBoost"`
}

func clamp01(x float64) float64 {
	return math.Max(0.0, math.Min(1.0, x))
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ScorePair maps a feature tuple plus an additive trend boost to a 0-100
// score. Each sub-score is normalized to [0,1]; the weights sum to 1.0 so
// the weighted base lands in [0,100] before the boost, and the total is
// capped at 100.
func ScorePair(f FeatureSet, boost float64) (float64, ScoreBreakdown) {
	hLiq := clamp01((math.Log10(math.Max(1, f.LiqUSD)) - liqLogFloor) / (liqLogCeil - liqLogFloor))
	hMom := clamp01(momWeight5m*sigmoid(momPchg5mGain*f.Pchg5m) + momWeight1h*sigmoid(momPchg1hGain*f.Pchg1h))
	hImb := clamp01((f.Imbalance - imbNeutral) / (imbSaturation - imbNeutral))
	hFdv := clamp01((f.FdvUSD - fdvFloor) / (fdvCeil - fdvFloor))

	agePeak := math.Exp(-math.Pow(f.AgeMin-agePeakMin, 2) / (2 * agePeakWidth * agePeakWidth))
	ageFresh := clamp01(1 - f.AgeMin/ageFreshHoriz)
	hAge := agePeakWeight*agePeak + ageFreshW*ageFresh

	base := 100 * (weightMom*hMom + weightImb*hImb + weightLiq*hLiq + weightAge*hAge + weightFdv*hFdv)
	base = clamp01(base/100) * 100
	score := round1(math.Min(100.0, base+boost))

	breakdown := ScoreBreakdown{
		AgeMin:    round1(f.AgeMin),
		LiqUSD:    f.LiqUSD,
		FdvUSD:    f.FdvUSD,
		Pchg5m:    f.Pchg5m,
		Pchg1h:    f.Pchg1h,
		Buys5:     f.Buys5,
		Sells5:    f.Sells5,
		Imbalance: math.Round(f.Imbalance*100) / 100,
		Vol5m:     f.Vol5m,
		Vol24h:    f.Vol24h,
		Spike:     math.Round(f.VolSpike*100) / 100,

		HLiq: hLiq,
		HMom: hMom,
		HImb: hImb,
		HAge: hAge,
		HFdv: hFdv,

		TrendBoost: boost,
	}
	return score, breakdown
}
