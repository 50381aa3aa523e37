package services

import (
	"fmt"

	"meme-scanner/shared/config"
)

// Qualification gates. A pair is actionable when exactly one regime applies:
// "new" is momentum-driven and only open below the new-age ceiling,
// "revival" is volume-spike-driven and only open above the revival-age
// floor. The age bands do not overlap, so both can never be true.
//
// Both gates apply the global posting minimum on top of the regime minimum;
// stricter wins. Every failing floor is collected, not just the first, so
// the scan trail shows the full picture.

// BaseFloorReasons applies the absolute liquidity/FDV floors every candidate
// must clear before scoring is worth the work.
func BaseFloorReasons(liqUSD, fdvUSD float64, cfg config.ScannerConfig) []string {
	var reasons []string
	if liqUSD < cfg.MinLiqUSD {
		reasons = append(reasons, fmt.Sprintf("liq<%.0f", cfg.MinLiqUSD))
	}
	if fdvUSD < cfg.MinFdvUSD {
		reasons = append(reasons, fmt.Sprintf("fdv<%.0f", cfg.MinFdvUSD))
	}
	return reasons
}

// IsHardTrash marks pairs so far below the floors that rechecking them will
// never pay off; the scanner retires these permanently.
func IsHardTrash(liqUSD, fdvUSD float64, cfg config.ScannerConfig) bool {
	return liqUSD < cfg.HardTrashLiqUSD && fdvUSD < cfg.HardTrashFdvUSD
}

// QualifiesNew checks the new-pair regime.
func QualifiesNew(f FeatureSet, score float64, cfg config.ScannerConfig) (bool, []string) {
	var reasons []string
	if f.AgeMin >= cfg.NewMaxAgeMin {
		reasons = append(reasons, fmt.Sprintf("age>=%.0fm", cfg.NewMaxAgeMin))
	}
	if f.LiqUSD < cfg.MinLiqUSD {
		reasons = append(reasons, fmt.Sprintf("liq<%.0f", cfg.MinLiqUSD))
	}
	if f.FdvUSD < cfg.MinFdvUSD {
		reasons = append(reasons, fmt.Sprintf("fdv<%.0f", cfg.MinFdvUSD))
	}
	if score < cfg.MinScoreNew || score < cfg.MinScoreToPost {
		reasons = append(reasons, fmt.Sprintf("score<%.0f", maxFloat(cfg.MinScoreNew, cfg.MinScoreToPost)))
	}
	if f.Pchg5m < cfg.TrigPchg5mNew {
		reasons = append(reasons, fmt.Sprintf("pchg5m<%.1f", cfg.TrigPchg5mNew))
	}
	if f.Imbalance < cfg.TrigImbalanceNew {
		reasons = append(reasons, fmt.Sprintf("imbalance<%.2f", cfg.TrigImbalanceNew))
	}
	if f.Tx5() < cfg.MinTxNew {
		reasons = append(reasons, fmt.Sprintf("tx<%d", cfg.MinTxNew))
	}
	return len(reasons) == 0, reasons
}

// QualifiesRevival checks the revival regime. The transaction floor is
// higher and the imbalance floor laxer than the new-pair case because
// revival signals are judged over more history.
func QualifiesRevival(f FeatureSet, score float64, cfg config.ScannerConfig) (bool, []string) {
	var reasons []string
	if f.AgeMin < cfg.RevivalMinAgeMin {
		reasons = append(reasons, fmt.Sprintf("age<%.0fm", cfg.RevivalMinAgeMin))
	}
	if f.LiqUSD < cfg.MinLiqUSD {
		reasons = append(reasons, fmt.Sprintf("liq<%.0f", cfg.MinLiqUSD))
	}
	if f.FdvUSD < cfg.MinFdvUSD {
		reasons = append(reasons, fmt.Sprintf("fdv<%.0f", cfg.MinFdvUSD))
	}
	if score < cfg.MinScoreRevival || score < cfg.MinScoreToPost {
		reasons = append(reasons, fmt.Sprintf("score<%.0f", maxFloat(cfg.MinScoreRevival, cfg.MinScoreToPost)))
	}
	if f.Pchg5m < cfg.TrigPchg5mRevival {
		reasons = append(reasons, fmt.Sprintf("pchg5m<%.1f", cfg.TrigPchg5mRevival))
	}
	if f.VolSpike < cfg.TrigVolSpikeX {
		reasons = append(reasons, fmt.Sprintf("spike<%.1fx", cfg.TrigVolSpikeX))
	}
	if f.Imbalance < cfg.TrigImbalanceRevival {
		reasons = append(reasons, fmt.Sprintf("imbalance<%.2f", cfg.TrigImbalanceRevival))
	}
	if f.Tx5() < cfg.MinTxRevival {
		reasons = append(reasons, fmt.Sprintf("tx<%d", cfg.MinTxRevival))
	}
	return len(reasons) == 0, reasons
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
