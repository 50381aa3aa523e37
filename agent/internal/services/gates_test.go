package services

import (
	"testing"

	"meme-scanner/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prodScannerConfig mirrors the production defaults in shared/config; tests
// pin them locally so a config change shows up as a deliberate diff here.
func prodScannerConfig() config.ScannerConfig {
	return config.ScannerConfig{
		Chain:                "solana",
		BatchLimit:           30,
		MaxAlertsTick:        5,
		MinLiqUSD:            2000,
		MinFdvUSD:            30000,
		HardTrashLiqUSD:      200,
		HardTrashFdvUSD:      5000,
		MinScoreNew:          60,
		MinScoreRevival:      65,
		MinScoreToPost:       60,
		NewMaxAgeMin:         240,
		RevivalMinAgeMin:     1440,
		TrigPchg5mNew:        3.0,
		TrigImbalanceNew:     0.62,
		MinTxNew:             3,
		TrigPchg5mRevival:    2.0,
		TrigVolSpikeX:        2.5,
		TrigImbalanceRevival: 0.55,
		MinTxRevival:         5,
		AntiSpamMinutes:      30,
		ScoreJumpToRepost:    5.0,
		TrendMaxBoost:        10.0,
		UpsideAt100x:         3.0,
	}
}

// strongFeatures passes every non-age floor in both regimes.
func strongFeatures(ageMin float64) FeatureSet {
	return FeatureSet{
		AgeMin:    ageMin,
		LiqUSD:    50000,
		FdvUSD:    500000,
		Pchg5m:    8,
		Pchg1h:    15,
		Buys5:     20,
		Sells5:    5,
		Imbalance: 0.8,
		VolSpike:  5,
	}
}

func TestRegimesAreDisjointAcrossAges(t *testing.T) {
	cfg := prodScannerConfig()
	ages := []float64{0, 1, 30, 239, 240, 241, 720, 1439, 1440, 1441, 10000, 1e6}

	for _, age := range ages {
		f := strongFeatures(age)
		okNew, _ := QualifiesNew(f, 90, cfg)
		okRevival, _ := QualifiesRevival(f, 90, cfg)
		assert.Falsef(t, okNew && okRevival, "both regimes passed at age %.0f", age)
	}
}

func TestQualifiesNewTypicalFreshPair(t *testing.T) {
	cfg := prodScannerConfig()
	f := FeatureSet{
		AgeMin:    30,
		LiqUSD:    5000,
		FdvUSD:    40000,
		Pchg5m:    5,
		Pchg1h:    10,
		Buys5:     7,
		Sells5:    3,
		Imbalance: 0.70,
	}

	okNew, newReasons := QualifiesNew(f, 62, cfg)
	assert.True(t, okNew)
	assert.Empty(t, newReasons)

	okRevival, revivalReasons := QualifiesRevival(f, 62, cfg)
	assert.False(t, okRevival)
	assert.Contains(t, revivalReasons, "age<1440m")
}

func TestQualifiesNewCollectsAllFailingFloors(t *testing.T) {
	cfg := prodScannerConfig()
	f := FeatureSet{
		AgeMin:    500, // outside new band
		LiqUSD:    100,
		FdvUSD:    1000,
		Pchg5m:    0,
		Imbalance: 0.1,
	}

	ok, reasons := QualifiesNew(f, 10, cfg)
	require.False(t, ok)
	assert.Contains(t, reasons, "age>=240m")
	assert.Contains(t, reasons, "liq<2000")
	assert.Contains(t, reasons, "fdv<30000")
	assert.Contains(t, reasons, "score<60")
	assert.Contains(t, reasons, "pchg5m<3.0")
	assert.Contains(t, reasons, "imbalance<0.62")
	assert.Contains(t, reasons, "tx<3")
}

func TestQualifiesRevivalNeedsSpikeAndTxFloor(t *testing.T) {
	cfg := prodScannerConfig()
	f := strongFeatures(2000)

	ok, reasons := QualifiesRevival(f, 70, cfg)
	require.True(t, ok, "reasons: %v", reasons)

	f.VolSpike = 1.0
	ok, reasons = QualifiesRevival(f, 70, cfg)
	assert.False(t, ok)
	assert.Contains(t, reasons, "spike<2.5x")

	f = strongFeatures(2000)
	f.Buys5, f.Sells5 = 2, 2
	ok, reasons = QualifiesRevival(f, 70, cfg)
	assert.False(t, ok)
	assert.Contains(t, reasons, "tx<5")
}

func TestStricterScoreMinimumWins(t *testing.T) {
	cfg := prodScannerConfig()
	cfg.MinScoreToPost = 70 // global floor above the regime floor

	f := strongFeatures(30)
	ok, reasons := QualifiesNew(f, 65, cfg)
	assert.False(t, ok)
	assert.Contains(t, reasons, "score<70")

	ok, _ = QualifiesNew(f, 75, cfg)
	assert.True(t, ok)
}

func TestBaseFloorsAndHardTrash(t *testing.T) {
	cfg := prodScannerConfig()

	reasons := BaseFloorReasons(500, 1000, cfg)
	assert.Equal(t, []string{"liq<2000", "fdv<30000"}, reasons)
	// liq $500 is above the hard-trash line even though it fails the floor
	assert.False(t, IsHardTrash(500, 1000, cfg))

	assert.True(t, IsHardTrash(150, 4000, cfg))
	assert.False(t, IsHardTrash(150, 6000, cfg))

	assert.Empty(t, BaseFloorReasons(5000, 40000, cfg))
}
