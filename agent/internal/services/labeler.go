package services

import (
	"context"
	"time"

	"meme-scanner/agent/database"
	"meme-scanner/shared/config"
	"meme-scanner/shared/logger"
)

// Labeler resolves seeded call outcomes once their due time passes: fetch a
// fresh price, write gain and win flag, never touch the row again.
type Labeler struct {
	cfg      config.ScannerConfig
	poll     time.Duration
	batch    int
	log      *logger.Logger
	dex      *DexClient
	outcomes *database.OutcomeStore
}

func NewLabeler(cfg config.ScannerConfig, labelerCfg config.LabelerConfig, log *logger.Logger,
	dex *DexClient, outcomes *database.OutcomeStore) *Labeler {
	return &Labeler{
		cfg:      cfg,
		poll:     time.Duration(labelerCfg.PollSeconds) * time.Second,
		batch:    labelerCfg.BatchLimit,
		log:      log,
		dex:      dex,
		outcomes: outcomes,
	}
}

func (l *Labeler) Run(ctx context.Context) {
	l.log.Info("Labeler started", "poll", l.poll, "batch", l.batch)
	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info("Labeler stopped")
			return
		case <-ticker.C:
			if err := l.Resolve(ctx); err != nil {
				l.log.Error("Outcome resolution pass failed", "error", err)
			}
		}
	}
}

// Resolve processes due, unresolved rows for both horizons.
func (l *Labeler) Resolve(ctx context.Context) error {
	for _, horizon := range []database.Horizon{database.Horizon15m, database.Horizon1h} {
		rows, err := l.outcomes.DueUnresolved(horizon, l.batch)
		if err != nil {
			return err
		}
		for _, row := range rows {
			price, err := l.dex.PriceNow(ctx, l.cfg.Chain, row.PairAddress)
			if err != nil {
				// transient: the row stays due and is retried next pass
				l.log.Debug("Price fetch failed, skipping outcome", "pair", row.PairAddress, "error", err)
				continue
			}
			gain := ComputeGain(row.PriceAtCall, price)
			win := gain >= 0
			if err := l.outcomes.Resolve(row.ID, horizon, price, gain, win); err != nil {
				return err
			}
			l.log.Info("Outcome resolved", "horizon", string(horizon), "id", row.ID, "gain", gain)
		}
	}
	return nil
}

// ComputeGain is the fractional price change since the call. The epsilon
// denominator guards tokens whose call price rounded to zero.
func ComputeGain(priceAtCall, priceNow float64) float64 {
	denom := priceAtCall
	if denom < 1e-12 {
		denom = 1e-12
	}
	return (priceNow - priceAtCall) / denom
}
