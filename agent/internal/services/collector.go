package services

import (
	"context"
	"encoding/json"
	"time"

	"meme-scanner/agent/database"
	"meme-scanner/shared/config"
	"meme-scanner/shared/logger"

	"github.com/gagliardetto/solana-go"
)

// Collector discovers fresh pairs on the configured chain and seeds the
// lifecycle table at WATCH. It never advances stages past WATCH; that is the
// scanner's job.
type Collector struct {
	cfg   config.ScannerConfig
	poll  time.Duration
	log   *logger.Logger
	dex   *DexClient
	store *database.LifecycleStore
}

func NewCollector(cfg config.ScannerConfig, collectorCfg config.CollectorConfig, log *logger.Logger,
	dex *DexClient, store *database.LifecycleStore) *Collector {
	return &Collector{
		cfg:   cfg,
		poll:  time.Duration(collectorCfg.PollSeconds) * time.Second,
		log:   log,
		dex:   dex,
		store: store,
	}
}

func (c *Collector) Run(ctx context.Context) {
	c.log.Info("Collector started", "chain", c.cfg.Chain, "poll", c.poll)
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("Collector stopped")
			return
		case <-ticker.C:
			if err := c.collect(ctx); err != nil {
				c.log.Error("Collector pass failed", "error", err)
			}
		}
	}
}

func (c *Collector) collect(ctx context.Context) error {
	pairs, err := c.dex.SearchPairs(ctx, c.cfg.Chain)
	if err != nil {
		// transient: the next poll retries
		c.log.Warn("Pair search failed", "error", err)
		return nil
	}
	c.log.Info("Fetched pairs from search", "count", len(pairs))

	upserted := 0
	for i := range pairs {
		p := &pairs[i]
		if p.ChainID != c.cfg.Chain {
			continue
		}
		if p.PairAddress == "" {
			continue
		}
		// validate once at the boundary, not at every access site
		if _, err := solana.PublicKeyFromBase58(p.PairAddress); err != nil {
			c.log.Debug("Skipping pair with malformed address", "pair", p.PairAddress)
			continue
		}
		mint := p.BaseToken.Address
		if mint != "" {
			if _, err := solana.PublicKeyFromBase58(mint); err != nil {
				c.log.Debug("Clearing malformed mint on pair", "pair", p.PairAddress, "mint", mint)
				mint = ""
			}
		}

		metaJSON, err := json.Marshal(p)
		if err != nil {
			continue
		}
		if err := c.store.UpsertFromSnapshot(p.PairAddress, p.BaseToken.Symbol, mint, string(metaJSON)); err != nil {
			return err
		}
		upserted++
	}
	c.log.Info("Lifecycle upserts complete", "count", upserted)
	return nil
}
