package services

import (
	"context"
	"math"
	"strings"
	"time"

	"meme-scanner/agent/database"
	"meme-scanner/agent/internal/models"
	"meme-scanner/shared/config"
	"meme-scanner/shared/logger"
)

// keywordHitFactor converts a keyword's 0-100 trend score into boost points.
const keywordHitFactor = 0.12

// TrendBoostFrom computes the additive score boost for a pair from the
// current keyword set: every term found in the token's symbol or name
// contributes score*factor, each hit and the total capped at maxBoost.
// Returns the boost and the terms that hit.
func TrendBoostFrom(keywords []models.HotKeyword, p *Pair, maxBoost float64) (float64, []string) {
	symbol := strings.ToLower(p.BaseToken.Symbol)
	name := strings.ToLower(p.BaseToken.Name)

	boost := 0.0
	var hits []string
	for _, k := range keywords {
		if k.Term == "" {
			continue
		}
		if strings.Contains(symbol, k.Term) || strings.Contains(name, k.Term) {
			boost += math.Min(maxBoost, k.Score*keywordHitFactor)
			hits = append(hits, k.Term)
		}
	}
	return math.Min(maxBoost, boost), hits
}

// RunTrendDecay is the keyword decay daemon: every tick it halves the score
// of idle terms and drops anything below the floor.
func RunTrendDecay(ctx context.Context, keywords *database.KeywordStore, cfg config.TrendsConfig, log *logger.Logger) {
	interval := time.Duration(cfg.TickSeconds) * time.Second
	halfLife := time.Duration(cfg.DecayHalfLifeMin) * time.Minute

	log.Info("Trend decay daemon started", "interval", interval, "halfLife", halfLife)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Trend decay daemon stopped")
			return
		case <-ticker.C:
			if err := keywords.Decay(halfLife, cfg.ScoreFloor); err != nil {
				log.Error("Trend decay failed", "error", err)
			}
		}
	}
}
