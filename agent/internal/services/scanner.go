package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"meme-scanner/agent/database"
	"meme-scanner/agent/internal/models"
	"meme-scanner/shared/config"
	"meme-scanner/shared/logger"
)

// ScoredCard is one qualified candidate carried from the gate to the alert
// sink and the call store.
type ScoredCard struct {
	Pair      *Pair
	Features  FeatureSet
	Score     float64
	Breakdown ScoreBreakdown
	TrendHits []string
}

// AlertSink delivers a ranked batch of cards to the alert channel.
type AlertSink interface {
	Post(cards []ScoredCard) error
}

// Scanner is the tick orchestrator: once per interval it pulls the next
// candidate batch from the lifecycle table, re-fetches market data, scores
// and gates each pair, applies anti-spam, and turns the survivors into a
// ranked alert batch with seeded outcomes.
type Scanner struct {
	cfg       config.ScannerConfig
	trendsCfg config.TrendsConfig
	log       *logger.Logger
	dex       *DexClient
	lifecycle *database.LifecycleStore
	scans     *database.ScanStore
	calls     *database.CallStore
	keywords  *database.KeywordStore
	notifier  AlertSink
}

func NewScanner(cfg config.ScannerConfig, trendsCfg config.TrendsConfig, log *logger.Logger, dex *DexClient,
	lifecycle *database.LifecycleStore, scans *database.ScanStore, calls *database.CallStore,
	keywords *database.KeywordStore, notifier AlertSink) *Scanner {
	return &Scanner{
		cfg:       cfg,
		trendsCfg: trendsCfg,
		log:       log,
		dex:       dex,
		lifecycle: lifecycle,
		scans:     scans,
		calls:     calls,
		keywords:  keywords,
		notifier:  notifier,
	}
}

// Run drives the tick loop until the context is cancelled. A failed tick is
// logged and retried on the next interval; state is re-derived from storage
// each time, so nothing carries over in memory.
func (s *Scanner) Run(ctx context.Context) {
	s.log.Info("Scanner started", "interval", s.cfg.TickInterval(), "batchLimit", s.cfg.BatchLimit)
	ticker := time.NewTicker(s.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Scanner stopped")
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.log.Error("Tick aborted", "error", err)
			}
		}
	}
}

// Tick runs one full evaluation pass. Store errors abort the tick (the
// caller reconnects before the next one); market-data errors only skip the
// affected pair, which resurfaces via candidate selection later.
func (s *Scanner) Tick(ctx context.Context) error {
	counts, err := s.lifecycle.StageCounts()
	if err != nil {
		return fmt.Errorf("lifecycle stats: %w", err)
	}
	s.log.Info("Tick starting", "lifecycleCounts", formatStageCounts(counts))

	addrs, err := s.lifecycle.NextCandidates(s.cfg.BatchLimit)
	if err != nil {
		return fmt.Errorf("candidate selection: %w", err)
	}
	if len(addrs) == 0 {
		s.log.Info("No candidates this tick. Collector might not be writing yet.")
		return nil
	}
	s.log.Info("Candidates selected", "count", len(addrs))

	details := make([]*Pair, 0, len(addrs))
	for _, addr := range addrs {
		pair, err := s.dex.PairDetails(ctx, s.cfg.Chain, addr)
		if err != nil {
			// transient: the pair stays due and is retried next tick
			s.log.Debug("Pair detail fetch failed, skipping", "pair", addr, "error", err)
			continue
		}
		details = append(details, pair)
	}
	s.log.Info("Fetched pair details", "count", len(details))

	keywords, err := s.keywords.Top(s.trendsCfg.BoostQueryLimit)
	if err != nil {
		return fmt.Errorf("keyword lookup: %w", err)
	}

	now := time.Now().UTC()
	var chosen []ScoredCard
	rejectTally := map[string]int{}

	for _, p := range details {
		card, rejects, err := s.evaluate(p, keywords, now)
		if err != nil {
			return err
		}
		if len(rejects) > 0 {
			tallyRejects(rejectTally, rejects)
			continue
		}
		if card != nil {
			chosen = append(chosen, *card)
		}
	}

	if len(rejectTally) > 0 {
		s.log.Info("Tick reject summary", "rejects", rejectTally)
	}

	sort.Slice(chosen, func(i, j int) bool { return chosen[i].Score > chosen[j].Score })
	s.log.Info("Qualified to post", "count", len(chosen))

	if len(chosen) == 0 {
		return nil
	}

	batch := chosen
	if len(batch) > s.cfg.MaxAlertsTick {
		batch = batch[:s.cfg.MaxAlertsTick]
	}
	return s.dispatch(batch)
}

// dispatch delivers the batch and only then records calls and posted events.
// A delivery failure aborts before anything is recorded: every card stays
// QUALIFIED, re-qualifies next tick, and anti-spam never sees the lost post.
func (s *Scanner) dispatch(batch []ScoredCard) error {
	if err := s.notifier.Post(batch); err != nil {
		return fmt.Errorf("alert delivery failed, batch stays eligible: %w", err)
	}

	for _, card := range batch {
		if err := s.recordCall(card); err != nil {
			return fmt.Errorf("recording call for %s: %w", card.Pair.PairAddress, err)
		}
	}
	s.log.Info("Logged calls and seeded outcomes", "count", len(batch))

	for _, card := range batch {
		score := card.Score
		if err := s.logScan("posted", card.Pair, nil, &score); err != nil {
			return err
		}
	}
	return nil
}

// evaluate runs the full decision trail for one pair: base floors,
// hard-trash short circuit, scoring, regime gates, anti-spam. It returns
// either a card to post, the reject tally keys, or a store error.
func (s *Scanner) evaluate(p *Pair, keywords []models.HotKeyword, now time.Time) (*ScoredCard, []string, error) {
	addr := p.PairAddress

	baseReasons := BaseFloorReasons(p.LiquidityUSD(), p.FDV, s.cfg)
	if len(baseReasons) > 0 {
		s.log.Info("Rejected on base floors", "symbol", p.Symbol(), "reasons", strings.Join(baseReasons, ", "))
		if err := s.logScan("base_reject", p, baseReasons, nil); err != nil {
			return nil, nil, err
		}
		if IsHardTrash(p.LiquidityUSD(), p.FDV, s.cfg) {
			if err := s.lifecycle.SetStage(addr, models.StageNeverRecheck, "hard-trash", ""); err != nil {
				return nil, nil, err
			}
		} else {
			if err := s.lifecycle.SetStage(addr, models.StageWatch, "", ""); err != nil {
				return nil, nil, err
			}
		}
		return nil, baseReasons, nil
	}

	feats := ExtractFeatures(p, now)
	boost, hits := TrendBoostFrom(keywords, p, s.cfg.TrendMaxBoost)
	score, breakdown := ScorePair(feats, boost)

	isNew := feats.AgeMin < s.cfg.NewMaxAgeMin
	isRevival := feats.AgeMin >= s.cfg.RevivalMinAgeMin
	okNew, newReasons := QualifiesNew(feats, score, s.cfg)
	okRevival, revivalReasons := QualifiesRevival(feats, score, s.cfg)
	okNew = okNew && isNew
	okRevival = okRevival && isRevival

	if okNew && okRevival {
		// cannot happen with disjoint age bands; if config ever breaks that,
		// prefer the new-pair regime
		s.log.Warn("Pair qualified under both regimes, preferring new", "pair", addr, "ageMin", feats.AgeMin)
		okRevival = false
	}

	s.log.Info("Gate decision",
		"symbol", p.Symbol(), "score", score,
		"new", isNew, "revival", isRevival,
		"okNew", okNew, "okRevival", okRevival,
		"trendBoost", boost)

	if !okNew && !okRevival {
		if err := s.lifecycle.SetStage(addr, models.StageWatch, "rule-fail", ""); err != nil {
			return nil, nil, err
		}
		reasons := append([]string{"rules_fail"}, gateFailReasons(isNew, newReasons, isRevival, revivalReasons)...)
		if err := s.logScan("rule_reject", p, reasons, &score); err != nil {
			return nil, nil, err
		}
		return nil, []string{"rules_fail"}, nil
	}

	last, err := s.calls.LastCall(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("alert history lookup: %w", err)
	}
	if last != nil && ShouldSuppress(last.Score, last.CalledAt, score, now, s.cfg.AntiSpamWindow(), s.cfg.ScoreJumpToRepost) {
		if err := s.logScan("anti_spam", p, []string{"anti_spam"}, &score); err != nil {
			return nil, nil, err
		}
		// stays QUALIFIED and eligible; no regression to WATCH
		if err := s.lifecycle.SetStage(addr, models.StageQualified, "qualified-anti-spam", ""); err != nil {
			return nil, nil, err
		}
		return nil, []string{"anti_spam"}, nil
	}

	if err := s.logScan("qualified", p, nil, &score); err != nil {
		return nil, nil, err
	}
	if err := s.lifecycle.SetStage(addr, models.StageQualified, "qualified", ""); err != nil {
		return nil, nil, err
	}

	return &ScoredCard{
		Pair:      p,
		Features:  feats,
		Score:     score,
		Breakdown: breakdown,
		TrendHits: hits,
	}, nil, nil
}

// tallyRejects counts each reason separately so a pair failing both base
// floors shows up in both buckets of the tick summary.
func tallyRejects(tally map[string]int, reasons []string) {
	for _, r := range reasons {
		tally[r]++
	}
}

// gateFailReasons picks the reason list of whichever regime's age band the
// pair sits in; outside both bands the age bounds themselves are the reason.
func gateFailReasons(isNew bool, newReasons []string, isRevival bool, revivalReasons []string) []string {
	if isNew {
		return newReasons
	}
	if isRevival {
		return revivalReasons
	}
	return []string{"age_between_regimes"}
}

func (s *Scanner) logScan(stageLabel string, p *Pair, reasons []string, score *float64) error {
	return s.scans.Log(stageLabel, p.PairAddress, p.ChainID, p.DexID, p.BaseToken.Symbol, score, reasons)
}

func (s *Scanner) recordCall(card ScoredCard) error {
	p := card.Pair
	metaJSON, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.calls.RecordCall(database.CallInput{
		TokenMint:   p.BaseToken.Address,
		PairAddress: p.PairAddress,
		Score:       card.Score,
		LiqUSD:      p.LiquidityUSD(),
		FdvUSD:      p.FDV,
		Pchg5m:      p.PriceChangeWindow("m5"),
		Pchg1h:      p.PriceChangeWindow("h1"),
		PriceAtCall: p.PriceUSD(),
		MetaJSON:    string(metaJSON),
	})
}

func formatStageCounts(counts map[int]int64) string {
	parts := make([]string, 0, len(counts))
	for stage := models.StageNeverRecheck; stage <= models.StageDead; stage++ {
		if c, ok := counts[stage]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", models.StageLabel(stage), c))
		}
	}
	return strings.Join(parts, " ")
}
