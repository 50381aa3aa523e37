package database

import (
	"errors"
	"time"

	"meme-scanner/agent/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CallStore owns surfaced alerts and their forward-looking outcome rows.
type CallStore struct {
	db *gorm.DB
}

func NewCallStore(db *gorm.DB) *CallStore {
	return &CallStore{db: db}
}

// LastCall returns the most recent alert for a pair, or nil if the pair has
// never been called.
func (s *CallStore) LastCall(pairAddress string) (*models.Call, error) {
	var call models.Call
	err := s.db.Where("pair_address = ?", pairAddress).
		Order("called_at DESC").
		First(&call).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// CallInput carries everything needed to persist one surfaced alert.
type CallInput struct {
	TokenMint   string
	PairAddress string
	Score       float64
	LiqUSD      float64
	FdvUSD      float64
	Pchg5m      float64
	Pchg1h      float64
	PriceAtCall float64
	MetaJSON    string
}

// RecordCall atomically upserts the call row, seeds a fresh outcome row with
// the +15m/+1h due timestamps, and promotes the pair to POSTED. The upsert
// keeps called_at from the original insert so the anti-spam window is
// measured from the first surfacing, not the repost.
func (s *CallStore) RecordCall(in CallInput) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		row := models.Call{
			TokenMint:   in.TokenMint,
			PairAddress: in.PairAddress,
			Score:       in.Score,
			LiqUSD:      in.LiqUSD,
			FdvUSD:      in.FdvUSD,
			Pchg5m:      in.Pchg5m,
			Pchg1h:      in.Pchg1h,
			Meta:        in.MetaJSON,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "pair_address"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "liq_usd", "fdv_usd", "pchg_5m", "pchg_1h", "meta",
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		// Re-read to get the stored id and original called_at on the
		// conflict-update path.
		var stored models.Call
		if err := tx.Where("pair_address = ?", in.PairAddress).First(&stored).Error; err != nil {
			return err
		}

		outcome := models.CallOutcome{
			CallID:      stored.ID,
			PairAddress: in.PairAddress,
			TokenMint:   in.TokenMint,
			CalledAt:    stored.CalledAt,
			PriceAtCall: in.PriceAtCall,
			Due15m:      stored.CalledAt.Add(15 * time.Minute),
			Due1h:       stored.CalledAt.Add(1 * time.Hour),
		}
		if err := tx.Create(&outcome).Error; err != nil {
			return err
		}

		return tx.Model(&models.TokenLifecycle{}).
			Where("pair_address = ?", in.PairAddress).
			Updates(map[string]interface{}{
				"stage":        models.StagePosted,
				"last_checked": time.Now().UTC(),
			}).Error
	})
}

// CallWithOutcome is the read model for the status API: a call joined with
// its resolved gains (percent, nullable until the labeler runs).
type CallWithOutcome struct {
	CalledAt time.Time `json:"called_at"`
	Symbol   string    `json:"symbol"`
	Score    float64   `json:"score"`
	LiqUSD   float64   `json:"liq_usd"`
	FdvUSD   float64   `json:"fdv_usd"`
	PGain15m *float64  `json:"p_gain_15m"`
	PGain1h  *float64  `json:"p_gain_1h"`
}

// RecentWithOutcomes returns the latest calls with their outcome gains.
func (s *CallStore) RecentWithOutcomes(limit int) ([]CallWithOutcome, error) {
	var rows []CallWithOutcome
	err := s.db.Raw(`
        SELECT c.called_at, (c.meta->'baseToken'->>'symbol') AS symbol,
               c.score, c.liq_usd, c.fdv_usd,
               ROUND((100.0 * co.gain_15m)::numeric, 2) AS p_gain_15m,
               ROUND((100.0 * co.gain_1h)::numeric, 2)  AS p_gain_1h
        FROM calls c
        LEFT JOIN LATERAL (
          SELECT gain_15m, gain_1h FROM call_outcomes
          WHERE call_id = c.id
          ORDER BY called_at DESC LIMIT 1
        ) co ON true
        ORDER BY c.called_at DESC
        LIMIT ?
    `, limit).Scan(&rows).Error
	return rows, err
}
