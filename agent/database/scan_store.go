package database

import (
	"encoding/json"
	"time"

	"meme-scanner/agent/internal/models"

	"gorm.io/gorm"
)

// scanRetention is the horizon past which scan events are pruned. Pruning
// happens on every write, so the table stays bounded without a janitor.
const scanRetention = 7 * 24 * time.Hour

// ScanStore appends to the scan_events audit trail.
type ScanStore struct {
	db *gorm.DB
}

func NewScanStore(db *gorm.DB) *ScanStore {
	return &ScanStore{db: db}
}

// Log records one evaluation outcome and prunes events past retention.
func (s *ScanStore) Log(stageLabel, pairAddress, chain, dex, symbol string, score *float64, reasons []string) error {
	if reasons == nil {
		reasons = []string{}
	}
	reasonsJSON, err := json.Marshal(reasons)
	if err != nil {
		return err
	}
	event := models.ScanEvent{
		Stage:       stageLabel,
		PairAddress: pairAddress,
		Chain:       chain,
		Dex:         dex,
		Symbol:      symbol,
		Score:       score,
		Reasons:     string(reasonsJSON),
	}
	if err := s.db.Create(&event).Error; err != nil {
		return err
	}
	cutoff := time.Now().UTC().Add(-scanRetention)
	return s.db.Where("seen_at < ?", cutoff).Delete(&models.ScanEvent{}).Error
}

// Recent returns the latest events, newest first.
func (s *ScanStore) Recent(limit int) ([]models.ScanEvent, error) {
	var events []models.ScanEvent
	err := s.db.Order("seen_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

type ReasonCount struct {
	Reason string `json:"reason"`
	N      int64  `json:"n"`
}

// TopRejectReasons unnests the per-event reason arrays over the given window
// and returns the most frequent ones.
func (s *ScanStore) TopRejectReasons(window time.Duration, top int) ([]ReasonCount, error) {
	cutoff := time.Now().UTC().Add(-window)
	var rows []ReasonCount
	err := s.db.Raw(`
        WITH x AS (
          SELECT jsonb_array_elements_text(COALESCE(reasons, '[]'::jsonb)) AS r
          FROM scan_events
          WHERE stage IN ('base_reject', 'rule_reject', 'anti_spam') AND seen_at > ?
        )
        SELECT r AS reason, COUNT(*) AS n FROM x GROUP BY r ORDER BY n DESC LIMIT ?
    `, cutoff, top).Scan(&rows).Error
	return rows, err
}
