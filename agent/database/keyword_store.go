package database

import (
	"strings"
	"time"

	"meme-scanner/agent/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeywordStore owns the hot_keywords trend table.
type KeywordStore struct {
	db *gorm.DB
}

func NewKeywordStore(db *gorm.DB) *KeywordStore {
	return &KeywordStore{db: db}
}

// Top returns the highest-scored keywords for boost matching.
func (s *KeywordStore) Top(limit int) ([]models.HotKeyword, error) {
	var rows []models.HotKeyword
	err := s.db.Order("score DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// Add inserts or reinforces a term. Reinforcement adds half the new score on
// top of the existing one, capped at 100, and refreshes last_seen so the
// decay clock restarts.
func (s *KeywordStore) Add(term string, score float64) error {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	row := models.HotKeyword{
		Term:     term,
		Score:    score,
		LastSeen: time.Now().UTC(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "term"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":     gorm.Expr("LEAST(100, hot_keywords.score + EXCLUDED.score * 0.5)"),
			"last_seen": time.Now().UTC(),
		}),
	}).Create(&row).Error
}

// Decay halves the score of every keyword not reinforced within the
// half-life and removes terms that have fallen below the floor.
func (s *KeywordStore) Decay(halfLife time.Duration, floor float64) error {
	now := time.Now().UTC()
	cutoff := now.Add(-halfLife)
	// restamping last_seen restarts the clock, one halving per half-life
	err := s.db.Model(&models.HotKeyword{}).
		Where("last_seen < ?", cutoff).
		Updates(map[string]interface{}{
			"score":     gorm.Expr("GREATEST(0, score * 0.5)"),
			"last_seen": now,
		}).Error
	if err != nil {
		return err
	}
	return s.db.Where("score < ?", floor).Delete(&models.HotKeyword{}).Error
}
