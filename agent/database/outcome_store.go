package database

import (
	"fmt"
	"time"

	"meme-scanner/agent/internal/models"

	"gorm.io/gorm"
)

// Horizon identifies one of the two forward measurement offsets.
type Horizon string

const (
	Horizon15m Horizon = "15m"
	Horizon1h  Horizon = "1h"
)

type horizonCols struct {
	due, price, gain, win string
}

func (h Horizon) columns() (horizonCols, error) {
	switch h {
	case Horizon15m:
		return horizonCols{"due_15m", "price_15m", "gain_15m", "win_15m"}, nil
	case Horizon1h:
		return horizonCols{"due_1h", "price_1h", "gain_1h", "win_1h"}, nil
	}
	return horizonCols{}, fmt.Errorf("unknown horizon %q", h)
}

// OutcomeStore resolves seeded outcome rows once their horizon passes.
type OutcomeStore struct {
	db *gorm.DB
}

func NewOutcomeStore(db *gorm.DB) *OutcomeStore {
	return &OutcomeStore{db: db}
}

// DueUnresolved returns outcome rows whose horizon has passed and whose
// price for that horizon is still unset, oldest due first.
func (s *OutcomeStore) DueUnresolved(h Horizon, limit int) ([]models.CallOutcome, error) {
	cols, err := h.columns()
	if err != nil {
		return nil, err
	}
	var rows []models.CallOutcome
	err = s.db.Where(cols.due+" <= ? AND "+cols.price+" IS NULL", time.Now().UTC()).
		Order(cols.due + " ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Resolve writes the observed price, gain and win flag for one horizon. The
// guard on the price column makes the write a no-op if the row was already
// resolved, so re-running the labeler never drifts a stored gain.
func (s *OutcomeStore) Resolve(id uint, h Horizon, price, gain float64, win bool) error {
	cols, err := h.columns()
	if err != nil {
		return err
	}
	return s.db.Model(&models.CallOutcome{}).
		Where("id = ? AND "+cols.price+" IS NULL", id).
		Updates(map[string]interface{}{
			cols.price: price,
			cols.gain:  gain,
			cols.win:   win,
		}).Error
}
