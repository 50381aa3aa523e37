package database

import (
	"time"

	"meme-scanner/agent/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LifecycleStore owns the token_lifecycle table: the ingestion upsert, stage
// transitions, and the per-tick candidate selection.
type LifecycleStore struct {
	db *gorm.DB
}

func NewLifecycleStore(db *gorm.DB) *LifecycleStore {
	return &LifecycleStore{db: db}
}

// UpsertFromSnapshot is the ingestion contract: insert at WATCH, or on
// conflict keep the existing stage, fill symbol/mint only if previously
// empty, and always refresh meta and last_checked.
func (s *LifecycleStore) UpsertFromSnapshot(pairAddress, symbol, tokenMint, metaJSON string) error {
	row := models.TokenLifecycle{
		PairAddress: pairAddress,
		Symbol:      symbol,
		TokenMint:   tokenMint,
		Stage:       models.StageWatch,
		LastChecked: time.Now().UTC(),
		Meta:        metaJSON,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "pair_address"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"symbol":       gorm.Expr("COALESCE(NULLIF(EXCLUDED.symbol, ''), token_lifecycle.symbol)"),
			"token_mint":   gorm.Expr("COALESCE(NULLIF(EXCLUDED.token_mint, ''), token_lifecycle.token_mint)"),
			"stage":        gorm.Expr("COALESCE(token_lifecycle.stage, 1)"),
			"last_checked": time.Now().UTC(),
			"meta":         metaJSON,
		}),
	}).Create(&row).Error
}

// NextCandidates returns up to limit pair addresses due for re-examination:
// WATCH and QUALIFIED rows, stalest first. When that comes back empty (cold
// table, collector not running yet) it falls back to the most recently seen
// pairs in any state that is not terminal or dead, so the loop never stalls.
func (s *LifecycleStore) NextCandidates(limit int) ([]string, error) {
	var addrs []string
	err := s.db.Model(&models.TokenLifecycle{}).
		Where("stage IN ?", []int{models.StageWatch, models.StageQualified}).
		Order("last_checked ASC").
		Limit(limit).
		Pluck("pair_address", &addrs).Error
	if err != nil {
		return nil, err
	}
	if len(addrs) > 0 {
		return addrs, nil
	}

	err = s.db.Model(&models.TokenLifecycle{}).
		Where("COALESCE(stage, 1) NOT IN ?", []int{models.StageNeverRecheck, models.StageDead}).
		Order("first_seen DESC").
		Limit(limit).
		Pluck("pair_address", &addrs).Error
	if err != nil {
		return nil, err
	}
	return addrs, nil
}

// SetStage moves a pair to the given stage and stamps last_checked. Empty
// notes/meta leave the stored values untouched.
func (s *LifecycleStore) SetStage(pairAddress string, stage int, notes, metaJSON string) error {
	updates := map[string]interface{}{
		"stage":        stage,
		"last_checked": time.Now().UTC(),
	}
	if notes != "" {
		updates["notes"] = notes
	}
	if metaJSON != "" {
		updates["meta"] = metaJSON
	}
	return s.db.Model(&models.TokenLifecycle{}).
		Where("pair_address = ?", pairAddress).
		Updates(updates).Error
}

// StageCounts returns per-stage row counts for diagnostics.
func (s *LifecycleStore) StageCounts() (map[int]int64, error) {
	type stageCount struct {
		Stage int
		C     int64
	}
	var rows []stageCount
	err := s.db.Model(&models.TokenLifecycle{}).
		Select("stage, count(*) AS c").
		Group("stage").
		Order("stage").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int]int64, len(rows))
	for _, r := range rows {
		out[r.Stage] = r.C
	}
	return out, nil
}
