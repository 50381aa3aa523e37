package models

import "time"

// Lifecycle stages for a trading pair. The codes are persisted, so the
// values are fixed: 0 and 4 are terminal-ish states the candidate selector
// must never return.
const (
	StageNeverRecheck = 0
	StageWatch        = 1
	StageQualified    = 2
	StagePosted       = 3
	StageDead         = 4
)

func StageLabel(stage int) string {
	switch stage {
	case StageNeverRecheck:
		return "never_recheck"
	case StageWatch:
		return "watch"
	case StageQualified:
		return "qualified"
	case StagePosted:
		return "posted"
	case StageDead:
		return "dead"
	default:
		return "?"
	}
}

// TokenLifecycle tracks one tradable pair through the pipeline. Rows are
// created by the collector and mutated only by the scanner; they are never
// deleted (stage 0/4 is logical retirement).
type TokenLifecycle struct {
	PairAddress string    `gorm:"primaryKey"`
	Symbol      string
	TokenMint   string
	Stage       int       `gorm:"index;default:1"`
	Notes       string
	FirstSeen   time.Time `gorm:"autoCreateTime;index"`
	LastChecked time.Time `gorm:"index"`
	Meta        string    `gorm:"type:jsonb"` // latest raw market snapshot
}

func (TokenLifecycle) TableName() string { return "token_lifecycle" }

// ScanEvent is the append-only audit trail of evaluation outcomes. Pruned on
// write past the retention horizon.
type ScanEvent struct {
	ID          uint      `gorm:"primaryKey"`
	SeenAt      time.Time `gorm:"autoCreateTime;index"`
	Stage       string    `gorm:"index"` // evaluation outcome label, e.g. base_reject / qualified / posted
	PairAddress string
	Chain       string
	Dex         string
	Symbol      string
	Score       *float64
	Reasons     string    `gorm:"type:jsonb"` // JSON array of rejection reason strings
}

func (ScanEvent) TableName() string { return "scan_events" }

// Call is a surfaced alert. At most one live row per pair address; a repost
// that clears the anti-spam window updates the existing row.
type Call struct {
	ID          uint      `gorm:"primaryKey"`
	TokenMint   string
	PairAddress string    `gorm:"uniqueIndex"`
	Score       float64
	LiqUSD      float64
	FdvUSD      float64
	Pchg5m      float64   `gorm:"column:pchg_5m"`
	Pchg1h      float64   `gorm:"column:pchg_1h"`
	Meta        string    `gorm:"type:jsonb"`
	CalledAt    time.Time `gorm:"autoCreateTime;index"`
}

func (Call) TableName() string { return "calls" }

// CallOutcome is the forward-looking record seeded with every call. The
// per-horizon price/gain/win columns stay NULL until the labeler resolves
// them; resolution is one-way.
type CallOutcome struct {
	ID          uint      `gorm:"primaryKey"`
	CallID      uint      `gorm:"index"`
	PairAddress string
	TokenMint   string
	CalledAt    time.Time
	PriceAtCall float64
	Due15m      time.Time `gorm:"column:due_15m;index"`
	Due1h       time.Time `gorm:"column:due_1h;index"`
	Price15m    *float64  `gorm:"column:price_15m"`
	Gain15m     *float64  `gorm:"column:gain_15m"`
	Win15m      *bool     `gorm:"column:win_15m"`
	Price1h     *float64  `gorm:"column:price_1h"`
	Gain1h      *float64  `gorm:"column:gain_1h"`
	Win1h       *bool     `gorm:"column:win_1h"`
}

func (CallOutcome) TableName() string { return "call_outcomes" }

// HotKeyword is a decaying trend signal matched against token names.
type HotKeyword struct {
	Term     string    `gorm:"primaryKey"`
	Score    float64   `gorm:"not null"`
	LastSeen time.Time `gorm:"not null"`
}

func (HotKeyword) TableName() string { return "hot_keywords" }
