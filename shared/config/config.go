package config

import (
	"log"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// ScannerConfig holds every threshold the qualification pipeline uses.
// Defaults match the production tuning; a config.yaml or SCANNER_* env
// variables override them (useful for smoke runs with lax floors).
type ScannerConfig struct {
	Chain         string `mapstructure:"chain"`
	TickSeconds   int    `mapstructure:"tick_seconds"`
	BatchLimit    int    `mapstructure:"batch_limit"`
	MaxAlertsTick int    `mapstructure:"max_alerts_per_tick"`

	MinLiqUSD       float64 `mapstructure:"min_liq_usd"`
	MinFdvUSD       float64 `mapstructure:"min_fdv_usd"`
	HardTrashLiqUSD float64 `mapstructure:"hard_trash_liq_usd"`
	HardTrashFdvUSD float64 `mapstructure:"hard_trash_fdv_usd"`

	MinScoreNew      float64 `mapstructure:"min_score_new"`
	MinScoreRevival  float64 `mapstructure:"min_score_revival"`
	MinScoreToPost   float64 `mapstructure:"min_score_to_post"`
	NewMaxAgeMin     float64 `mapstructure:"new_max_age_min"`
	RevivalMinAgeMin float64 `mapstructure:"revival_min_age_min"`

	TrigPchg5mNew        float64 `mapstructure:"trig_pchg_5m_new"`
	TrigImbalanceNew     float64 `mapstructure:"trig_imbalance_new"`
	MinTxNew             int     `mapstructure:"min_tx_new"`
	TrigPchg5mRevival    float64 `mapstructure:"trig_pchg_5m_revival"`
	TrigVolSpikeX        float64 `mapstructure:"trig_vol_spike_x"`
	TrigImbalanceRevival float64 `mapstructure:"trig_imbalance_revival"`
	MinTxRevival         int     `mapstructure:"min_tx_revival"`

	AntiSpamMinutes   int     `mapstructure:"anti_spam_minutes"`
	ScoreJumpToRepost float64 `mapstructure:"score_jump_to_repost"`

	TrendMaxBoost float64 `mapstructure:"trend_max_boost"`
	UpsideAt100x  float64 `mapstructure:"upside_at_100x"`
}

type CollectorConfig struct {
	PollSeconds int `mapstructure:"poll_seconds"`
}

type LabelerConfig struct {
	PollSeconds int `mapstructure:"poll_seconds"`
	BatchLimit  int `mapstructure:"batch_limit"`
}

type TrendsConfig struct {
	TickSeconds      int     `mapstructure:"tick_seconds"`
	DecayHalfLifeMin int     `mapstructure:"decay_half_life_min"`
	ScoreFloor       float64 `mapstructure:"score_floor"`
	DefaultAddScore  float64 `mapstructure:"default_add_score"`
	BoostQueryLimit  int     `mapstructure:"boost_query_limit"`
}

type Config struct {
	App struct {
		Environment string `mapstructure:"environment"`
	} `mapstructure:"app"`

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`

	Scanner   ScannerConfig   `mapstructure:"scanner"`
	Collector CollectorConfig `mapstructure:"collector"`
	Labeler   LabelerConfig   `mapstructure:"labeler"`
	Trends    TrendsConfig    `mapstructure:"trends"`
}

func (s ScannerConfig) TickInterval() time.Duration {
	return time.Duration(s.TickSeconds) * time.Second
}

func (s ScannerConfig) AntiSpamWindow() time.Duration {
	return time.Duration(s.AntiSpamMinutes) * time.Minute
}

var (
	globalConfig *Config
	configLock   sync.RWMutex
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "production")
	v.SetDefault("logging.level", "info")

	v.SetDefault("scanner.chain", "solana")
	v.SetDefault("scanner.tick_seconds", 60)
	v.SetDefault("scanner.batch_limit", 30)
	v.SetDefault("scanner.max_alerts_per_tick", 5)
	v.SetDefault("scanner.min_liq_usd", 2000.0)
	v.SetDefault("scanner.min_fdv_usd", 30000.0)
	v.SetDefault("scanner.hard_trash_liq_usd", 200.0)
	v.SetDefault("scanner.hard_trash_fdv_usd", 5000.0)
	v.SetDefault("scanner.min_score_new", 60.0)
	v.SetDefault("scanner.min_score_revival", 65.0)
	v.SetDefault("scanner.min_score_to_post", 60.0)
	v.SetDefault("scanner.new_max_age_min", 240.0)
	v.SetDefault("scanner.revival_min_age_min", 1440.0)
	v.SetDefault("scanner.trig_pchg_5m_new", 3.0)
	v.SetDefault("scanner.trig_imbalance_new", 0.62)
	v.SetDefault("scanner.min_tx_new", 3)
	v.SetDefault("scanner.trig_pchg_5m_revival", 2.0)
	v.SetDefault("scanner.trig_vol_spike_x", 2.5)
	v.SetDefault("scanner.trig_imbalance_revival", 0.55)
	v.SetDefault("scanner.min_tx_revival", 5)
	v.SetDefault("scanner.anti_spam_minutes", 30)
	v.SetDefault("scanner.score_jump_to_repost", 5.0)
	v.SetDefault("scanner.trend_max_boost", 10.0)
	v.SetDefault("scanner.upside_at_100x", 3.0)

	v.SetDefault("collector.poll_seconds", 20)

	v.SetDefault("labeler.poll_seconds", 30)
	v.SetDefault("labeler.batch_limit", 20)

	v.SetDefault("trends.tick_seconds", 60)
	v.SetDefault("trends.decay_half_life_min", 90)
	v.SetDefault("trends.score_floor", 5.0)
	v.SetDefault("trends.default_add_score", 80.0)
	v.SetDefault("trends.boost_query_limit", 50)
}

// LoadConfig reads the yaml config at path. A missing file is fine: every
// value has a default, so a fresh checkout runs with production thresholds.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("INFO: Config file %s not readable, using defaults: %v", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SetGlobalConfig(cfg *Config) {
	configLock.Lock()
	defer configLock.Unlock()
	globalConfig = cfg
}

func GetGlobalConfig() *Config {
	configLock.RLock()
	defer configLock.RUnlock()
	return globalConfig
}
