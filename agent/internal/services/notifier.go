package services

import (
	"fmt"
	"strings"

	"meme-scanner/shared/config"
	"meme-scanner/shared/logger"
	"meme-scanner/shared/notifications"
)

// Notifier formats the ranked alert batch as Discord embeds and delivers it
// once per tick.
type Notifier struct {
	webhookURL string
	username   string
	chain      string
	maxCards   int
	upside     float64
	log        *logger.Logger
}

func NewNotifier(cfg config.ScannerConfig, webhookURL string, log *logger.Logger) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		username:   "Meme Alpha",
		chain:      cfg.Chain,
		maxCards:   cfg.MaxAlertsTick,
		upside:     cfg.UpsideAt100x,
		log:        log,
	}
}

// Post delivers up to maxCards embeds. With no webhook configured the batch
// is logged and dropped.
func (n *Notifier) Post(cards []ScoredCard) error {
	if len(cards) == 0 {
		return nil
	}
	if len(cards) > n.maxCards {
		cards = cards[:n.maxCards]
	}
	if n.webhookURL == "" {
		n.log.Warn("No alert webhook configured, dropping batch", "count", len(cards))
		return nil
	}

	embeds := make([]notifications.Embed, 0, len(cards))
	for _, card := range cards {
		embeds = append(embeds, n.buildEmbed(card))
	}
	if err := notifications.SendEmbeds(n.webhookURL, n.username, embeds); err != nil {
		return err
	}
	n.log.Info("Posted alert batch", "count", len(embeds))
	return nil
}

func (n *Notifier) buildEmbed(card ScoredCard) notifications.Embed {
	p := card.Pair
	f := card.Features

	trend := ""
	if len(card.TrendHits) > 0 {
		hits := card.TrendHits
		if len(hits) > 3 {
			hits = hits[:3]
		}
		trend = "🔥 Trend: " + strings.Join(hits, ", ")
	}

	potFdv := PotentialFDV(f.FdvUSD, card.Score, n.upside)
	desc := fmt.Sprintf(
		"**Score:** `%.1f/100`  %s\n"+
			"**FDV:** `$%s`  →  **Potential:** `$%s`\n"+
			"**Liq:** `$%s`  •  **1h:** `%g%%`  •  **5m:** `%g%%`\n"+
			"**Buys/Sells 5m:** 🟢 `%d` / 🔴 `%d`\n",
		card.Score, trend,
		groupThousands(int64(f.FdvUSD)), groupThousands(potFdv),
		groupThousands(int64(f.LiqUSD)), f.Pchg1h, f.Pchg5m,
		f.Buys5, f.Sells5,
	)

	embed := notifications.Embed{
		Title:       fmt.Sprintf("%s on %s (%s)", p.Symbol(), p.DexID, n.chain),
		URL:         p.URL,
		Description: desc,
		Color:       ScoreToColor(card.Score),
		Footer:      &notifications.EmbedFooter{Text: fmt.Sprintf("Age: %d min", int(f.AgeMin))},
	}
	if p.Info != nil && p.Info.ImageURL != "" {
		embed.Thumbnail = &notifications.EmbedThumbnail{URL: p.Info.ImageURL}
	}
	return embed
}

// ScoreToColor maps 0..100 to a red→green gradient for the embed sidebar.
func ScoreToColor(score float64) int {
	s := clamp01(score/100.0)
	r := int(255 * (1 - s))
	g := int(255 * s)
	b := 40
	return (r << 16) + (g << 8) + b
}

// PotentialFDV projects an optimistic FDV: below score 60 there is no
// upside; between 60 and 100 the multiplier ramps linearly to upsideAt100.
func PotentialFDV(currentFdv, score, upsideAt100 float64) int64 {
	mult := 1.0
	if score > 60 {
		mult = 1.0 + (score-60.0)/40.0*(upsideAt100-1.0)
	}
	if currentFdv < 0 {
		currentFdv = 0
	}
	return int64(currentFdv * mult)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
