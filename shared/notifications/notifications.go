package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Discord webhook payloads. The alert channel and the ops channel share the
// same wire format; only the webhook URL differs.

type Embed struct {
	Title       string          `json:"title,omitempty"`
	URL         string          `json:"url,omitempty"`
	Description string          `json:"description,omitempty"`
	Color       int             `json:"color,omitempty"`
	Footer      *EmbedFooter    `json:"footer,omitempty"`
	Thumbnail   *EmbedThumbnail `json:"thumbnail,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type EmbedThumbnail struct {
	URL string `json:"url"`
}

type webhookPayload struct {
	Username string  `json:"username,omitempty"`
	Content  string  `json:"content,omitempty"`
	Embeds   []Embed `json:"embeds,omitempty"`
}

var (
	httpClient = &http.Client{Timeout: 15 * time.Second}

	// Discord allows ~30 webhook requests/min; stay well under it.
	discordLimiter = rate.NewLimiter(rate.Limit(0.4), 2)

	opsWebhookURL string
)

// InitOpsWebhook wires the channel used by the logger for WARN/ERROR
// mirroring. An empty URL disables mirroring.
func InitOpsWebhook(url string) {
	opsWebhookURL = url
	if url == "" {
		log.Println("INFO: Ops Discord webhook not configured, log mirroring disabled.")
		return
	}
	log.Println("INFO: Ops Discord webhook configured.")
}

func OpsWebhookEnabled() bool {
	return opsWebhookURL != ""
}

// SendOpsMessage posts a plain-text message to the ops channel. Failures are
// logged locally and swallowed so logging can never take the process down.
func SendOpsMessage(message string) {
	if opsWebhookURL == "" {
		return
	}
	if err := post(opsWebhookURL, webhookPayload{Content: message}); err != nil {
		log.Printf("WARN: Failed to deliver ops message to Discord: %v", err)
	}
}

// SendEmbeds posts a batch of embeds to the given webhook.
func SendEmbeds(webhookURL, username string, embeds []Embed) error {
	if webhookURL == "" {
		return fmt.Errorf("webhook URL is empty")
	}
	if len(embeds) == 0 {
		return nil
	}
	return post(webhookURL, webhookPayload{Username: username, Embeds: embeds})
}

func post(webhookURL string, payload webhookPayload) error {
	if err := discordLimiter.Wait(context.Background()); err != nil {
		return fmt.Errorf("discord rate limiter: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	resp, err := httpClient.Post(webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord webhook responded %s: %s", resp.Status, string(respBody))
	}
	return nil
}
