// Package discord evaluates coaching rules against normalized games and
// pushes triggered alerts to a Discord incoming webhook.
package discord

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"junglecoach/internal/model"
)

const (
	defaultWebhookTimeout = 10 * time.Second

	// Max retries when Discord rate limits a delivery.
	maxRetries = 3
)

// WebhookPayload is a Discord webhook message.
type WebhookPayload struct {
	Content string `json:"content"`
}

// Notifier delivers coaching alerts to a Discord webhook. An empty webhook
// URL disables delivery without error.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
	sleep      func(time.Duration)
	log        *logrus.Logger
}

// NewNotifier creates a Notifier. webhookURL may be empty, in which case
// all sends become no-ops.
func NewNotifier(webhookURL string, log *logrus.Logger) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: defaultWebhookTimeout,
		},
		sleep: time.Sleep,
		log:   log,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.webhookURL != ""
}

// NotifyGame evaluates the coaching rules for one game and delivers every
// triggered alert. Delivery failures are logged, not returned, so a broken
// webhook never blocks the sync path.
func (n *Notifier) NotifyGame(ctx context.Context, game model.Game) []Alert {
	alerts := EvaluateGame(game)
	if !n.Enabled() {
		return alerts
	}

	for _, alert := range alerts {
		if err := n.Send(ctx, alert.Message); err != nil {
			n.log.WithError(err).WithFields(logrus.Fields{
				"matchId": game.MatchID,
				"type":    alert.Type,
			}).Warn("coaching alert delivery failed")
		}
	}
	return alerts
}

// Send posts one plaintext message, retrying on rate limiting with the
// Retry-After header.
func (n *Notifier) Send(ctx context.Context, message string) error {
	if !n.Enabled() {
		return nil
	}

	data, err := json.Marshal(WebhookPayload{Content: message})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		resp.Body.Close()

		// Discord returns 204 No Content on success.
		if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
			return nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := time.Second
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					waitDuration = time.Duration(seconds) * time.Second
				}
			}

			if err := ctx.Err(); err != nil {
				return err
			}
			n.sleep(waitDuration)
			continue
		}

		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return fmt.Errorf("webhook request failed after %d retries", maxRetries)
}
