// Package notifications delivers feed activity events to the surrounding
// backend over a webhook.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/talabahamkor/choyxona/internal/pkg/logger"
)

// Event types emitted by the feed.
const (
	EventPostCommented = "post.commented"
	EventCommentLiked  = "comment.liked"
	EventPostLiked     = "post.liked"
	EventPostReposted  = "post.reposted"
)

// Event is the payload posted to the webhook.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ActorID     int64     `json:"actorId"`
	RecipientID int64     `json:"recipientId"`
	PostID      int64     `json:"postId"`
	CommentID   *int64    `json:"commentId,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Notifier publishes feed activity events. Delivery is best effort: a failed
// or slow webhook never affects the operation that produced the event.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// WebhookNotifier posts events to a configured HTTP endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a notifier targeting url. An empty url yields a
// notifier that drops every event.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify delivers the event in a background goroutine. Actors never notify
// themselves about their own activity.
func (n *WebhookNotifier) Notify(ctx context.Context, event Event) {
	if n.url == "" || event.ActorID == event.RecipientID {
		return
	}

	event.ID = uuid.NewString()
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	go func() {
		body, err := json.Marshal(event)
		if err != nil {
			logger.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal notification event")
			return
		}

		// Detached from the request context so delivery survives the response
		ctx, cancel := context.WithTimeout(context.Background(), n.client.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
		if err != nil {
			logger.Error().Err(err).Msg("Failed to build notification request")
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			logger.Warn().Err(err).Str("type", event.Type).Msg("Notification delivery failed")
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			logger.Warn().Int("status", resp.StatusCode).Str("type", event.Type).Msg("Notification webhook rejected event")
		}
	}()
}

// NoopNotifier discards all events. Used in tests and when no webhook is
// configured.
type NoopNotifier struct{}

// Notify implements Notifier.
func (NoopNotifier) Notify(ctx context.Context, event Event) {}
