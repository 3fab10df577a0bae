package notifications

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

type webhookRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *webhookRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var event Event
		if err := json.Unmarshal(body, &event); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		r.mu.Lock()
		r.events = append(r.events, event)
		r.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (r *webhookRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *webhookRecorder) first() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[0]
}

func TestWebhookNotifier_DeliversEvent(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	n := NewWebhookNotifier(server.URL, time.Second)
	n.Notify(context.Background(), Event{
		Type:        EventPostLiked,
		ActorID:     1,
		RecipientID: 2,
		PostID:      7,
	})

	require.Eventually(t, func() bool { return recorder.count() == 1 }, waitFor, tick)

	delivered := recorder.first()
	assert.Equal(t, EventPostLiked, delivered.Type)
	assert.Equal(t, int64(1), delivered.ActorID)
	assert.Equal(t, int64(2), delivered.RecipientID)
	assert.Equal(t, int64(7), delivered.PostID)
	assert.NotEmpty(t, delivered.ID)
	assert.False(t, delivered.OccurredAt.IsZero())
}

func TestWebhookNotifier_SkipsSelfNotification(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	n := NewWebhookNotifier(server.URL, time.Second)
	n.Notify(context.Background(), Event{
		Type:        EventPostLiked,
		ActorID:     1,
		RecipientID: 1,
		PostID:      7,
	})

	assert.Never(t, func() bool { return recorder.count() > 0 }, 200*time.Millisecond, tick)
}

func TestWebhookNotifier_EmptyURLDropsEvents(t *testing.T) {
	n := NewWebhookNotifier("", time.Second)

	// Must not panic or block
	n.Notify(context.Background(), Event{Type: EventPostCommented, ActorID: 1, RecipientID: 2})
}

func TestNoopNotifier_DiscardsEvents(t *testing.T) {
	NoopNotifier{}.Notify(context.Background(), Event{Type: EventCommentLiked, ActorID: 1, RecipientID: 2})
}
