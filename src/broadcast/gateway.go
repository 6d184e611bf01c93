package broadcast

import (
	"sync"

	"live-analyser/src/logger"
	"live-analyser/src/models"
)

// -----------------------------------------------------------------------------
// Gateway fans score and alert events out to subscribers. Delivery is
// fire-and-forget: each subscriber gets a buffered channel and a non-blocking
// send, so a slow or stuck consumer loses messages instead of stalling the
// update pipeline.
// -----------------------------------------------------------------------------

const subscriberBufferSize = 64

type Gateway struct {
	Logger *logger.Logger

	mu          sync.RWMutex
	subscribers map[int64]chan models.MEvent
	nextID      int64
}

// -----------------------------------------------------------------------------

func NewGateway(log *logger.Logger) *Gateway {
	return &Gateway{
		Logger:      log,
		subscribers: make(map[int64]chan models.MEvent),
	}
}

// -----------------------------------------------------------------------------

// Subscribe registers a new subscriber channel.
func (g *Gateway) Subscribe() (int64, <-chan models.MEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	id := g.nextID
	ch := make(chan models.MEvent, subscriberBufferSize)
	g.subscribers[id] = ch

	g.Logger.Debug("Subscriber %d connected (%d total)", id, len(g.subscribers))
	return id, ch
}

// -----------------------------------------------------------------------------

// Unsubscribe removes a subscriber and closes its channel.
func (g *Gateway) Unsubscribe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if ch, ok := g.subscribers[id]; ok {
		delete(g.subscribers, id)
		close(ch)
		g.Logger.Debug("Subscriber %d disconnected (%d total)", id, len(g.subscribers))
	}
}

// -----------------------------------------------------------------------------

// PublishScore emits a score_update event to all subscribers.
func (g *Gateway) PublishScore(snapshot *models.MScoreSnapshot) {
	g.publish(models.MEvent{Type: models.EventScoreUpdate, Score: snapshot})
}

// PublishAlert emits an alert event to all subscribers.
func (g *Gateway) PublishAlert(alert *models.MAlertEvent) {
	g.publish(models.MEvent{Type: models.EventAlert, Alert: alert})
}

// -----------------------------------------------------------------------------

func (g *Gateway) publish(event models.MEvent) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for id, ch := range g.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber buffer full, drop the message to keep the pipeline moving
			g.Logger.Debug("Dropped %s event for slow subscriber %d", event.Type, id)
		}
	}
}

// -----------------------------------------------------------------------------

// SubscriberCount reports the current subscriber total (health endpoint).
func (g *Gateway) SubscriberCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.subscribers)
}
