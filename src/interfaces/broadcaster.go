package interfaces

import "live-analyser/src/models"

// -----------------------------------------------------------------------------
// IBroadcaster fans score and alert events out to subscribers. Publishing
// must never block the pipeline: a slow subscriber loses messages instead.
// -----------------------------------------------------------------------------

type IBroadcaster interface {

	// Subscribe registers a new subscriber and returns its id and channel.
	Subscribe() (int64, <-chan models.MEvent)

	// -----------------------------------------------------------------------------

	// Unsubscribe removes a subscriber and closes its channel.
	Unsubscribe(id int64)

	// -----------------------------------------------------------------------------

	// PublishScore emits a score_update event.
	PublishScore(snapshot *models.MScoreSnapshot)

	// -----------------------------------------------------------------------------

	// PublishAlert emits an alert event.
	PublishAlert(alert *models.MAlertEvent)
}
