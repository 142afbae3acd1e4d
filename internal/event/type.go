package event

import "fmt"

// FanoutExchange is the topic exchange all realtime events go through.
// Routing keys are the channel names subscribers bind on.
const FanoutExchange = "telemetry_fanout"

const (
	EventSoilDataUpdate    = "soil-data-update"
	EventNewAlerts         = "new-alerts"
	EventNewRecommendation = "new-recommendation"
)

// FarmChannel scopes events to everyone watching a farm.
func FarmChannel(farmID string) string {
	return fmt.Sprintf("farm-%s", farmID)
}

// UserChannel scopes events to the owning user only.
func UserChannel(userID string) string {
	return fmt.Sprintf("user-%s", userID)
}

// Envelope is the wire shape of one fan-out message.
type Envelope struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// PublishError marks a failed broadcast. Publish failures are logged
// and counted, never propagated to the ingestion caller.
type PublishError struct {
	Channel string
	Event   string
	Err     error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to publish %s on %s: %v", e.Event, e.Channel, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
