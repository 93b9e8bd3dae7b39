package mqtt

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/homectl/pkg/home"
)

// Forward publishes events until ctx is done or events is closed. Publish
// failures are logged and do not stop forwarding.
func Forward(ctx context.Context, pub Publisher, topics Topics, events <-chan home.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case evt, ok := <-events:
			if !ok {
				return nil
			}
			publishEvent(pub, topics, evt)
		}
	}
}

func publishEvent(pub Publisher, topics Topics, evt home.Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Warn().Err(err).Str("type", string(evt.Type)).Msg("Failed to encode event")
		return
	}
	if err := pub.Publish(topics.Event(evt.Type), payload, false); err != nil {
		log.Warn().Err(err).Str("type", string(evt.Type)).Msg("Failed to publish event")
	}

	if evt.Type != home.EventCharacteristicChanged || evt.AccessoryID == "" {
		return
	}
	on, ok := evt.Value.(bool)
	if !ok {
		return
	}
	if err := pub.Publish(topics.Power(evt.AccessoryID), []byte(strconv.FormatBool(on)), true); err != nil {
		log.Warn().Err(err).Str("accessory", evt.AccessoryID).Msg("Failed to publish power state")
	}
}
