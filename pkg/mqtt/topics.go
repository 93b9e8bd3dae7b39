package mqtt

import (
	"fmt"
	"strings"

	"github.com/urmzd/homectl/pkg/home"
)

const defaultTopicPrefix = "homectl"

const (
	statusOnline  = `{"status":"online"}`
	statusOffline = `{"status":"offline"}`
)

// Topics builds topic names under a prefix.
//
//	homectl/status
//	homectl/events/homes_changed
//	homectl/accessories/<id>/power
type Topics struct {
	prefix string
}

// NewTopics returns a builder for prefix, or "homectl" when prefix is empty.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Status is the retained online/offline topic.
func (t Topics) Status() string {
	return t.prefix + "/status"
}

// Event is the topic for events of the given type.
func (t Topics) Event(eventType home.EventType) string {
	return fmt.Sprintf("%s/events/%s", t.prefix, eventType)
}

// Power is the retained power-state topic of an accessory.
func (t Topics) Power(accessoryID string) string {
	return fmt.Sprintf("%s/accessories/%s/power", t.prefix, accessoryID)
}
