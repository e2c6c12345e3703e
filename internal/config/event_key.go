package config

import (
	"fmt"
)

type EventKeyStruct struct {
	SessionEventsChannel string
}

// SessionChannel returns the Redis PubSub channel carrying events of a single session.
func (r *EventKeyStruct) SessionChannel(sessionID string) string {
	return fmt.Sprintf("practice:session:%s:events", sessionID)
}

var EventKey = &EventKeyStruct{
	SessionEventsChannel: "practice:session:events",
}
