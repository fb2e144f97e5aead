package services

import "github.com/rs/zerolog/log"

// Emitter delivers a realtime event to every live session of a user.
// Emitting to a user without sessions is a no-op.
type Emitter interface {
	EmitToUser(userID, event string, payload any)
}

// TopicEmitter delivers a realtime event to every session subscribed to a
// chat group.
type TopicEmitter interface {
	EmitToTopic(topic, event string, payload any)
}

// Publisher hands domain events to an external message broker.
type Publisher interface {
	Publish(eventType string, payload any) error
}

// publish sends a domain event when a publisher is configured. Failures are
// logged and never propagate to the caller.
func publish(p Publisher, eventType string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(eventType, payload); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to publish domain event")
	}
}
