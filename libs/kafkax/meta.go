package kafkax

import (
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"
)

// Envelope describes one domain event on its way to a topic.
type Envelope struct {
	Topic     string
	Key       string
	EventID   string
	EventType string
	Payload   []byte
}

// Message converts the envelope into a kafka message carrying the event
// id and type as headers so consumers can dedupe without decoding.
func (e Envelope) Message() kafka.Message {
	return kafka.Message{
		Topic: e.Topic,
		Key:   []byte(e.Key),
		Value: e.Payload,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(e.EventID)},
			{Key: HeaderEventType, Value: []byte(e.EventType)},
		},
	}
}

func HeaderValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
