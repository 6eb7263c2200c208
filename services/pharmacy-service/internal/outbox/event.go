package outbox

const (
	TopicAppointmentBooked = "pharmacy.appointment.booked.v1"
	TopicUserActivity      = "pharmacy.user.activity.v1"
)

// Event is a row of outbox_events. EventType doubles as the Kafka topic.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}
