package signal

const (
	// EventEvaluate asks the host to evaluate {"script": ...} in the page.
	EventEvaluate = "web3mock.evaluate"
	// EventDropped reports a bridge message that could not be handled.
	EventDropped = "web3mock.dropped"
)

// EvaluateEvent is the payload of EventEvaluate.
type EvaluateEvent struct {
	Script string `json:"script"`
	ID     string `json:"id,omitempty"`
}

// SendEvaluate also stamps the delivery id, if any, on the envelope.
func SendEvaluate(event EvaluateEvent) {
	send(NewEnvelope(EventEvaluate, event.ID, event))
}

func SendDropped(reason string) {
	Send(EventDropped, map[string]string{"reason": reason})
}
