package email

// Result reports one delivery attempt. Exactly one of a MessageID-bearing
// success or an Error-bearing failure holds, never both and never neither.
type Result struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

func Delivered(messageID string) Result {
	return Result{Success: true, MessageID: messageID}
}

func Failed(reason string) Result {
	if reason == "" {
		reason = "delivery failed"
	}
	return Result{Success: false, Error: reason}
}
