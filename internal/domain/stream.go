package domain

// StreamMessage is one raw message read from a work stream.
type StreamMessage struct {
	ID   string
	Data string
}
