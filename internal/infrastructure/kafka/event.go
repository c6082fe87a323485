package kafka

import "encoding/json"

// Event is the envelope every message on the shop topic uses: a type
// tag for routing plus the serialized domain payload. The producer
// builds it on publish; consumers decode it to route by Type.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}
