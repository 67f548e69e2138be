package websocket

import (
	"encoding/json"
	"fmt"
)

// Envelope is the minimal decoded form of an inbound chat frame: the
// sender's user id plus the raw payload to relay.
type Envelope struct {
	SenderID int
	Raw      []byte
}

type envelopeWire struct {
	UserID *int `json:"idUser"`
}

// DecodeEnvelope extracts the sender id from an inbound payload. It fails
// closed: a payload that is not valid JSON, or that lacks a numeric idUser
// field, yields an error and must be dropped by the caller.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var wire envelopeWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if wire.UserID == nil {
		return Envelope{}, fmt.Errorf("decode envelope: missing idUser field")
	}

	return Envelope{
		SenderID: *wire.UserID,
		Raw:      raw,
	}, nil
}
