package core

import (
	"encoding/json"
	"fmt"
)

// wireType identifies the advertisement's message kind on the wire. The
// field is reserved for future use: an unrecognized type is tolerated,
// not rejected.
const wireType = "update"

// wireRoute is the on-the-wire shape of one routing-table entry.
type wireRoute struct {
	Cost    float64 `json:"cost"`
	NextHop string  `json:"next_hop"`
}

// wireMessage mirrors the advertisement's wire JSON shape exactly.
type wireMessage struct {
	Type     string               `json:"type"`
	SenderID string               `json:"sender_id"`
	Table    map[string]wireRoute `json:"table"`
}

// UpdateMessage is the decoded, core-native form of one advertisement.
type UpdateMessage struct {
	Type     string
	SenderID string
	Table    map[string]Route
}

// EncodeUpdate renders an outbound advertisement as its JSON payload.
func EncodeUpdate(senderID string, table map[string]Route) ([]byte, error) {
	wm := wireMessage{
		Type:     wireType,
		SenderID: senderID,
		Table:    make(map[string]wireRoute, len(table)),
	}
	for dest, r := range table {
		wm.Table[dest] = wireRoute{Cost: r.Cost, NextHop: r.NextHop}
	}
	return json.Marshal(wm)
}

// DecodeUpdate parses an inbound datagram payload. A malformed payload —
// unparsable JSON, or missing sender_id/table — is reported as an error
// so the caller can log it at warn level and discard the datagram.
// Extra fields are ignored by encoding/json; an unrecognized "type" is
// tolerated, not an error.
func DecodeUpdate(payload []byte) (*UpdateMessage, error) {
	var wm wireMessage
	if err := json.Unmarshal(payload, &wm); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}
	if wm.SenderID == "" {
		return nil, fmt.Errorf("malformed payload: missing sender_id")
	}
	if wm.Table == nil {
		return nil, fmt.Errorf("malformed payload: missing table")
	}
	um := &UpdateMessage{
		Type:     wm.Type,
		SenderID: wm.SenderID,
		Table:    make(map[string]Route, len(wm.Table)),
	}
	for dest, wr := range wm.Table {
		um.Table[dest] = Route{Cost: wr.Cost, NextHop: wr.NextHop}
	}
	return um, nil
}
