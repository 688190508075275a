package parser

import (
	"bytes"
	"encoding/json"
)

// ControlType classifies a JSON control frame.
type ControlType int

const (
	ControlHeartbeat ControlType = iota // PINGPONG, must be echoed verbatim
	ControlAck                          // subscribe/unsubscribe acknowledgement
)

// Subscribe acknowledgement codes the feed sends after a control frame.
var ackCodes = map[string]struct{}{
	"OPSP0000": {}, // subscribe success
	"OPSP0003": {}, // unsubscribe success
	"OPSP9991": {}, // already in subscription
}

// ControlFrame is a recognized JSON control frame.
type ControlFrame struct {
	Type    ControlType
	TrID    string
	Code    string // msg_cd for acks
	Message string // msg1 for acks
}

type controlWire struct {
	Header struct {
		TrID string `json:"tr_id"`
	} `json:"header"`
	Body struct {
		RtCd  string `json:"rt_cd"`
		MsgCd string `json:"msg_cd"`
		Msg1  string `json:"msg1"`
	} `json:"body"`
}

// Control reports whether raw is a JSON control frame. It must be consulted
// before positional parsing; heartbeats and acks never reach the router.
func Control(raw []byte) (ControlFrame, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ControlFrame{}, false
	}

	var wire controlWire
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return ControlFrame{}, false
	}

	if wire.Header.TrID == "PINGPONG" {
		return ControlFrame{Type: ControlHeartbeat, TrID: wire.Header.TrID}, true
	}

	if _, ok := ackCodes[wire.Body.MsgCd]; ok || wire.Body.RtCd != "" {
		return ControlFrame{
			Type:    ControlAck,
			TrID:    wire.Header.TrID,
			Code:    wire.Body.MsgCd,
			Message: wire.Body.Msg1,
		}, true
	}

	return ControlFrame{}, false
}
