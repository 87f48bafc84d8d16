package wire

import "encoding/binary"

// RawMessage: decoded view over a frame payload. Data aliases the frame
// buffer and shares its lifetime (valid until the next read).
type RawMessage struct {
	Kind       EMsg
	IsProtobuf bool
	Data       []byte
}

// ParseRawMessage resolves the leading signed kind code of payload.
// A negative code marks a protobuf-encoded body; the kind is looked up by
// absolute value. The sign convention stays inside this function: callers
// only ever see Kind + IsProtobuf.
func ParseRawMessage(payload []byte) (RawMessage, error) {
	if len(payload) < KindSize {
		return RawMessage{}, &InvalidMessageKindError{Code: 0}
	}
	code := int32(binary.LittleEndian.Uint32(payload[0:KindSize]))
	isProtobuf := code < 0

	abs := code
	if abs < 0 {
		abs = -abs
	}
	kind, ok := EMsgFromCode(abs)
	if !ok {
		return RawMessage{}, &InvalidMessageKindError{Code: code}
	}

	return RawMessage{
		Kind:       kind,
		IsProtobuf: isProtobuf,
		Data:       payload[KindSize:],
	}, nil
}
