// Package handshake drives the channel-encrypt negotiation that
// establishes a per-connection session key before any client traffic.
package handshake

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"dev.ventlab.steamnet/internal/crypto"
	"dev.ventlab.steamnet/internal/wire"
)

// Error: fatal protocol violation during negotiation. Every Error aborts
// the handshake; the caller decides whether to reconnect.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "unexpected handshake: " + e.Reason
}

// Session: the established channel state handed back to the caller. Key
// is the plaintext session key retained for all later traffic.
type Session struct {
	Key      [crypto.KeySize]byte
	Protocol uint32
	Universe uint32
}

// Negotiate runs the two-round negotiation over r and w:
//
//	await ChannelEncryptRequest -> send ClientEncryptResponse ->
//	await ChannelEncryptResult -> established
//
// Reads and writes are strictly sequential; Negotiate owns both halves
// until it returns. There is no internal timeout; bound the wait by
// putting a deadline on the underlying connection and discard the
// connection on expiry.
func Negotiate(r *wire.FrameReader, w *wire.FrameWriter, keys crypto.KeyGenerator) (*Session, error) {
	return NegotiateWithChecksum(r, w, keys, nil)
}

// NegotiateWithChecksum is Negotiate with a substitute key checksum.
func NegotiateWithChecksum(r *wire.FrameReader, w *wire.FrameWriter, keys crypto.KeyGenerator, sum Checksum) (*Session, error) {
	msg, err := r.ReadMessage()
	if err != nil {
		return nil, err
	}
	if msg.Kind != wire.EMsgChannelEncryptRequest {
		return nil, &Error{Reason: "expected encrypt request"}
	}
	req, err := DecodeChannelEncryptRequest(msg.Data)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"protocol": req.Protocol,
		"universe": req.Universe,
	}).Debug("channel encrypt request")

	key, err := keys.GenerateSessionKey(req.Nonce[:])
	if err != nil {
		return nil, err
	}

	resp := &ClientEncryptResponse{
		TargetJobID:  NoJobID,
		SourceJobID:  NoJobID,
		Protocol:     req.Protocol,
		EncryptedKey: key.Encrypted,
	}
	if err := w.WriteFrame(resp.Encode(sum)); err != nil {
		return nil, err
	}

	msg, err = r.ReadMessage()
	if err != nil {
		return nil, err
	}
	if msg.Kind != wire.EMsgChannelEncryptResult {
		return nil, &Error{Reason: "expected encrypt result"}
	}
	res, err := DecodeChannelEncryptResult(msg.Data)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"result": res.Result,
	}).Debug("channel encrypt result")

	if res.Result != ResultOK {
		return nil, &Error{Reason: fmt.Sprintf("encrypt result %d", res.Result)}
	}

	return &Session{
		Key:      key.Plain,
		Protocol: req.Protocol,
		Universe: req.Universe,
	}, nil
}
