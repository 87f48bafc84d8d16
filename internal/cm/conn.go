// Package cm manages connections to CM (connection manager) servers:
// dialing the raw framed stream and upgrading it through the
// channel-encrypt negotiation.
package cm

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"dev.ventlab.steamnet/internal/crypto"
	"dev.ventlab.steamnet/internal/handshake"
	"dev.ventlab.steamnet/internal/wire"
)

// RawConn: framed but not yet negotiated connection. Reader and Writer
// are independent halves; during the handshake both belong to a single
// caller.
type RawConn struct {
	conn   net.Conn
	Reader *wire.FrameReader
	Writer *wire.FrameWriter
}

// Dial opens a TCP connection to addr and wraps it in the frame codec.
func Dial(addr string, timeout time.Duration) (*RawConn, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return &RawConn{
		conn:   conn,
		Reader: wire.NewFrameReader(conn),
		Writer: wire.NewFrameWriter(conn),
	}, nil
}

// SetDeadline bounds all pending and future I/O on the connection.
func (c *RawConn) SetDeadline(t time.Time) error {
	return c.conn.SetDeadline(t)
}

// Close closes the underlying connection.
func (c *RawConn) Close() error {
	return c.conn.Close()
}

// Conn: connection with an established encrypted channel.
type Conn struct {
	raw     *RawConn
	session *handshake.Session
}

// Connect dials addr and runs the channel-encrypt negotiation. timeout
// covers the dial and the whole handshake; a stalled handshake fails and
// the connection is discarded (no resumption on the same conn).
func Connect(addr string, timeout time.Duration, keys crypto.KeyGenerator) (*Conn, error) {
	raw, err := Dial(addr, timeout)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		if err := raw.SetDeadline(time.Now().Add(timeout)); err != nil {
			raw.Close()
			return nil, err
		}
	}

	sess, err := handshake.Negotiate(raw.Reader, raw.Writer, keys)
	if err != nil {
		raw.Close()
		return nil, err
	}
	if err := raw.SetDeadline(time.Time{}); err != nil {
		raw.Close()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"addr":     addr,
		"protocol": sess.Protocol,
		"universe": sess.Universe,
	}).Info("channel established")

	return &Conn{raw: raw, session: sess}, nil
}

// SessionKey returns the negotiated plaintext key.
func (c *Conn) SessionKey() [crypto.KeySize]byte {
	return c.session.Key
}

// Protocol returns the protocol version echoed during negotiation.
func (c *Conn) Protocol() uint32 {
	return c.session.Protocol
}

// Universe returns the universe announced by the server.
func (c *Conn) Universe() uint32 {
	return c.session.Universe
}

// Reader returns the read half; after the handshake it may be driven by
// a different goroutine than the write half.
func (c *Conn) Reader() *wire.FrameReader {
	return c.raw.Reader
}

// Writer returns the write half.
func (c *Conn) Writer() *wire.FrameWriter {
	return c.raw.Writer
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}
