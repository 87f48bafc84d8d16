package cm

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.ventlab.steamnet/internal/crypto"
	"dev.ventlab.steamnet/internal/handshake"
	"dev.ventlab.steamnet/internal/wire"
)

type fakeKeys struct {
	plain     [crypto.KeySize]byte
	encrypted []byte
}

func (f *fakeKeys) GenerateSessionKey(nonce []byte) (*crypto.SessionKey, error) {
	return &crypto.SessionKey{Plain: f.plain, Encrypted: f.encrypted}, nil
}

// scriptedServer accepts one connection and plays the server side of the
// negotiation, sending result code res after the client's response.
func scriptedServer(ln net.Listener, res uint32, done chan<- error) {
	conn, err := ln.Accept()
	if err != nil {
		done <- err
		return
	}
	defer conn.Close()

	fw := wire.NewFrameWriter(conn)
	fr := wire.NewFrameReader(conn)

	req := make([]byte, 0, 44)
	req = binary.LittleEndian.AppendUint32(req, uint32(wire.EMsgChannelEncryptRequest))
	req = binary.LittleEndian.AppendUint64(req, 0)
	req = binary.LittleEndian.AppendUint64(req, 0)
	req = binary.LittleEndian.AppendUint32(req, 1) // protocol
	req = binary.LittleEndian.AppendUint32(req, 1) // universe
	req = append(req, make([]byte, 16)...)
	if err := fw.WriteFrame(req); err != nil {
		done <- err
		return
	}

	msg, err := fr.ReadMessage()
	if err != nil {
		done <- err
		return
	}
	if msg.Kind != wire.EMsgChannelEncryptResponse {
		done <- &handshake.Error{Reason: "expected encrypt response"}
		return
	}

	result := make([]byte, 0, 24)
	result = binary.LittleEndian.AppendUint32(result, uint32(wire.EMsgChannelEncryptResult))
	result = binary.LittleEndian.AppendUint64(result, handshake.NoJobID)
	result = binary.LittleEndian.AppendUint64(result, handshake.NoJobID)
	result = binary.LittleEndian.AppendUint32(result, res)
	done <- fw.WriteFrame(result)
}

func TestConnectEstablishesChannel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	done := make(chan error, 1)
	go scriptedServer(ln, handshake.ResultOK, done)

	keys := &fakeKeys{
		plain:     [crypto.KeySize]byte{42},
		encrypted: []byte("ciphertext"),
	}
	conn, err := Connect(ln.Addr().String(), 5*time.Second, keys)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, keys.plain, conn.SessionKey())
	assert.Equal(t, uint32(1), conn.Protocol())
	assert.Equal(t, uint32(1), conn.Universe())
	require.NoError(t, <-done)
}

func TestConnectResultFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	done := make(chan error, 1)
	go scriptedServer(ln, 2, done)

	_, err = Connect(ln.Addr().String(), 5*time.Second, &fakeKeys{encrypted: []byte("x")})
	var hsErr *handshake.Error
	require.ErrorAs(t, err, &hsErr)
	require.NoError(t, <-done)
}

func TestConnectRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Connect(addr, time.Second, &fakeKeys{})
	assert.Error(t, err)
}
