package handshake

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.ventlab.steamnet/internal/wire"
)

func encodeEncryptRequest(target, source uint64, protocol, universe uint32, nonce [16]byte) []byte {
	b := make([]byte, 0, encryptRequestSize)
	b = binary.LittleEndian.AppendUint64(b, target)
	b = binary.LittleEndian.AppendUint64(b, source)
	b = binary.LittleEndian.AppendUint32(b, protocol)
	b = binary.LittleEndian.AppendUint32(b, universe)
	b = append(b, nonce[:]...)
	return b
}

func TestDecodeChannelEncryptRequest(t *testing.T) {
	nonce := [16]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	body := encodeEncryptRequest(7, 9, 1, 1, nonce)

	req, err := DecodeChannelEncryptRequest(body)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), req.TargetJobID)
	assert.Equal(t, uint64(9), req.SourceJobID)
	assert.Equal(t, uint32(1), req.Protocol)
	assert.Equal(t, uint32(1), req.Universe)
	assert.Equal(t, nonce, req.Nonce)
}

func TestDecodeChannelEncryptRequestWrongSize(t *testing.T) {
	for _, n := range []int{0, 4, 39, 41, 64} {
		_, err := DecodeChannelEncryptRequest(make([]byte, n))
		var hsErr *Error
		require.ErrorAs(t, err, &hsErr, "size %d", n)
	}
}

func TestDecodeChannelEncryptResult(t *testing.T) {
	body := make([]byte, 0, encryptResultSize)
	body = binary.LittleEndian.AppendUint64(body, NoJobID)
	body = binary.LittleEndian.AppendUint64(body, NoJobID)
	body = binary.LittleEndian.AppendUint32(body, ResultOK)

	res, err := DecodeChannelEncryptResult(body)
	require.NoError(t, err)
	assert.Equal(t, NoJobID, res.TargetJobID)
	assert.Equal(t, ResultOK, res.Result)

	_, err = DecodeChannelEncryptResult(body[:19])
	var hsErr *Error
	require.ErrorAs(t, err, &hsErr)
}

func TestClientEncryptResponseEncode(t *testing.T) {
	key := []byte("pretend-encrypted-session-key-material")
	resp := &ClientEncryptResponse{
		TargetJobID:  NoJobID,
		SourceJobID:  NoJobID,
		Protocol:     1,
		EncryptedKey: key,
	}
	out := resp.Encode(nil)
	require.Len(t, out, resp.EncodedSize())
	require.Len(t, out, 4+8+8+4+4+len(key)+4+4)

	code := int32(binary.LittleEndian.Uint32(out[0:4]))
	assert.Equal(t, -int32(wire.EMsgChannelEncryptResponse), code)
	assert.Equal(t, NoJobID, binary.LittleEndian.Uint64(out[4:12]))
	assert.Equal(t, NoJobID, binary.LittleEndian.Uint64(out[12:20]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(out[20:24]))
	assert.Equal(t, uint32(len(key)), binary.LittleEndian.Uint32(out[24:28]))
	assert.Equal(t, key, out[28:28+len(key)])

	sumOff := 28 + len(key)
	assert.Equal(t, crc32.ChecksumIEEE(key), binary.LittleEndian.Uint32(out[sumOff:sumOff+4]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(out[sumOff+4:sumOff+8]))
}

func TestClientEncryptResponseEncodeCustomChecksum(t *testing.T) {
	resp := &ClientEncryptResponse{Protocol: 1, EncryptedKey: []byte{1, 2, 3}}
	out := resp.Encode(func(b []byte) uint32 { return 0xdeadbeef })
	sumOff := len(out) - 8
	assert.Equal(t, uint32(0xdeadbeef), binary.LittleEndian.Uint32(out[sumOff:sumOff+4]))
}
